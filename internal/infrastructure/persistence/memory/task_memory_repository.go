package memory

import (
	"context"
	"sync"

	"github.com/YoshitsuguKoike/deetodo/internal/domain/model/task"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/repository"
	"github.com/YoshitsuguKoike/deetodo/internal/infrastructure/persistence"
)

// TaskMemoryRepository keeps the task list in process memory.
// Tasks are stored as records so callers never share pointers with the store.
type TaskMemoryRepository struct {
	mu      sync.Mutex
	records []persistence.TaskRecord
	saves   int
	saveErr error
}

var _ repository.TaskRepository = (*TaskMemoryRepository)(nil)

// NewTaskMemoryRepository creates a store seeded with tasks
func NewTaskMemoryRepository(seed ...*task.Task) *TaskMemoryRepository {
	return &TaskMemoryRepository{records: persistence.ToRecords(seed)}
}

// Location returns a fixed marker
func (r *TaskMemoryRepository) Location() string {
	return "memory"
}

// Load returns copies of the stored tasks
func (r *TaskMemoryRepository) Load(ctx context.Context) ([]*task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := persistence.FromRecords(r.records)
	if err != nil {
		return nil, err
	}
	if persistence.BackfillIDs(tasks) > 0 {
		r.records = persistence.ToRecords(tasks)
	}
	return tasks, nil
}

// Save replaces the stored list
func (r *TaskMemoryRepository) Save(ctx context.Context, tasks []*task.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.saveErr != nil {
		return r.saveErr
	}
	r.records = persistence.ToRecords(tasks)
	r.saves++
	return nil
}

// Saves returns how many times Save succeeded
func (r *TaskMemoryRepository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

// FailSaves makes every following Save return err (nil restores normal saves)
func (r *TaskMemoryRepository) FailSaves(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveErr = err
}
