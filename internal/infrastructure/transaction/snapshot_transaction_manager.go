package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/YoshitsuguKoike/deetodo/internal/app"
	"github.com/YoshitsuguKoike/deetodo/internal/application/port/output"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model/task"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/repository"
)

// SnapshotTransactionManager treats the whole task list as the unit of
// atomicity: every transaction loads a fresh snapshot under the lock and
// either saves all of it or nothing.
type SnapshotTransactionManager struct {
	repo    repository.TaskRepository
	locker  output.Locker
	journal repository.JournalRepository
}

var _ output.TransactionManager = (*SnapshotTransactionManager)(nil)

// NewSnapshotTransactionManager creates a transaction manager.
// A nil locker means no cross-process locking; a nil journal disables journaling.
func NewSnapshotTransactionManager(repo repository.TaskRepository, locker output.Locker, journal repository.JournalRepository) *SnapshotTransactionManager {
	if locker == nil {
		locker = output.NopLocker{}
	}
	return &SnapshotTransactionManager{repo: repo, locker: locker, journal: journal}
}

// InTransaction runs fn on a freshly loaded collection and saves the result
func (m *SnapshotTransactionManager) InTransaction(ctx context.Context, operation string, fn func(c *task.Collection) error) error {
	started := time.Now()

	return m.withLock(ctx, func() error {
		tasks, err := m.repo.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load tasks: %w", err)
		}
		c := task.NewCollection(tasks)
		before := c.Len()

		if err := fn(c); err != nil {
			app.GetLogger().Debug("transaction %s aborted: %v", operation, err)
			return err
		}

		if err := m.repo.Save(ctx, c.Tasks()); err != nil {
			return fmt.Errorf("failed to save tasks: %w", err)
		}
		app.GetLogger().Debug("transaction %s committed (%d -> %d tasks)", operation, before, c.Len())

		if m.journal != nil {
			record := app.NewJournalRecord(operation, before, c.Len(), started, nil)
			if err := m.journal.Append(ctx, record); err != nil {
				// The list is already saved; journal failures only warn
				app.GetLogger().Warn("failed to append journal record for %s: %v", operation, err)
			}
		}
		return nil
	})
}

// ReadOnly loads the collection under the lock and never saves it
func (m *SnapshotTransactionManager) ReadOnly(ctx context.Context, fn func(c *task.Collection) error) error {
	return m.withLock(ctx, func() error {
		tasks, err := m.repo.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load tasks: %w", err)
		}
		return fn(task.NewCollection(tasks))
	})
}

func (m *SnapshotTransactionManager) withLock(ctx context.Context, fn func() error) error {
	unlock, err := m.locker.Lock(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire task list lock: %w", err)
	}
	defer func() {
		if err := unlock(); err != nil {
			app.GetLogger().Warn("failed to release task list lock: %v", err)
		}
	}()
	return fn()
}
