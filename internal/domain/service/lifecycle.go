package service

import (
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model/task"
)

// Clock returns the current calendar date
type Clock func() model.Date

// CompletionResult describes the outcome of MarkDone
type CompletionResult struct {
	Task *task.Task
	// Spawned is the next occurrence appended to the collection, if any
	Spawned *task.Task
	// SkippedDuplicate is set when an equivalent pending occurrence already existed
	SkippedDuplicate bool
}

// Lifecycle is the Pending/Completed state machine. Completion is gated by
// the dependency graph and feeds the recurrence engine.
type Lifecycle struct {
	clock Clock
}

// NewLifecycle creates a lifecycle service. A nil clock uses model.Today.
func NewLifecycle(clock Clock) *Lifecycle {
	if clock == nil {
		clock = model.Today
	}
	return &Lifecycle{clock: clock}
}

// Today returns the lifecycle's notion of the current date
func (l *Lifecycle) Today() model.Date {
	return l.clock()
}

// MarkDone completes the task id in c. A blocked task is left untouched and
// a *task.BlockedError naming its pending dependencies is returned.
func (l *Lifecycle) MarkDone(c *task.Collection, id model.TaskID) (*CompletionResult, error) {
	t, ok := c.Get(id)
	if !ok {
		return nil, task.Errorf(task.ErrTaskNotFound, "%s", id.Short())
	}
	if t.IsCompleted() {
		return nil, task.Errorf(task.ErrAlreadyCompleted, "%s", c.Label(id))
	}
	if err := NewDependencyGraph(c).BlockedError(t); err != nil {
		return nil, err
	}

	today := l.clock()
	if err := t.Complete(today); err != nil {
		return nil, err
	}

	result := &CompletionResult{Task: t}
	next, ok := CreateNextOccurrence(t, today)
	if !ok {
		return result, nil
	}
	if _, exists := FindExistingOccurrence(c, next); exists {
		result.SkippedDuplicate = true
		return result, nil
	}
	c.Append(next)
	result.Spawned = next
	return result, nil
}

// MarkUndone reopens the task id in c. Occurrences already spawned stay.
func (l *Lifecycle) MarkUndone(c *task.Collection, id model.TaskID) (*task.Task, error) {
	t, ok := c.Get(id)
	if !ok {
		return nil, task.Errorf(task.ErrTaskNotFound, "%s", id.Short())
	}
	if err := t.Reopen(); err != nil {
		return nil, task.Errorf(err, "%s", c.Label(id))
	}
	return t, nil
}
