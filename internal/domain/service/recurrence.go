package service

import (
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model/task"
)

// NextDate returns the next due date after from for pattern.
// Monthly steps clamp to the last day of the target month (Jan 31 -> Feb 28).
// An unset pattern returns from unchanged.
func NextDate(pattern model.Recurrence, from model.Date) model.Date {
	switch pattern {
	case model.RecurrenceDaily:
		return from.AddDays(1)
	case model.RecurrenceWeekly:
		return from.AddDays(7)
	case model.RecurrenceMonthly:
		return from.AddMonthsClamped(1)
	default:
		return from
	}
}

// CreateNextOccurrence builds the task that follows t in its recurrence chain.
// It returns false when t has no recurrence or no due date. The occurrence
// gets a fresh ID, links back through its parent ID and starts pending with
// no dependencies.
func CreateNextOccurrence(t *task.Task, today model.Date) (*task.Task, bool) {
	if !t.Recurrence().IsSet() || t.DueDate().IsZero() {
		return nil, false
	}
	src := t.Snapshot()
	return task.Reconstruct(task.Snapshot{
		ID:         model.NewTaskID(),
		Text:       src.Text,
		Priority:   src.Priority,
		Tags:       src.Tags,
		Project:    src.Project,
		DueDate:    NextDate(src.Recurrence, src.DueDate),
		Recurrence: src.Recurrence,
		ParentID:   src.ID,
		CreatedAt:  today,
	}), true
}

// FindExistingOccurrence returns a pending task that already stands for next:
// same due date and either the same parent or the same text.
func FindExistingOccurrence(c *task.Collection, next *task.Task) (*task.Task, bool) {
	for _, t := range c.Tasks() {
		if t.IsCompleted() || !t.DueDate().Equal(next.DueDate()) {
			continue
		}
		if t.ParentID().Equals(next.ParentID()) || t.Text() == next.Text() {
			return t, true
		}
	}
	return nil, false
}
