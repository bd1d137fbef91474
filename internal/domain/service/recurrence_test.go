package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/deetodo/internal/domain/model"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model/task"
)

func TestNextDate(t *testing.T) {
	d := func(y int, m time.Month, day int) model.Date { return model.NewDate(y, m, day) }

	tests := []struct {
		name    string
		pattern model.Recurrence
		from    model.Date
		want    model.Date
	}{
		{"Daily", model.RecurrenceDaily, d(2026, time.February, 10), d(2026, time.February, 11)},
		{"Daily month end", model.RecurrenceDaily, d(2026, time.February, 28), d(2026, time.March, 1)},
		{"Weekly", model.RecurrenceWeekly, d(2026, time.February, 10), d(2026, time.February, 17)},
		{"Monthly", model.RecurrenceMonthly, d(2026, time.February, 10), d(2026, time.March, 10)},
		{"Monthly clamps non-leap", model.RecurrenceMonthly, d(2026, time.January, 31), d(2026, time.February, 28)},
		{"Monthly clamps leap", model.RecurrenceMonthly, d(2028, time.January, 31), d(2028, time.February, 29)},
		{"Monthly year end", model.RecurrenceMonthly, d(2026, time.December, 31), d(2027, time.January, 31)},
		{"None", model.RecurrenceNone, d(2026, time.February, 10), d(2026, time.February, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextDate(tt.pattern, tt.from)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestCreateNextOccurrence(t *testing.T) {
	src, err := task.New(task.Params{
		Text:       "water plants",
		Priority:   model.PriorityHigh,
		Tags:       []string{"home"},
		Project:    "garden",
		DueDate:    today,
		Recurrence: model.RecurrenceWeekly,
	}, today)
	require.NoError(t, err)
	src.AddDependencies([]model.TaskID{model.NewTaskID()})
	require.NoError(t, src.Complete(today))

	later := today.AddDays(2)
	next, ok := CreateNextOccurrence(src, later)
	require.True(t, ok)

	assert.False(t, next.ID().Equals(src.ID()))
	assert.True(t, next.ParentID().Equals(src.ID()))
	assert.Equal(t, "water plants", next.Text())
	assert.Equal(t, model.PriorityHigh, next.Priority())
	assert.Equal(t, []string{"home"}, next.Tags())
	assert.Equal(t, "garden", next.Project())
	assert.Equal(t, model.RecurrenceWeekly, next.Recurrence())
	assert.Equal(t, "2026-02-17", next.DueDate().String())
	assert.True(t, next.CreatedAt().Equal(later))
	assert.False(t, next.IsCompleted())
	assert.True(t, next.CompletedAt().IsZero())
	assert.Empty(t, next.DependsOn(), "dependencies are never inherited")
}

func TestCreateNextOccurrence_None(t *testing.T) {
	plain, err := task.New(task.Params{Text: "one-off", DueDate: today}, today)
	require.NoError(t, err)
	_, ok := CreateNextOccurrence(plain, today)
	assert.False(t, ok)

	// a stored record that lost its due date yields nothing either
	broken := task.Reconstruct(task.Snapshot{
		ID:         model.NewTaskID(),
		Text:       "broken",
		Recurrence: model.RecurrenceDaily,
	})
	_, ok = CreateNextOccurrence(broken, today)
	assert.False(t, ok)
}

func TestFindExistingOccurrence(t *testing.T) {
	src, err := task.New(task.Params{Text: "standup", DueDate: today, Recurrence: model.RecurrenceDaily}, today)
	require.NoError(t, err)
	c := task.NewCollection([]*task.Task{src})

	next, _ := CreateNextOccurrence(src, today)
	_, found := FindExistingOccurrence(c, next)
	assert.False(t, found)

	c.Append(next)
	again, _ := CreateNextOccurrence(src, today)
	existing, found := FindExistingOccurrence(c, again)
	assert.True(t, found)
	assert.Same(t, next, existing)

	// a completed occurrence does not count
	require.NoError(t, next.Complete(today))
	_, found = FindExistingOccurrence(c, again)
	assert.False(t, found)
}
