package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/deetodo/internal/domain/model"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model/task"
)

func fixedClock(d model.Date) Clock {
	return func() model.Date { return d }
}

func TestLifecycle_MarkDone(t *testing.T) {
	c, tasks := chain(t, 2, nil)
	l := NewLifecycle(fixedClock(today))

	res, err := l.MarkDone(c, tasks[0].ID())
	require.NoError(t, err)
	assert.Same(t, tasks[0], res.Task)
	assert.Nil(t, res.Spawned)
	assert.True(t, tasks[0].IsCompleted())
	assert.True(t, tasks[0].CompletedAt().Equal(today))

	_, err = l.MarkDone(c, tasks[0].ID())
	assert.ErrorIs(t, err, task.ErrAlreadyCompleted)

	_, err = l.MarkDone(c, model.NewTaskID())
	assert.ErrorIs(t, err, task.ErrTaskNotFound)
}

func TestLifecycle_MarkDoneBlocked(t *testing.T) {
	c, tasks := chain(t, 3, map[int][]int{3: {1, 2}})
	l := NewLifecycle(fixedClock(today))

	_, err := l.MarkDone(c, tasks[2].ID())
	require.Error(t, err)
	assert.ErrorIs(t, err, task.ErrTaskBlocked)
	assert.False(t, tasks[2].IsCompleted())
	assert.True(t, tasks[2].CompletedAt().IsZero())

	var blocked *task.BlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, []model.TaskID{tasks[0].ID(), tasks[1].ID()}, blocked.Blocking)

	_, err = l.MarkDone(c, tasks[0].ID())
	require.NoError(t, err)
	_, err = l.MarkDone(c, tasks[2].ID())
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, []model.TaskID{tasks[1].ID()}, blocked.Blocking)

	_, err = l.MarkDone(c, tasks[1].ID())
	require.NoError(t, err)
	_, err = l.MarkDone(c, tasks[2].ID())
	assert.NoError(t, err)
}

func TestLifecycle_MarkUndone(t *testing.T) {
	c, tasks := chain(t, 1, nil)
	l := NewLifecycle(fixedClock(today))

	_, err := l.MarkUndone(c, tasks[0].ID())
	assert.ErrorIs(t, err, task.ErrAlreadyPending)

	_, err = l.MarkDone(c, tasks[0].ID())
	require.NoError(t, err)

	tk, err := l.MarkUndone(c, tasks[0].ID())
	require.NoError(t, err)
	assert.False(t, tk.IsCompleted())
	assert.True(t, tk.CompletedAt().IsZero())
}

func TestLifecycle_RecurrenceSpawnsOnce(t *testing.T) {
	src, err := task.New(task.Params{
		Text:       "pay rent",
		DueDate:    model.NewDate(2026, 1, 31),
		Recurrence: model.RecurrenceMonthly,
	}, model.NewDate(2026, 1, 20))
	require.NoError(t, err)
	c := task.NewCollection([]*task.Task{src})
	l := NewLifecycle(fixedClock(today))

	res, err := l.MarkDone(c, src.ID())
	require.NoError(t, err)
	require.NotNil(t, res.Spawned)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "2026-02-28", res.Spawned.DueDate().String())
	assert.True(t, res.Spawned.ParentID().Equals(src.ID()))

	// done -> undone -> done must not create a second occurrence
	_, err = l.MarkUndone(c, src.ID())
	require.NoError(t, err)
	res, err = l.MarkDone(c, src.ID())
	require.NoError(t, err)
	assert.Nil(t, res.Spawned)
	assert.True(t, res.SkippedDuplicate)
	assert.Equal(t, 2, c.Len())
	assert.True(t, src.IsCompleted())
}

func TestLifecycle_DefaultClock(t *testing.T) {
	l := NewLifecycle(nil)
	assert.False(t, l.Today().IsZero())
}
