package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/YoshitsuguKoike/deetodo/internal/adapter/gateway/storage"
	"github.com/YoshitsuguKoike/deetodo/internal/application/dto"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model"
	domaintask "github.com/YoshitsuguKoike/deetodo/internal/domain/model/task"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/service"
	"github.com/YoshitsuguKoike/deetodo/internal/infrastructure/persistence/memory"
	"github.com/YoshitsuguKoike/deetodo/internal/infrastructure/transaction"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testToday = model.NewDate(2025, time.March, 10)

type fixture struct {
	uc    *TaskUseCaseImpl
	repo  *memory.TaskMemoryRepository
	today model.Date
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{repo: memory.NewTaskMemoryRepository(), today: testToday}
	tm := transaction.NewSnapshotTransactionManager(f.repo, nil, nil)
	lifecycle := service.NewLifecycle(func() model.Date { return f.today })
	f.uc = NewTaskUseCaseImpl(tm, lifecycle, Options{
		Storage:      storage.NewStaticStorageGateway("memory", "memory"),
		Home:         "/tmp/deetodo",
		ConfigSource: "default",
	})
	return f
}

func (f *fixture) add(t *testing.T, req dto.AddTaskRequest) dto.TaskView {
	t.Helper()
	resp, err := f.uc.AddTask(context.Background(), req)
	require.NoError(t, err)
	return resp.Task
}

func TestAddTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.add(t, dto.AddTaskRequest{Text: "  write report  ", Tags: []string{"work"}, Project: "Q1"})
	assert.Equal(t, 1, first.Position)
	assert.Equal(t, "write report", first.Text)
	assert.Equal(t, "medium", first.Priority)
	assert.Equal(t, []string{"work"}, first.Tags)
	assert.Equal(t, "Q1", first.Project)
	assert.Equal(t, "2025-03-10", first.CreatedAt)
	assert.False(t, first.Completed)

	resp, err := f.uc.AddTask(ctx, dto.AddTaskRequest{Text: "review", Priority: "HIGH", Tags: []string{"Work"}, DependsOn: []string{"1"}})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Task.Position)
	assert.Equal(t, "high", resp.Task.Priority)
	assert.Equal(t, []string{"work"}, resp.Task.Tags)
	assert.NotEmpty(t, resp.Normalizations)
	assert.Equal(t, []int{1}, resp.Task.DependsOn)
	assert.True(t, resp.Task.Blocked)
	assert.Equal(t, []int{1}, resp.Task.BlockedBy)

	assert.Equal(t, 2, f.repo.Saves())
}

func TestAddTask_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.AddTaskRequest
		wantErr error
	}{
		{"empty text", dto.AddTaskRequest{Text: "   "}, domaintask.ErrEmptyText},
		{"bad priority", dto.AddTaskRequest{Text: "x", Priority: "urgent"}, domaintask.ErrInvalidPriority},
		{"bad recurrence", dto.AddTaskRequest{Text: "x", Recurrence: "hourly"}, domaintask.ErrInvalidRecurrence},
		{"past due date", dto.AddTaskRequest{Text: "x", DueDate: testToday.AddDays(-1)}, domaintask.ErrDueDateInPast},
		{"recurrence without due date", dto.AddTaskRequest{Text: "x", Recurrence: "weekly"}, domaintask.ErrRecurrenceRequiresDueDate},
		{"depends on itself", dto.AddTaskRequest{Text: "x", DependsOn: []string{"1"}}, domaintask.ErrSelfDependency},
		{"unknown dependency", dto.AddTaskRequest{Text: "x", DependsOn: []string{"5"}}, domaintask.ErrTaskNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.uc.AddTask(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, f.repo.Saves())
		})
	}
}

func TestCompleteTask(t *testing.T) {
	ctx := context.Background()

	t.Run("blocked task stays pending", func(t *testing.T) {
		f := newFixture(t)
		f.add(t, dto.AddTaskRequest{Text: "design"})
		f.add(t, dto.AddTaskRequest{Text: "build", DependsOn: []string{"1"}})

		_, err := f.uc.CompleteTask(ctx, "2")
		assert.ErrorIs(t, err, domaintask.ErrTaskBlocked)
		var blocked *domaintask.BlockedError
		require.True(t, errors.As(err, &blocked))
		assert.Len(t, blocked.Blocking, 1)

		resp, err := f.uc.CompleteTask(ctx, "1")
		require.NoError(t, err)
		assert.True(t, resp.Task.Completed)
		assert.Equal(t, "2025-03-10", resp.Task.CompletedAt)
		assert.Nil(t, resp.Spawned)

		resp, err = f.uc.CompleteTask(ctx, "2")
		require.NoError(t, err)
		assert.True(t, resp.Task.Completed)
	})

	t.Run("already completed", func(t *testing.T) {
		f := newFixture(t)
		f.add(t, dto.AddTaskRequest{Text: "once"})
		_, err := f.uc.CompleteTask(ctx, "1")
		require.NoError(t, err)
		_, err = f.uc.CompleteTask(ctx, "1")
		assert.ErrorIs(t, err, domaintask.ErrAlreadyCompleted)
	})

	t.Run("recurring task spawns the next occurrence once", func(t *testing.T) {
		f := newFixture(t)
		f.add(t, dto.AddTaskRequest{Text: "water plants", DueDate: testToday, Recurrence: "daily", Tags: []string{"home"}})

		resp, err := f.uc.CompleteTask(ctx, "1")
		require.NoError(t, err)
		require.NotNil(t, resp.Spawned)
		assert.Equal(t, 2, resp.Spawned.Position)
		assert.Equal(t, "2025-03-11", resp.Spawned.DueDate)
		assert.Equal(t, "daily", resp.Spawned.Recurrence)
		assert.Equal(t, []string{"home"}, resp.Spawned.Tags)
		assert.False(t, resp.Spawned.Completed)

		_, err = f.uc.ReopenTask(ctx, "1")
		require.NoError(t, err)
		resp, err = f.uc.CompleteTask(ctx, "1")
		require.NoError(t, err)
		assert.Nil(t, resp.Spawned)
		assert.True(t, resp.SkippedDuplicate)

		all, err := f.uc.Export(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("unknown reference", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.uc.CompleteTask(ctx, "3")
		assert.ErrorIs(t, err, domaintask.ErrTaskNotFound)
	})
}

func TestReopenTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.add(t, dto.AddTaskRequest{Text: "task"})

	_, err := f.uc.ReopenTask(ctx, "1")
	assert.ErrorIs(t, err, domaintask.ErrAlreadyPending)

	_, err = f.uc.CompleteTask(ctx, "1")
	require.NoError(t, err)
	view, err := f.uc.ReopenTask(ctx, "#1")
	require.NoError(t, err)
	assert.False(t, view.Completed)
	assert.Empty(t, view.CompletedAt)
}

func TestRemoveTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.add(t, dto.AddTaskRequest{Text: "a"})
	f.add(t, dto.AddTaskRequest{Text: "b", DependsOn: []string{"1"}})
	f.add(t, dto.AddTaskRequest{Text: "c", DependsOn: []string{"1", "2"}})

	resp, err := f.uc.RemoveTask(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "a", resp.Task.Text)
	require.Len(t, resp.PrunedFrom, 2)
	assert.Equal(t, "b", resp.PrunedFrom[0].Text)
	assert.Equal(t, 1, resp.PrunedFrom[0].Position)

	all, err := f.uc.Export(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Empty(t, all[0].DependsOn)
	assert.Equal(t, []int{1}, all[1].DependsOn)
}

func TestClearTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.add(t, dto.AddTaskRequest{Text: "a"})
	f.add(t, dto.AddTaskRequest{Text: "b"})

	resp, err := f.uc.ClearTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Removed)

	all, err := f.uc.Export(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFailedSaveLeavesListUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.add(t, dto.AddTaskRequest{Text: "a"})

	f.repo.FailSaves(errors.New("disk full"))
	_, err := f.uc.CompleteTask(ctx, "1")
	assert.ErrorContains(t, err, "disk full")

	f.repo.FailSaves(nil)
	view, err := f.uc.GetTask(ctx, "1")
	require.NoError(t, err)
	assert.False(t, view.Completed)
}
