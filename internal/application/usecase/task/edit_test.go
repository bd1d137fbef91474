package task

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/deetodo/internal/application/dto"
	domaintask "github.com/YoshitsuguKoike/deetodo/internal/domain/model/task"
)

func strPtr(s string) *string { return &s }

func TestEditTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.add(t, dto.AddTaskRequest{Text: "draft", Tags: []string{"writing"}})
	f.add(t, dto.AddTaskRequest{Text: "publish", Tags: []string{"blog"}})

	due := testToday.AddDays(3)
	resp, err := f.uc.EditTask(ctx, dto.EditTaskRequest{
		Ref:        "2",
		Text:       strPtr("publish post"),
		Priority:   strPtr("high"),
		Project:    strPtr("blog"),
		AddTags:    []string{"Writing"},
		RemoveTags: []string{"blog"},
		DueDate:    &due,
		AddDeps:    []string{"1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "publish post", resp.Task.Text)
	assert.Equal(t, "high", resp.Task.Priority)
	assert.Equal(t, "blog", resp.Task.Project)
	assert.Equal(t, []string{"writing"}, resp.Task.Tags)
	assert.Equal(t, "2025-03-13", resp.Task.DueDate)
	assert.Equal(t, []int{1}, resp.Task.DependsOn)
	assert.NotEmpty(t, resp.Normalizations)
	assert.Equal(t, []string{
		"text -> publish post",
		"priority -> H",
		"project -> blog",
		"removed tags [blog]",
		"added tags [writing]",
		"due date -> 2025-03-13",
		"added deps [#1]",
	}, resp.Changes)

	resp, err = f.uc.EditTask(ctx, dto.EditTaskRequest{Ref: "2", Text: strPtr("publish post")})
	require.NoError(t, err)
	assert.Empty(t, resp.Changes)

	resp, err = f.uc.EditTask(ctx, dto.EditTaskRequest{Ref: "2", ClearProject: true, ClearTags: true, ClearDue: true, ClearDeps: true})
	require.NoError(t, err)
	assert.Empty(t, resp.Task.Project)
	assert.Empty(t, resp.Task.Tags)
	assert.Empty(t, resp.Task.DueDate)
	assert.Empty(t, resp.Task.DependsOn)
	assert.Len(t, resp.Changes, 4)
}

func TestEditTask_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     dto.EditTaskRequest
		wantErr error
	}{
		{"unknown task", dto.EditTaskRequest{Ref: "9", Text: strPtr("x")}, domaintask.ErrTaskNotFound},
		{"empty text", dto.EditTaskRequest{Ref: "1", Text: strPtr(" ")}, domaintask.ErrEmptyText},
		{"bad priority", dto.EditTaskRequest{Ref: "1", Priority: strPtr("now")}, domaintask.ErrInvalidPriority},
		{"cycle", dto.EditTaskRequest{Ref: "1", AddDeps: []string{"2"}}, domaintask.ErrDependencyCycle},
		{"self dependency", dto.EditTaskRequest{Ref: "1", AddDeps: []string{"1"}}, domaintask.ErrSelfDependency},
		{"duplicate dependency", dto.EditTaskRequest{Ref: "2", AddDeps: []string{"1"}}, domaintask.ErrDuplicateDependency},
		{"remove missing dependency", dto.EditTaskRequest{Ref: "1", RemoveDeps: []string{"2"}}, domaintask.ErrDependencyNotFound},
		{"remove missing tag", dto.EditTaskRequest{Ref: "1", RemoveTags: []string{"nope"}}, domaintask.ErrTagNotOnTask},
		{"clear due of recurring task", dto.EditTaskRequest{Ref: "3", ClearDue: true}, domaintask.ErrRecurrenceRequiresDueDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.add(t, dto.AddTaskRequest{Text: "one", Tags: []string{"a"}})
			f.add(t, dto.AddTaskRequest{Text: "two", DependsOn: []string{"1"}})
			f.add(t, dto.AddTaskRequest{Text: "three", DueDate: testToday, Recurrence: "weekly"})
			saves := f.repo.Saves()

			_, err := f.uc.EditTask(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, saves, f.repo.Saves())
		})
	}
}

func TestEditTask_PastDueDateAllowed(t *testing.T) {
	f := newFixture(t)
	f.add(t, dto.AddTaskRequest{Text: "late"})

	past := testToday.AddDays(-2)
	resp, err := f.uc.EditTask(context.Background(), dto.EditTaskRequest{Ref: "1", DueDate: &past})
	require.NoError(t, err)
	assert.True(t, resp.Task.Overdue)
}

func TestSetAndClearRecurrence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.add(t, dto.AddTaskRequest{Text: "no due"})
	f.add(t, dto.AddTaskRequest{Text: "standup", DueDate: testToday})

	_, err := f.uc.SetRecurrence(ctx, "1", "daily")
	assert.ErrorIs(t, err, domaintask.ErrRecurrenceRequiresDueDate)

	_, err = f.uc.SetRecurrence(ctx, "2", "yearly")
	assert.ErrorIs(t, err, domaintask.ErrInvalidRecurrence)

	resp, err := f.uc.SetRecurrence(ctx, "2", "Weekly")
	require.NoError(t, err)
	assert.True(t, resp.Changed)
	assert.Empty(t, resp.Previous)
	assert.Equal(t, "weekly", resp.Task.Recurrence)

	resp, err = f.uc.SetRecurrence(ctx, "2", "weekly")
	require.NoError(t, err)
	assert.False(t, resp.Changed)

	resp, err = f.uc.ClearRecurrence(ctx, "2")
	require.NoError(t, err)
	assert.True(t, resp.Changed)
	assert.Equal(t, "weekly", resp.Previous)
	assert.Empty(t, resp.Task.Recurrence)

	resp, err = f.uc.ClearRecurrence(ctx, "2")
	require.NoError(t, err)
	assert.False(t, resp.Changed)
}
