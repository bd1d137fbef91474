package persistence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/deetodo/internal/domain/model"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model/task"
)

var today = model.NewDate(2026, time.February, 10)

func TestRecordRoundTrip(t *testing.T) {
	dep, err := task.New(task.Params{Text: "buy paint"}, today)
	require.NoError(t, err)

	tk, err := task.New(task.Params{
		Text:       "paint fence",
		Priority:   model.PriorityHigh,
		Tags:       []string{"home"},
		Project:    "garden",
		DueDate:    today.AddDays(2),
		Recurrence: model.RecurrenceWeekly,
	}, today)
	require.NoError(t, err)
	tk.AddDependencies([]model.TaskID{dep.ID()})
	require.NoError(t, tk.Complete(today))

	rec := ToRecord(tk)
	assert.Equal(t, "high", rec.Priority)
	assert.Equal(t, "weekly", rec.Recurrence)
	assert.Equal(t, "2026-02-12", rec.DueDate)
	assert.Equal(t, "2026-02-10", rec.CompletedAt)
	assert.Equal(t, []string{dep.ID().String()}, rec.DependsOn)

	back, err := rec.ToTask()
	require.NoError(t, err)
	assert.Equal(t, tk.Snapshot(), back.Snapshot())
}

func TestRecord_Defaults(t *testing.T) {
	rec := TaskRecord{Text: "legacy", CreatedAt: "2025-01-01"}
	tk, err := rec.ToTask()
	require.NoError(t, err)
	assert.True(t, tk.ID().IsZero())
	assert.Equal(t, model.PriorityMedium, tk.Priority())
	assert.False(t, tk.Recurrence().IsSet())
	assert.True(t, tk.DueDate().IsZero())

	assert.Equal(t, []string{}, ToRecord(tk).Tags)
}

func TestFromRecords_Errors(t *testing.T) {
	tests := []struct {
		name    string
		record  TaskRecord
		wantMsg string
	}{
		{name: "Bad priority", record: TaskRecord{Text: "a", Priority: "urgent"}, wantMsg: "invalid priority"},
		{name: "Bad recurrence", record: TaskRecord{Text: "a", Recurrence: "hourly"}, wantMsg: "invalid recurrence"},
		{name: "Bad due date", record: TaskRecord{Text: "a", DueDate: "tomorrow"}, wantMsg: "due_date"},
		{name: "Blank dependency", record: TaskRecord{Text: "a", DependsOn: []string{" "}}, wantMsg: "depends_on"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromRecords([]TaskRecord{{Text: "ok"}, tt.record})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "task #2")
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestBackfillIDs(t *testing.T) {
	tasks, err := FromRecords([]TaskRecord{
		{Text: "legacy one"},
		{ID: "11111111-2222-3333-4444-555555555555", Text: "has id"},
		{Text: "legacy two"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, BackfillIDs(tasks))
	for _, tk := range tasks {
		assert.False(t, tk.ID().IsZero())
	}
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", tasks[1].ID().String())
	assert.Equal(t, 0, BackfillIDs(tasks))
}
