package presenter_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/YoshitsuguKoike/deetodo/internal/adapter/presenter"
	"github.com/YoshitsuguKoike/deetodo/internal/application/dto"
)

func intPtr(n int) *int { return &n }

func sampleList() *dto.TaskListResponse {
	return &dto.TaskListResponse{
		Title: "Pending tasks",
		Total: 3,
		Tasks: []dto.TaskView{
			{Position: 1, Text: "pay rent", Priority: "high", Tags: []string{"bills"}, DueDate: "2025-03-08", DueInDays: intPtr(-2), Overdue: true},
			{Position: 3, Text: "write a very long report about everything that happened this quarter", Priority: "medium", Tags: []string{}, Blocked: true, BlockedBy: []int{1}},
			{Position: 4, Text: "standup", Priority: "low", Completed: true, Tags: []string{"work"}, DueDate: "2025-03-11", DueInDays: intPtr(1)},
		},
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{"", "text", "JSON", "yaml"} {
		p, err := presenter.New(format, &bytes.Buffer{})
		require.NoError(t, err, format)
		assert.NotNil(t, p)
	}
	_, err := presenter.New("xml", &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown output format")
}

func TestCLITaskPresenter_Table(t *testing.T) {
	buf := &bytes.Buffer{}
	p := presenter.NewCLITaskPresenter(buf)

	require.NoError(t, p.PresentSuccess("", sampleList()))
	out := buf.String()

	assert.Contains(t, out, "Pending tasks:")
	assert.Contains(t, out, "late 2 days")
	assert.Contains(t, out, "in 1 day")
	assert.Contains(t, out, "[!]")
	assert.Contains(t, out, "[x]")
	assert.Contains(t, out, "write a very long report about everyt...")
	assert.Contains(t, out, "1 of 3 completed (33%)")
	assert.NotContains(t, out, "✓")
}

func TestCLITaskPresenter_Results(t *testing.T) {
	tests := []struct {
		name    string
		message string
		data    interface{}
		want    []string
	}{
		{
			name:    "add with normalization",
			message: "Added task #2",
			data: &dto.AddTaskResponse{
				Task:           dto.TaskView{Position: 2, Text: "learn go", Priority: "medium", Tags: []string{"rust"}},
				Normalizations: []string{"'Rust' -> 'rust'"},
			},
			want: []string{"✓ Added task #2", "tag normalized: 'Rust' -> 'rust'", "#2 learn go"},
		},
		{
			name:    "done spawns",
			message: "Completed #1",
			data: &dto.CompleteTaskResponse{
				Task:    dto.TaskView{Position: 1, Completed: true},
				Spawned: &dto.TaskView{Position: 5, Recurrence: "weekly", DueDate: "2025-03-17"},
			},
			want: []string{"next weekly occurrence added as #5 (due 2025-03-17)"},
		},
		{
			name: "edit without changes",
			data: &dto.EditTaskResponse{Changes: []string{}},
			want: []string{"No changes"},
		},
		{
			name: "edit with changes",
			data: &dto.EditTaskResponse{Changes: []string{"text -> a", "priority -> H"}},
			want: []string{"text -> a", "priority -> H"},
		},
		{
			name: "tags",
			data: []dto.TagSummary{{Name: "work", Count: 3}},
			want: []string{"Tag", "work", "3"},
		},
		{
			name: "dependencies",
			data: &dto.DependenciesResponse{
				Task:       dto.TaskView{Position: 3, Text: "deploy"},
				DependsOn:  []dto.DependencyView{{Position: 1, Text: "build", Completed: true}, {ID: "deadbeef-0000", Missing: true}},
				RequiredBy: []dto.DependencyView{},
				Blocked:    true,
				BlockedBy:  []int{2},
			},
			want: []string{"Task #3: deploy", "[x] #1 build", "? deadbeef (task not found)", "No tasks depend on this one.", "Blocked by #2"},
		},
		{
			name: "stats",
			data: &dto.StatsResponse{
				Total: 2, Completed: 1, Pending: 1, PercentDone: 50,
				ByPriority: []dto.PriorityStats{{Priority: "high", Total: 2, Pending: 1, Done: 1}},
				Activity:   []dto.DayActivity{{Date: "2025-03-09"}, {Date: "2025-03-10", Completed: 1}},
			},
			want: []string{"Total tasks", "1 (50%)", "(1 pending, 1 done)", "2025-03-10  ██████████  1 completed"},
		},
		{
			name: "info",
			data: &dto.InfoResponse{Backend: "json", Location: "/x/tasks.json", Tasks: 4},
			want: []string{"/x/tasks.json", "(not created yet)"},
		},
		{
			name: "empty journal",
			data: []dto.JournalEntry{},
			want: []string{"No journal entries."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			require.NoError(t, presenter.NewCLITaskPresenter(buf).PresentSuccess(tt.message, tt.data))
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestYAMLPresenter(t *testing.T) {
	buf := &bytes.Buffer{}
	p := presenter.NewYAMLPresenter(buf)
	require.NoError(t, p.PresentSuccess("ok", []dto.TagSummary{{Name: "home", Count: 2}}))

	var doc struct {
		Success bool             `yaml:"success"`
		Message string           `yaml:"message"`
		Data    []dto.TagSummary `yaml:"data"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.True(t, doc.Success)
	assert.Equal(t, "ok", doc.Message)
	assert.Equal(t, []dto.TagSummary{{Name: "home", Count: 2}}, doc.Data)
}

func TestEncode(t *testing.T) {
	views := sampleList().Tasks

	buf := &bytes.Buffer{}
	require.NoError(t, presenter.Encode(buf, "json", views))
	var decoded []dto.TaskView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded, 3)

	buf.Reset()
	require.NoError(t, presenter.Encode(buf, "yaml", views))
	assert.Contains(t, buf.String(), "text: pay rent")

	assert.Error(t, presenter.Encode(buf, "csv", views))
}
