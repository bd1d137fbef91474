package task

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/deetodo/internal/app"
	"github.com/YoshitsuguKoike/deetodo/internal/application/dto"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model"
	domaintask "github.com/YoshitsuguKoike/deetodo/internal/domain/model/task"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/service"
	"github.com/YoshitsuguKoike/deetodo/internal/infrastructure/transaction"
)

// seed builds:
//
//	#1 pay rent      high   due today        project home  tags [bills]
//	#2 fix bike      low    no due           project home
//	#3 write report  medium due in 3 days    project work  tags [docs] depends on #1
//	#4 standup       medium due today daily                tags [work]
func seed(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	f.add(t, dto.AddTaskRequest{Text: "pay rent", Priority: "high", DueDate: testToday, Project: "home", Tags: []string{"bills"}})
	f.add(t, dto.AddTaskRequest{Text: "fix bike", Priority: "low", Project: "home"})
	f.add(t, dto.AddTaskRequest{Text: "write report", DueDate: testToday.AddDays(3), Project: "work", Tags: []string{"docs"}, DependsOn: []string{"1"}})
	f.add(t, dto.AddTaskRequest{Text: "standup", DueDate: testToday, Recurrence: "daily", Tags: []string{"work"}})
	return f
}

func textsOf(views []dto.TaskView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Text
	}
	return out
}

func TestListTasks(t *testing.T) {
	f := seed(t)
	ctx := context.Background()
	_, err := f.uc.CompleteTask(ctx, "2")
	require.NoError(t, err)

	tests := []struct {
		name      string
		req       dto.ListTasksRequest
		wantTexts []string
		wantTitle string
	}{
		{"all", dto.ListTasksRequest{}, []string{"pay rent", "fix bike", "write report", "standup"}, "Tasks"},
		{"pending", dto.ListTasksRequest{Status: "pending"}, []string{"pay rent", "write report", "standup"}, "Pending tasks"},
		{"done", dto.ListTasksRequest{Status: "done"}, []string{"fix bike"}, "Completed tasks"},
		{"high priority", dto.ListTasksRequest{Priority: "high"}, []string{"pay rent"}, "High priority tasks"},
		{"pending medium", dto.ListTasksRequest{Status: "pending", Priority: "medium"}, []string{"write report", "standup"}, "Medium priority pending tasks"},
		{"due soon", dto.ListTasksRequest{Due: "soon"}, []string{"pay rent", "write report", "standup"}, "Tasks due soon"},
		{"no due", dto.ListTasksRequest{Due: "no-due"}, []string{"fix bike"}, "Tasks without due date"},
		{"tag", dto.ListTasksRequest{Tag: "DOCS"}, []string{"write report"}, "Tasks"},
		{"project is case-insensitive", dto.ListTasksRequest{Project: "HOME"}, []string{"pay rent", "fix bike"}, `Tasks in project "HOME"`},
		{"recurring", dto.ListTasksRequest{Recur: "recurring"}, []string{"standup"}, "Recurring tasks"},
		{"pending daily", dto.ListTasksRequest{Status: "pending", Recur: "daily"}, []string{"standup"}, "Pending daily recurring tasks"},
		{"non-recurring done", dto.ListTasksRequest{Status: "done", Recur: "non-recurring"}, []string{"fix bike"}, "Completed non-recurring tasks"},
		{"sort priority", dto.ListTasksRequest{Sort: "priority"}, []string{"pay rent", "write report", "standup", "fix bike"}, "Tasks"},
		{"sort due", dto.ListTasksRequest{Sort: "due"}, []string{"pay rent", "standup", "write report", "fix bike"}, "Tasks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.uc.ListTasks(ctx, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTexts, textsOf(resp.Tasks))
			assert.Equal(t, tt.wantTitle, resp.Title)
			assert.Equal(t, 4, resp.Total)
		})
	}
}

func TestListTasks_PositionsReferToWholeList(t *testing.T) {
	f := seed(t)
	resp, err := f.uc.ListTasks(context.Background(), dto.ListTasksRequest{Project: "work"})
	require.NoError(t, err)
	require.Len(t, resp.Tasks, 1)
	assert.Equal(t, 3, resp.Tasks[0].Position)
	assert.True(t, resp.Tasks[0].Blocked)
	assert.Equal(t, []int{1}, resp.Tasks[0].BlockedBy)
}

func TestListTasks_Errors(t *testing.T) {
	ctx := context.Background()

	empty := newFixture(t)
	_, err := empty.uc.ListTasks(ctx, dto.ListTasksRequest{})
	assert.ErrorIs(t, err, domaintask.ErrNoTasksFound)
	_, err = empty.uc.ListTasks(ctx, dto.ListTasksRequest{Tag: "x"})
	assert.ErrorIs(t, err, domaintask.ErrNoTasksFound)

	f := seed(t)
	_, err = f.uc.ListTasks(ctx, dto.ListTasksRequest{Tag: "missing"})
	assert.ErrorIs(t, err, domaintask.ErrTagNotFound)
	_, err = f.uc.ListTasks(ctx, dto.ListTasksRequest{Project: "garden"})
	assert.ErrorIs(t, err, domaintask.ErrProjectNotFound)
	_, err = f.uc.ListTasks(ctx, dto.ListTasksRequest{Status: "done"})
	assert.ErrorIs(t, err, domaintask.ErrNoTasksFound)
	_, err = f.uc.ListTasks(ctx, dto.ListTasksRequest{Due: "overdue"})
	assert.ErrorIs(t, err, domaintask.ErrNoTasksFound)

	_, err = f.uc.ListTasks(ctx, dto.ListTasksRequest{Status: "later"})
	assert.ErrorContains(t, err, "unknown status filter")
	_, err = f.uc.ListTasks(ctx, dto.ListTasksRequest{Sort: "name"})
	assert.ErrorContains(t, err, "unknown sort key")
	_, err = f.uc.ListTasks(ctx, dto.ListTasksRequest{Recur: "hourly"})
	assert.ErrorContains(t, err, "unknown recurrence filter")
}

func TestSearchTasks(t *testing.T) {
	f := seed(t)
	ctx := context.Background()

	resp, err := f.uc.SearchTasks(ctx, dto.SearchTasksRequest{Query: "RE"})
	require.NoError(t, err)
	assert.Equal(t, []string{"pay rent", "write report"}, textsOf(resp.Tasks))
	assert.Equal(t, `Search results for "RE"`, resp.Title)

	resp, err = f.uc.SearchTasks(ctx, dto.SearchTasksRequest{Query: "re", Project: "work"})
	require.NoError(t, err)
	assert.Equal(t, []string{"write report"}, textsOf(resp.Tasks))

	_, err = f.uc.SearchTasks(ctx, dto.SearchTasksRequest{Query: "re", Tag: "work"})
	assert.ErrorIs(t, err, domaintask.ErrNoSearchResults)
	_, err = f.uc.SearchTasks(ctx, dto.SearchTasksRequest{Query: "re", Status: "done"})
	assert.ErrorIs(t, err, domaintask.ErrNoSearchResults)
}

func TestListTagsAndProjects(t *testing.T) {
	ctx := context.Background()

	empty := newFixture(t)
	_, err := empty.uc.ListTags(ctx)
	assert.ErrorIs(t, err, domaintask.ErrNoTagsFound)
	_, err = empty.uc.ListProjects(ctx)
	assert.ErrorIs(t, err, domaintask.ErrNoProjectsFound)

	f := seed(t)
	_, err = f.uc.CompleteTask(ctx, "2")
	require.NoError(t, err)

	tags, err := f.uc.ListTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []dto.TagSummary{{Name: "bills", Count: 1}, {Name: "docs", Count: 1}, {Name: "work", Count: 1}}, tags)

	projects, err := f.uc.ListProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []dto.ProjectSummary{
		{Name: "home", Pending: 1, Done: 1, Total: 2},
		{Name: "work", Pending: 1, Done: 0, Total: 1},
	}, projects)
}

func TestDependencies(t *testing.T) {
	f := seed(t)
	ctx := context.Background()

	resp, err := f.uc.Dependencies(ctx, "3")
	require.NoError(t, err)
	assert.True(t, resp.Blocked)
	assert.Equal(t, []int{1}, resp.BlockedBy)
	require.Len(t, resp.DependsOn, 1)
	assert.Equal(t, "pay rent", resp.DependsOn[0].Text)
	assert.Empty(t, resp.RequiredBy)

	resp, err = f.uc.Dependencies(ctx, "1")
	require.NoError(t, err)
	assert.False(t, resp.Blocked)
	assert.Empty(t, resp.DependsOn)
	require.Len(t, resp.RequiredBy, 1)
	assert.Equal(t, 3, resp.RequiredBy[0].Position)
}

func TestDependencies_DanglingEdge(t *testing.T) {
	ghost := model.NewTaskID()
	stored := domaintask.Reconstruct(domaintask.Snapshot{
		ID:        model.NewTaskID(),
		Text:      "orphan",
		Priority:  model.PriorityMedium,
		DependsOn: []model.TaskID{ghost},
		CreatedAt: testToday,
	})
	f := newFixture(t)
	require.NoError(t, f.repo.Save(context.Background(), []*domaintask.Task{stored}))

	resp, err := f.uc.Dependencies(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, resp.DependsOn, 1)
	assert.True(t, resp.DependsOn[0].Missing)
	assert.Equal(t, ghost.String(), resp.DependsOn[0].ID)
	assert.False(t, resp.Blocked)
	assert.Empty(t, resp.Task.DependsOn)
}

func TestStats(t *testing.T) {
	f := seed(t)
	ctx := context.Background()
	_, err := f.uc.CompleteTask(ctx, "2")
	require.NoError(t, err)

	stats, err := f.uc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 3, stats.Pending)
	assert.Equal(t, 25, stats.PercentDone)
	assert.Equal(t, 0, stats.Overdue)
	assert.Equal(t, 3, stats.DueSoon)
	assert.Equal(t, 1, stats.Blocked)
	assert.Equal(t, 1, stats.WithoutProject)
	assert.Equal(t, []dto.PriorityStats{
		{Priority: "high", Total: 1, Pending: 1},
		{Priority: "medium", Total: 2, Pending: 2},
		{Priority: "low", Total: 1, Done: 1},
	}, stats.ByPriority)
	assert.Equal(t, []dto.ProjectStats{
		{Name: "home", Total: 2, Done: 1, PercentDone: 50},
		{Name: "work", Total: 1, Done: 0, PercentDone: 0},
	}, stats.ByProject)

	require.Len(t, stats.Activity, 7)
	assert.Equal(t, "2025-03-04", stats.Activity[0].Date)
	assert.Equal(t, "2025-03-10", stats.Activity[6].Date)
	assert.Equal(t, 1, stats.Activity[6].Completed)
	assert.Equal(t, 0, stats.Activity[0].Completed)
}

func TestStats_Empty(t *testing.T) {
	f := newFixture(t)
	stats, err := f.uc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.PercentDone)
	assert.Empty(t, stats.ByPriority)
	assert.Len(t, stats.Activity, 7)
}

func TestInfo(t *testing.T) {
	f := seed(t)
	info, err := f.uc.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/deetodo", info.Home)
	assert.Equal(t, "memory", info.Backend)
	assert.True(t, info.Exists)
	assert.Equal(t, 4, info.Tasks)
	assert.Equal(t, "default", info.ConfigSource)
}

func TestJournal(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	entries, err := f.uc.Journal(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)

	journal := app.NewJournalWriterFs(afero.NewMemMapFs(), "/home/journal.ndjson")
	tm := transaction.NewSnapshotTransactionManager(f.repo, nil, journal)
	uc := NewTaskUseCaseImpl(tm, service.NewLifecycle(func() model.Date { return testToday }), Options{Journal: journal})

	_, err = uc.AddTask(ctx, dto.AddTaskRequest{Text: "a"})
	require.NoError(t, err)
	_, err = uc.CompleteTask(ctx, "1")
	require.NoError(t, err)

	entries, err = uc.Journal(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "done", entries[0].Operation)
	assert.Equal(t, "add", entries[1].Operation)
	assert.Equal(t, 0, entries[1].TasksBefore)
	assert.Equal(t, 1, entries[1].TasksAfter)
}
