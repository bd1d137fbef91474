package presenter

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/YoshitsuguKoike/deetodo/internal/application/dto"
	"github.com/YoshitsuguKoike/deetodo/internal/application/port/output"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model"
)

const (
	maxTextWidth = 40
	maxTagsWidth = 20
	activityBar  = 10
)

// CLITaskPresenter implements output.Presenter for terminal output
type CLITaskPresenter struct {
	output io.Writer
}

// NewCLITaskPresenter creates a new CLI task presenter
func NewCLITaskPresenter(output io.Writer) output.Presenter {
	return &CLITaskPresenter{output: output}
}

// PresentSuccess prints message (if any) and renders data
func (p *CLITaskPresenter) PresentSuccess(message string, data interface{}) error {
	if message != "" {
		fmt.Fprintf(p.output, "✓ %s\n", message)
	}

	switch v := data.(type) {
	case nil:
	case *dto.TaskListResponse:
		p.presentTable(v.Title, v.Tasks)
	case []dto.TaskView:
		p.presentTable("All tasks", v)
	case *dto.TaskView:
		p.presentTask(v)
	case *dto.AddTaskResponse:
		p.presentNormalizations(v.Normalizations)
		p.presentTask(&v.Task)
	case *dto.CompleteTaskResponse:
		p.presentCompletion(v)
	case *dto.RemoveTaskResponse:
		for _, t := range v.PrunedFrom {
			fmt.Fprintf(p.output, "  dependency removed from #%d %q\n", t.Position, t.Text)
		}
	case *dto.EditTaskResponse:
		p.presentEdit(v)
	case *dto.RecurrenceResponse:
		if !v.Changed {
			fmt.Fprintln(p.output, "  (unchanged)")
		}
	case *dto.ClearResponse:
		fmt.Fprintf(p.output, "  %d task(s) removed\n", v.Removed)
	case []dto.TagSummary:
		p.presentTags(v)
	case []dto.ProjectSummary:
		p.presentProjects(v)
	case *dto.DependenciesResponse:
		p.presentDependencies(v)
	case *dto.StatsResponse:
		p.presentStats(v)
	case *dto.InfoResponse:
		p.presentInfo(v)
	case []dto.JournalEntry:
		p.presentJournal(v)
	default:
		fmt.Fprintf(p.output, "%+v\n", data)
	}

	return nil
}

// PresentError presents an error
func (p *CLITaskPresenter) PresentError(err error) error {
	fmt.Fprintf(p.output, "✗ Error: %v\n", err)
	return err
}

func (p *CLITaskPresenter) presentTable(title string, tasks []dto.TaskView) {
	fmt.Fprintf(p.output, "\n%s:\n\n", title)

	w := tabwriter.NewWriter(p.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tP\tS\tTask\tTags\tDue")
	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
		status := "[ ]"
		switch {
		case t.Completed:
			status = "[x]"
		case t.Blocked:
			status = "[!]"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			t.Position,
			priorityLetter(t.Priority),
			status,
			truncate(t.Text, maxTextWidth),
			truncate(strings.Join(t.Tags, ", "), maxTagsWidth),
			dueText(t),
		)
	}
	w.Flush()

	fmt.Fprintf(p.output, "\n%d of %d completed (%d%%)\n", completed, len(tasks), percent(completed, len(tasks)))
}

func (p *CLITaskPresenter) presentTask(t *dto.TaskView) {
	fmt.Fprintf(p.output, "  #%d %s\n", t.Position, t.Text)
	fmt.Fprintf(p.output, "  ID: %s\n", t.ID)
	fmt.Fprintf(p.output, "  Priority: %s\n", t.Priority)
	if t.Completed {
		fmt.Fprintf(p.output, "  Completed: %s\n", t.CompletedAt)
	}
	if len(t.Tags) > 0 {
		fmt.Fprintf(p.output, "  Tags: %s\n", strings.Join(t.Tags, ", "))
	}
	if t.Project != "" {
		fmt.Fprintf(p.output, "  Project: %s\n", t.Project)
	}
	if t.DueDate != "" {
		fmt.Fprintf(p.output, "  Due: %s (%s)\n", t.DueDate, dueText(*t))
	}
	if t.Recurrence != "" {
		fmt.Fprintf(p.output, "  Repeats: %s\n", t.Recurrence)
	}
	if len(t.DependsOn) > 0 {
		fmt.Fprintf(p.output, "  Depends on: %s\n", positions(t.DependsOn))
	}
	if t.Blocked {
		fmt.Fprintf(p.output, "  Blocked by: %s\n", positions(t.BlockedBy))
	}
}

func (p *CLITaskPresenter) presentNormalizations(ns []string) {
	for _, n := range ns {
		fmt.Fprintf(p.output, "  tag normalized: %s\n", n)
	}
}

func (p *CLITaskPresenter) presentCompletion(r *dto.CompleteTaskResponse) {
	switch {
	case r.Spawned != nil:
		fmt.Fprintf(p.output, "  next %s occurrence added as #%d (due %s)\n", r.Spawned.Recurrence, r.Spawned.Position, r.Spawned.DueDate)
	case r.SkippedDuplicate:
		fmt.Fprintln(p.output, "  next occurrence already exists")
	}
}

func (p *CLITaskPresenter) presentEdit(r *dto.EditTaskResponse) {
	if len(r.Changes) == 0 {
		fmt.Fprintln(p.output, "  No changes")
		return
	}
	p.presentNormalizations(r.Normalizations)
	for _, c := range r.Changes {
		fmt.Fprintf(p.output, "  %s\n", c)
	}
}

func (p *CLITaskPresenter) presentTags(tags []dto.TagSummary) {
	w := tabwriter.NewWriter(p.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Tag\tTasks")
	for _, t := range tags {
		fmt.Fprintf(w, "%s\t%d\n", t.Name, t.Count)
	}
	w.Flush()
}

func (p *CLITaskPresenter) presentProjects(projects []dto.ProjectSummary) {
	w := tabwriter.NewWriter(p.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Project\tPending\tDone\tTotal")
	for _, pr := range projects {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", pr.Name, pr.Pending, pr.Done, pr.Total)
	}
	w.Flush()
}

func (p *CLITaskPresenter) presentDependencies(r *dto.DependenciesResponse) {
	fmt.Fprintf(p.output, "\nTask #%d: %s\n\n", r.Task.Position, r.Task.Text)

	if len(r.DependsOn) == 0 {
		fmt.Fprintln(p.output, "  No dependencies.")
	} else {
		fmt.Fprintln(p.output, "  Depends on:")
		for _, d := range r.DependsOn {
			p.presentEdge(d)
		}
	}

	fmt.Fprintln(p.output)
	if len(r.RequiredBy) == 0 {
		fmt.Fprintln(p.output, "  No tasks depend on this one.")
	} else {
		fmt.Fprintln(p.output, "  Required by:")
		for _, d := range r.RequiredBy {
			p.presentEdge(d)
		}
	}

	if r.Blocked {
		fmt.Fprintf(p.output, "\n  Blocked by %s\n", positions(r.BlockedBy))
	}
}

func (p *CLITaskPresenter) presentEdge(d dto.DependencyView) {
	switch {
	case d.Missing:
		fmt.Fprintf(p.output, "    ? %s (task not found)\n", shortID(d.ID))
	case d.Completed:
		fmt.Fprintf(p.output, "    [x] #%d %s\n", d.Position, d.Text)
	default:
		fmt.Fprintf(p.output, "    [ ] #%d %s\n", d.Position, d.Text)
	}
}

func (p *CLITaskPresenter) presentStats(s *dto.StatsResponse) {
	if s.Total == 0 {
		fmt.Fprintln(p.output, "\nNo tasks found.")
		return
	}

	fmt.Fprintln(p.output, "\nOverview")
	w := tabwriter.NewWriter(p.output, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Total tasks\t%d\n", s.Total)
	fmt.Fprintf(w, "  Completed\t%d (%d%%)\n", s.Completed, s.PercentDone)
	fmt.Fprintf(w, "  Pending\t%d\n", s.Pending)
	if s.Overdue > 0 {
		fmt.Fprintf(w, "  Overdue\t%d\n", s.Overdue)
	}
	if s.DueSoon > 0 {
		fmt.Fprintf(w, "  Due soon\t%d\n", s.DueSoon)
	}
	if s.Blocked > 0 {
		fmt.Fprintf(w, "  Blocked\t%d\n", s.Blocked)
	}
	w.Flush()

	fmt.Fprintln(p.output, "\nBy priority")
	w = tabwriter.NewWriter(p.output, 0, 0, 2, ' ', 0)
	for _, ps := range s.ByPriority {
		fmt.Fprintf(w, "  %s\t%d\t(%d pending, %d done)\n", ps.Priority, ps.Total, ps.Pending, ps.Done)
	}
	w.Flush()

	if len(s.ByProject) > 0 {
		fmt.Fprintln(p.output, "\nBy project")
		w = tabwriter.NewWriter(p.output, 0, 0, 2, ' ', 0)
		for _, ps := range s.ByProject {
			fmt.Fprintf(w, "  %s\t%d tasks\t(%d%% done)\n", ps.Name, ps.Total, ps.PercentDone)
		}
		if s.WithoutProject > 0 {
			fmt.Fprintf(w, "  (no project)\t%d tasks\t\n", s.WithoutProject)
		}
		w.Flush()
	}

	fmt.Fprintf(p.output, "\nActivity, last %d days\n", len(s.Activity))
	maxCount := 1
	for _, day := range s.Activity {
		if day.Completed > maxCount {
			maxCount = day.Completed
		}
	}
	for _, day := range s.Activity {
		filled := day.Completed * activityBar / maxCount
		bar := strings.Repeat("█", filled) + strings.Repeat("░", activityBar-filled)
		fmt.Fprintf(p.output, "  %s  %s  %d completed\n", day.Date, bar, day.Completed)
	}
}

func (p *CLITaskPresenter) presentInfo(info *dto.InfoResponse) {
	w := tabwriter.NewWriter(p.output, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Home\t%s\n", info.Home)
	fmt.Fprintf(w, "Backend\t%s\n", info.Backend)
	fmt.Fprintf(w, "Location\t%s\n", info.Location)
	if info.Exists {
		fmt.Fprintf(w, "Size\t%d bytes\n", info.SizeBytes)
	} else {
		fmt.Fprintf(w, "Size\t(not created yet)\n")
	}
	fmt.Fprintf(w, "Tasks\t%d\n", info.Tasks)
	fmt.Fprintf(w, "Config\t%s\n", info.ConfigSource)
	w.Flush()
}

func (p *CLITaskPresenter) presentJournal(entries []dto.JournalEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(p.output, "No journal entries.")
		return
	}
	w := tabwriter.NewWriter(p.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Time\tOp\tTasks\tElapsed")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d -> %d\t%dms\n", e.Timestamp, e.Operation, e.TasksBefore, e.TasksAfter, e.ElapsedMs)
	}
	w.Flush()
}

// dueText renders the due date relative to today: "late 2 days", "due today", "in 3 days"
func dueText(t dto.TaskView) string {
	if t.DueInDays == nil {
		return ""
	}
	switch n := *t.DueInDays; {
	case n < 0:
		return "late " + plural(-n, "day")
	case n == 0:
		return "due today"
	default:
		return "in " + plural(n, "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}

func priorityLetter(p string) string {
	if p == "" {
		return ""
	}
	return model.Priority(p).Letter()
}

func positions(ps []int) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = "#" + strconv.Itoa(p)
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return part * 100 / total
}
