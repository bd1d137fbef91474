package task

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/YoshitsuguKoike/deetodo/internal/application/dto"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model"
	domaintask "github.com/YoshitsuguKoike/deetodo/internal/domain/model/task"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/service"
)

// activityDays is the length of the completion history in Stats
const activityDays = 7

// GetTask returns one task
func (uc *TaskUseCaseImpl) GetTask(ctx context.Context, ref string) (*dto.TaskView, error) {
	var view dto.TaskView
	err := uc.txManager.ReadOnly(ctx, func(c *domaintask.Collection) error {
		t, err := c.Resolve(ref)
		if err != nil {
			return err
		}
		view = uc.views(c).view(t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// ListTasks filters and optionally sorts the list. Positions in the result
// always refer to the unfiltered list.
func (uc *TaskUseCaseImpl) ListTasks(ctx context.Context, req dto.ListTasksRequest) (*dto.TaskListResponse, error) {
	status, err := normalizeStatus(req.Status)
	if err != nil {
		return nil, err
	}
	priority, err := parsePriority(req.Priority)
	if err != nil {
		return nil, err
	}
	due := strings.ToLower(strings.TrimSpace(req.Due))
	switch due {
	case "", dto.DueOverdue, dto.DueSoon, dto.DueWithDue, dto.DueNoDue:
	default:
		return nil, fmt.Errorf("unknown due filter %q (expected overdue, soon, with-due or no-due)", req.Due)
	}
	recur, err := recurMatcher(req.Recur)
	if err != nil {
		return nil, err
	}
	sortKey := strings.ToLower(strings.TrimSpace(req.Sort))
	switch sortKey {
	case "", dto.SortPriority, dto.SortDue, dto.SortCreated:
	default:
		return nil, fmt.Errorf("unknown sort key %q (expected priority, due or created)", req.Sort)
	}

	var resp *dto.TaskListResponse
	err = uc.txManager.ReadOnly(ctx, func(c *domaintask.Collection) error {
		today := uc.lifecycle.Today()
		tasks := filterTasks(c.Tasks(), func(t *domaintask.Task) bool { return matchesStatus(t, status) })
		if priority != "" {
			tasks = filterTasks(tasks, func(t *domaintask.Task) bool { return t.Priority() == priority })
		}
		if due != "" {
			tasks = filterTasks(tasks, func(t *domaintask.Task) bool { return uc.matchesDue(t, due, today) })
		}
		if req.Tag != "" {
			before := len(tasks)
			tasks = filterTasks(tasks, func(t *domaintask.Task) bool { return t.HasTag(req.Tag) })
			if len(tasks) == 0 && before > 0 {
				return domaintask.Errorf(domaintask.ErrTagNotFound, "%q", req.Tag)
			}
		}
		if req.Project != "" {
			before := len(tasks)
			tasks = filterTasks(tasks, func(t *domaintask.Task) bool { return strings.EqualFold(t.Project(), req.Project) })
			if len(tasks) == 0 && before > 0 {
				return domaintask.Errorf(domaintask.ErrProjectNotFound, "%q", req.Project)
			}
		}
		if recur != nil {
			tasks = filterTasks(tasks, recur)
		}
		if len(tasks) == 0 {
			return domaintask.ErrNoTasksFound
		}

		sortTasks(tasks, sortKey)
		resp = &dto.TaskListResponse{
			Title: listTitle(status, priority, due, req.Project, strings.ToLower(strings.TrimSpace(req.Recur))),
			Tasks: uc.views(c).list(tasks),
			Total: c.Len(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// SearchTasks matches a case-insensitive substring of the task text
func (uc *TaskUseCaseImpl) SearchTasks(ctx context.Context, req dto.SearchTasksRequest) (*dto.TaskListResponse, error) {
	status, err := normalizeStatus(req.Status)
	if err != nil {
		return nil, err
	}
	query := strings.ToLower(req.Query)

	var resp *dto.TaskListResponse
	err = uc.txManager.ReadOnly(ctx, func(c *domaintask.Collection) error {
		tasks := filterTasks(c.Tasks(), func(t *domaintask.Task) bool {
			if !strings.Contains(strings.ToLower(t.Text()), query) || !matchesStatus(t, status) {
				return false
			}
			if req.Tag != "" && !t.HasTag(req.Tag) {
				return false
			}
			return req.Project == "" || strings.EqualFold(t.Project(), req.Project)
		})
		if len(tasks) == 0 {
			return domaintask.Errorf(domaintask.ErrNoSearchResults, "%q", req.Query)
		}
		resp = &dto.TaskListResponse{
			Title: fmt.Sprintf("Search results for %q", req.Query),
			Tasks: uc.views(c).list(tasks),
			Total: c.Len(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ListTags returns every tag in use with its task count
func (uc *TaskUseCaseImpl) ListTags(ctx context.Context) ([]dto.TagSummary, error) {
	var out []dto.TagSummary
	err := uc.txManager.ReadOnly(ctx, func(c *domaintask.Collection) error {
		counts := c.TagCounts()
		if len(counts) == 0 {
			return domaintask.ErrNoTagsFound
		}
		out = make([]dto.TagSummary, len(counts))
		for i, tc := range counts {
			out[i] = dto.TagSummary{Name: tc.Name, Count: tc.Count}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListProjects returns every project with pending and done counts
func (uc *TaskUseCaseImpl) ListProjects(ctx context.Context) ([]dto.ProjectSummary, error) {
	var out []dto.ProjectSummary
	err := uc.txManager.ReadOnly(ctx, func(c *domaintask.Collection) error {
		projects := c.Projects()
		if len(projects) == 0 {
			return domaintask.ErrNoProjectsFound
		}
		out = make([]dto.ProjectSummary, len(projects))
		for i, p := range projects {
			out[i] = dto.ProjectSummary{Name: p.Name, Pending: p.Pending, Done: p.Done, Total: p.Total()}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Dependencies shows what a task depends on and what depends on it
func (uc *TaskUseCaseImpl) Dependencies(ctx context.Context, ref string) (*dto.DependenciesResponse, error) {
	var resp *dto.DependenciesResponse
	err := uc.txManager.ReadOnly(ctx, func(c *domaintask.Collection) error {
		t, err := c.Resolve(ref)
		if err != nil {
			return err
		}
		v := uc.views(c)
		view := v.view(t)
		resp = &dto.DependenciesResponse{
			Task:       view,
			DependsOn:  make([]dto.DependencyView, 0, len(t.DependsOn())),
			RequiredBy: []dto.DependencyView{},
			Blocked:    view.Blocked,
			BlockedBy:  view.BlockedBy,
		}
		for _, id := range t.DependsOn() {
			resp.DependsOn = append(resp.DependsOn, v.dependency(id))
		}
		for _, dependent := range v.graph.Dependents(t.ID()) {
			resp.RequiredBy = append(resp.RequiredBy, v.dependency(dependent.ID()))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Stats summarises the list. Activity covers the last seven days ending today.
func (uc *TaskUseCaseImpl) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	var resp *dto.StatsResponse
	err := uc.txManager.ReadOnly(ctx, func(c *domaintask.Collection) error {
		today := uc.lifecycle.Today()
		graph := service.NewDependencyGraph(c)
		tasks := c.Tasks()

		s := &dto.StatsResponse{
			Total:      len(tasks),
			ByPriority: []dto.PriorityStats{},
			ByProject:  []dto.ProjectStats{},
		}
		for _, t := range tasks {
			if t.IsCompleted() {
				s.Completed++
			} else if graph.IsBlocked(t) {
				s.Blocked++
			}
			if t.IsOverdue(today) {
				s.Overdue++
			}
			if t.IsDueSoon(today, uc.opts.DueSoonDays) {
				s.DueSoon++
			}
			if t.Project() == "" {
				s.WithoutProject++
			}
		}
		s.Pending = s.Total - s.Completed
		s.PercentDone = percent(s.Completed, s.Total)

		for _, p := range []model.Priority{model.PriorityHigh, model.PriorityMedium, model.PriorityLow} {
			ps := dto.PriorityStats{Priority: p.String()}
			for _, t := range tasks {
				if t.Priority() != p {
					continue
				}
				ps.Total++
				if t.IsCompleted() {
					ps.Done++
				} else {
					ps.Pending++
				}
			}
			if ps.Total > 0 {
				s.ByPriority = append(s.ByPriority, ps)
			}
		}

		for _, p := range c.Projects() {
			s.ByProject = append(s.ByProject, dto.ProjectStats{
				Name:        p.Name,
				Total:       p.Total(),
				Done:        p.Done,
				PercentDone: percent(p.Done, p.Total()),
			})
		}

		s.Activity = make([]dto.DayActivity, 0, activityDays)
		for i := activityDays - 1; i >= 0; i-- {
			day := today.AddDays(-i)
			n := 0
			for _, t := range tasks {
				if t.IsCompleted() && t.CompletedAt().Equal(day) {
					n++
				}
			}
			s.Activity = append(s.Activity, dto.DayActivity{Date: day.String(), Completed: n})
		}

		resp = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Info describes the storage backend and the size of the list
func (uc *TaskUseCaseImpl) Info(ctx context.Context) (*dto.InfoResponse, error) {
	resp := &dto.InfoResponse{
		Home:         uc.opts.Home,
		ConfigSource: uc.opts.ConfigSource,
	}
	if uc.opts.Storage != nil {
		desc, err := uc.opts.Storage.Describe(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe storage: %w", err)
		}
		resp.Backend = desc.Backend
		resp.Location = desc.Location
		resp.Exists = desc.Exists
		resp.SizeBytes = desc.SizeBytes
	}
	err := uc.txManager.ReadOnly(ctx, func(c *domaintask.Collection) error {
		resp.Tasks = c.Len()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Export returns every task in list order
func (uc *TaskUseCaseImpl) Export(ctx context.Context) ([]dto.TaskView, error) {
	var out []dto.TaskView
	err := uc.txManager.ReadOnly(ctx, func(c *domaintask.Collection) error {
		out = uc.views(c).list(c.Tasks())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Journal returns up to limit committed transactions, newest first
func (uc *TaskUseCaseImpl) Journal(ctx context.Context, limit int) ([]dto.JournalEntry, error) {
	if uc.opts.Journal == nil {
		return []dto.JournalEntry{}, nil
	}
	records, err := uc.opts.Journal.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	out := make([]dto.JournalEntry, len(records))
	for i, r := range records {
		out[i] = dto.JournalEntry{
			ID:          r.ID,
			Timestamp:   r.Timestamp,
			Operation:   r.Operation,
			TasksBefore: r.TasksBefore,
			TasksAfter:  r.TasksAfter,
			ElapsedMs:   r.ElapsedMs,
			Notes:       r.Notes,
		}
	}
	return out, nil
}

func normalizeStatus(s string) (string, error) {
	switch status := strings.ToLower(strings.TrimSpace(s)); status {
	case "":
		return dto.StatusAll, nil
	case dto.StatusAll, dto.StatusPending, dto.StatusDone:
		return status, nil
	default:
		return "", fmt.Errorf("unknown status filter %q (expected all, pending or done)", s)
	}
}

func matchesStatus(t *domaintask.Task, status string) bool {
	switch status {
	case dto.StatusPending:
		return !t.IsCompleted()
	case dto.StatusDone:
		return t.IsCompleted()
	default:
		return true
	}
}

func (uc *TaskUseCaseImpl) matchesDue(t *domaintask.Task, due string, today model.Date) bool {
	switch due {
	case dto.DueOverdue:
		return t.IsOverdue(today)
	case dto.DueSoon:
		return t.IsDueSoon(today, uc.opts.DueSoonDays)
	case dto.DueWithDue:
		return !t.DueDate().IsZero()
	case dto.DueNoDue:
		return t.DueDate().IsZero()
	default:
		return true
	}
}

// recurMatcher accepts a pattern name, "recurring" or "non-recurring"
func recurMatcher(s string) (func(*domaintask.Task) bool, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "":
		return nil, nil
	case dto.RecurAny:
		return func(t *domaintask.Task) bool { return t.Recurrence().IsSet() }, nil
	case dto.RecurNone:
		return func(t *domaintask.Task) bool { return !t.Recurrence().IsSet() }, nil
	default:
		r, err := model.ParseRecurrence(v)
		if err != nil {
			return nil, fmt.Errorf("unknown recurrence filter %q (expected daily, weekly, monthly, recurring or non-recurring)", s)
		}
		return func(t *domaintask.Task) bool { return t.Recurrence() == r }, nil
	}
}

func filterTasks(tasks []*domaintask.Task, keep func(*domaintask.Task) bool) []*domaintask.Task {
	out := make([]*domaintask.Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// sortTasks sorts in place; ties keep list order
func sortTasks(tasks []*domaintask.Task, key string) {
	switch key {
	case dto.SortPriority:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Priority().Order() < tasks[j].Priority().Order()
		})
	case dto.SortDue:
		sort.SliceStable(tasks, func(i, j int) bool {
			a, b := tasks[i].DueDate(), tasks[j].DueDate()
			if a.IsZero() || b.IsZero() {
				return !a.IsZero() && b.IsZero()
			}
			return a.Before(b)
		})
	case dto.SortCreated:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].CreatedAt().Before(tasks[j].CreatedAt())
		})
	}
}

func listTitle(status string, priority model.Priority, due, project, recur string) string {
	if project != "" {
		return fmt.Sprintf("Tasks in project %q", project)
	}
	if recur != "" {
		kind := "recurring"
		switch recur {
		case dto.RecurAny:
		case dto.RecurNone:
			kind = "non-recurring"
		default:
			kind = recur + " recurring"
		}
		switch status {
		case dto.StatusPending:
			return "Pending " + kind + " tasks"
		case dto.StatusDone:
			return "Completed " + kind + " tasks"
		default:
			return strings.ToUpper(kind[:1]) + kind[1:] + " tasks"
		}
	}

	level := ""
	if priority != "" {
		level = strings.ToUpper(priority.String()[:1]) + priority.String()[1:] + " priority "
	}
	switch status {
	case dto.StatusDone:
		return "Completed tasks"
	case dto.StatusPending:
		switch {
		case level != "":
			return level + "pending tasks"
		case due == dto.DueOverdue:
			return "Pending overdue tasks"
		case due == dto.DueSoon:
			return "Pending tasks due soon"
		default:
			return "Pending tasks"
		}
	default:
		switch {
		case level != "":
			return level + "tasks"
		case due == dto.DueOverdue:
			return "Overdue tasks"
		case due == dto.DueSoon:
			return "Tasks due soon"
		case due == dto.DueWithDue:
			return "Tasks with due date"
		case due == dto.DueNoDue:
			return "Tasks without due date"
		default:
			return "Tasks"
		}
	}
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return part * 100 / total
}
