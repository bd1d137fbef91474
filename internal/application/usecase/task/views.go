package task

import (
	"github.com/YoshitsuguKoike/deetodo/internal/application/dto"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model"
	domaintask "github.com/YoshitsuguKoike/deetodo/internal/domain/model/task"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/service"
)

// viewBuilder renders tasks against one collection snapshot
type viewBuilder struct {
	c       *domaintask.Collection
	graph   *service.DependencyGraph
	today   model.Date
	dueSoon int
}

func (uc *TaskUseCaseImpl) views(c *domaintask.Collection) *viewBuilder {
	return &viewBuilder{
		c:       c,
		graph:   service.NewDependencyGraph(c),
		today:   uc.lifecycle.Today(),
		dueSoon: uc.opts.DueSoonDays,
	}
}

func (v *viewBuilder) view(t *domaintask.Task) dto.TaskView {
	tags := t.Tags()
	if tags == nil {
		tags = []string{}
	}
	tv := dto.TaskView{
		Position:    v.c.Position(t.ID()),
		ID:          t.ID().String(),
		Text:        t.Text(),
		Completed:   t.IsCompleted(),
		CompletedAt: t.CompletedAt().String(),
		Priority:    t.Priority().String(),
		Tags:        tags,
		Project:     t.Project(),
		DueDate:     t.DueDate().String(),
		Recurrence:  t.Recurrence().String(),
		DependsOn:   v.positions(t.DependsOn()),
		Overdue:     t.IsOverdue(v.today),
		DueSoon:     t.IsDueSoon(v.today, v.dueSoon),
		CreatedAt:   t.CreatedAt().String(),
	}
	if due := t.DueDate(); !due.IsZero() {
		n := v.today.DaysUntil(due)
		tv.DueInDays = &n
	}
	if !t.IsCompleted() && v.graph.IsBlocked(t) {
		tv.Blocked = true
		tv.BlockedBy = v.positions(v.graph.BlockingDeps(t))
	}
	return tv
}

func (v *viewBuilder) list(tasks []*domaintask.Task) []dto.TaskView {
	out := make([]dto.TaskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, v.view(t))
	}
	return out
}

// positions maps ids to current positions, skipping dangling ids
func (v *viewBuilder) positions(ids []model.TaskID) []int {
	var out []int
	for _, id := range ids {
		if pos := v.c.Position(id); pos > 0 {
			out = append(out, pos)
		}
	}
	return out
}

func (v *viewBuilder) dependency(id model.TaskID) dto.DependencyView {
	t, ok := v.c.Get(id)
	if !ok {
		return dto.DependencyView{ID: id.String(), Missing: true}
	}
	return dto.DependencyView{
		Position:  v.c.Position(id),
		ID:        id.String(),
		Text:      t.Text(),
		Completed: t.IsCompleted(),
	}
}
