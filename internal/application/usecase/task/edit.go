package task

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/YoshitsuguKoike/deetodo/internal/application/dto"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model/tag"
	domaintask "github.com/YoshitsuguKoike/deetodo/internal/domain/model/task"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/service"
)

// EditTask applies a partial update. Dependency edges are validated before
// any field changes; a request that changes nothing still succeeds and
// returns an empty change list.
func (uc *TaskUseCaseImpl) EditTask(ctx context.Context, req dto.EditTaskRequest) (*dto.EditTaskResponse, error) {
	var priority model.Priority
	if req.Priority != nil {
		p, err := parsePriority(*req.Priority)
		if err != nil {
			return nil, err
		}
		if p == "" {
			return nil, domaintask.Errorf(domaintask.ErrInvalidPriority, "empty priority")
		}
		priority = p
	}
	addTags := tag.CleanAll(req.AddTags)
	if _, err := domaintask.ValidateTags(addTags); err != nil {
		return nil, err
	}

	var resp *dto.EditTaskResponse
	err := uc.txManager.InTransaction(ctx, "edit", func(c *domaintask.Collection) error {
		t, err := c.Resolve(req.Ref)
		if err != nil {
			return err
		}
		graph := service.NewDependencyGraph(c)

		var addDeps, removeDeps []model.TaskID
		if !req.ClearDeps {
			if addDeps, err = resolveIDs(c, req.AddDeps); err != nil {
				return err
			}
			if err := graph.ValidateNewEdges(t.ID(), addDeps); err != nil {
				return err
			}
			if removeDeps, err = resolveIDs(c, req.RemoveDeps); err != nil {
				return err
			}
			if err := graph.ValidateEdgeRemovals(t, removeDeps); err != nil {
				return err
			}
		}

		e := &editor{t: t, c: c}
		e.apply(req, priority, addTags, addDeps, removeDeps)
		if e.err != nil {
			return e.err
		}

		resp = &dto.EditTaskResponse{
			Task:           uc.views(c).view(t),
			Changes:        e.changes,
			Normalizations: normalizationStrings(e.normalizations),
		}
		if resp.Changes == nil {
			resp.Changes = []string{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// editor applies the fields of one edit request, stopping at the first error
type editor struct {
	t              *domaintask.Task
	c              *domaintask.Collection
	changes        []string
	normalizations []tag.Normalization
	err            error
}

func (e *editor) record(changed bool, err error, format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	if err != nil {
		e.err = err
		return
	}
	if changed {
		e.changes = append(e.changes, fmt.Sprintf(format, args...))
	}
}

func (e *editor) apply(req dto.EditTaskRequest, priority model.Priority, addTags []string, addDeps, removeDeps []model.TaskID) {
	t := e.t

	if req.Text != nil {
		changed, err := t.SetText(*req.Text)
		e.record(changed, err, "text -> %s", t.Text())
	}
	if priority != "" {
		changed, err := t.SetPriority(priority)
		e.record(changed, err, "priority -> %s", priority.Letter())
	}

	switch {
	case req.ClearProject:
		old := t.Project()
		e.record(t.ClearProject(), nil, "project cleared (was %s)", old)
	case req.Project != nil:
		changed, err := t.SetProject(*req.Project)
		e.record(changed, err, "project -> %s", t.Project())
	}

	if req.ClearTags {
		old := t.ClearTags()
		e.record(len(old) > 0, nil, "tags cleared (was [%s])", strings.Join(old, ", "))
	} else {
		if len(req.RemoveTags) > 0 {
			removed, err := t.RemoveTags(tag.CleanAll(req.RemoveTags))
			e.record(len(removed) > 0, err, "removed tags [%s]", strings.Join(removed, ", "))
		}
		if len(addTags) > 0 && e.err == nil {
			tags, normalizations := tag.NewNormalizer(e.c.Tags()).NormalizeAll(addTags)
			e.normalizations = normalizations
			added, err := t.AddTags(tags)
			e.record(len(added) > 0, err, "added tags [%s]", strings.Join(added, ", "))
		}
	}

	switch {
	case req.ClearDue:
		changed, err := t.ClearDueDate()
		e.record(changed, err, "due date cleared")
	case req.DueDate != nil:
		changed, err := t.SetDueDate(*req.DueDate)
		e.record(changed, err, "due date -> %s", t.DueDate())
	}

	if req.ClearDeps {
		old := t.ClearDependencies()
		e.record(len(old) > 0, nil, "dependencies cleared (was [%s])", e.refs(old))
		return
	}
	if len(removeDeps) > 0 {
		e.record(true, t.RemoveDependencies(removeDeps), "removed deps [%s]", e.refs(removeDeps))
	}
	if len(addDeps) > 0 && e.err == nil {
		t.AddDependencies(addDeps)
		e.record(true, nil, "added deps [%s]", e.refs(addDeps))
	}
}

// refs renders ids as "#pos" where possible
func (e *editor) refs(ids []model.TaskID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		if pos := e.c.Position(id); pos > 0 {
			parts[i] = "#" + strconv.Itoa(pos)
		} else {
			parts[i] = id.Short()
		}
	}
	return strings.Join(parts, ", ")
}

// SetRecurrence makes a task repeat. The task must have a due date.
func (uc *TaskUseCaseImpl) SetRecurrence(ctx context.Context, ref string, pattern string) (*dto.RecurrenceResponse, error) {
	r, err := parseRecurrence(pattern)
	if err != nil {
		return nil, err
	}
	if !r.IsSet() {
		return nil, domaintask.Errorf(domaintask.ErrInvalidRecurrence, "empty pattern")
	}

	var resp *dto.RecurrenceResponse
	err = uc.txManager.InTransaction(ctx, "recur", func(c *domaintask.Collection) error {
		t, err := c.Resolve(ref)
		if err != nil {
			return err
		}
		previous := t.Recurrence()
		changed, err := t.SetRecurrence(r)
		if errors.Is(err, domaintask.ErrRecurrenceRequiresDueDate) {
			return domaintask.Errorf(domaintask.ErrRecurrenceRequiresDueDate,
				"%s has no due date (set one with: edit %d --due YYYY-MM-DD)", c.Label(t.ID()), c.Position(t.ID()))
		}
		if err != nil {
			return err
		}
		resp = &dto.RecurrenceResponse{
			Task:     uc.views(c).view(t),
			Previous: previous.String(),
			Changed:  changed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ClearRecurrence stops a task from repeating
func (uc *TaskUseCaseImpl) ClearRecurrence(ctx context.Context, ref string) (*dto.RecurrenceResponse, error) {
	var resp *dto.RecurrenceResponse
	err := uc.txManager.InTransaction(ctx, "norecur", func(c *domaintask.Collection) error {
		t, err := c.Resolve(ref)
		if err != nil {
			return err
		}
		previous := t.Recurrence()
		changed := t.ClearRecurrence()
		resp = &dto.RecurrenceResponse{
			Task:     uc.views(c).view(t),
			Previous: previous.String(),
			Changed:  changed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
