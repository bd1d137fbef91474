package task

import (
	"context"
	"strconv"
	"strings"

	"github.com/YoshitsuguKoike/deetodo/internal/application/dto"
	"github.com/YoshitsuguKoike/deetodo/internal/application/port/input"
	"github.com/YoshitsuguKoike/deetodo/internal/application/port/output"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model/tag"
	domaintask "github.com/YoshitsuguKoike/deetodo/internal/domain/model/task"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/repository"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/service"
)

// DefaultDueSoonDays is the "due soon" window when none is configured
const DefaultDueSoonDays = 7

// Options holds the optional collaborators of TaskUseCaseImpl
type Options struct {
	Storage      output.StorageGateway        // for Info; nil reports only the task count
	Journal      repository.JournalRepository // for Journal; nil means journaling is off
	DueSoonDays  int                          // <= 0 uses DefaultDueSoonDays
	Home         string
	ConfigSource string
}

// TaskUseCaseImpl implements the TaskUseCase interface
type TaskUseCaseImpl struct {
	txManager output.TransactionManager
	lifecycle *service.Lifecycle
	opts      Options
}

var _ input.TaskUseCase = (*TaskUseCaseImpl)(nil)

// NewTaskUseCaseImpl creates a new task use case implementation
func NewTaskUseCaseImpl(txManager output.TransactionManager, lifecycle *service.Lifecycle, opts Options) *TaskUseCaseImpl {
	if lifecycle == nil {
		lifecycle = service.NewLifecycle(nil)
	}
	if opts.DueSoonDays <= 0 {
		opts.DueSoonDays = DefaultDueSoonDays
	}
	return &TaskUseCaseImpl{txManager: txManager, lifecycle: lifecycle, opts: opts}
}

// AddTask validates the request, normalizes tags against the existing
// vocabulary, validates dependency edges and appends the task.
func (uc *TaskUseCaseImpl) AddTask(ctx context.Context, req dto.AddTaskRequest) (*dto.AddTaskResponse, error) {
	priority, err := parsePriority(req.Priority)
	if err != nil {
		return nil, err
	}
	recurrence, err := parseRecurrence(req.Recurrence)
	if err != nil {
		return nil, err
	}
	cleaned := tag.CleanAll(req.Tags)
	if _, err := domaintask.ValidateTags(cleaned); err != nil {
		return nil, err
	}

	var resp *dto.AddTaskResponse
	err = uc.txManager.InTransaction(ctx, "add", func(c *domaintask.Collection) error {
		tags, normalizations := tag.NewNormalizer(c.Tags()).NormalizeAll(cleaned)

		t, err := domaintask.New(domaintask.Params{
			Text:       req.Text,
			Priority:   priority,
			Tags:       tags,
			Project:    req.Project,
			DueDate:    req.DueDate,
			Recurrence: recurrence,
		}, uc.lifecycle.Today())
		if err != nil {
			return err
		}

		if len(req.DependsOn) > 0 {
			newPos := c.Len() + 1
			for _, ref := range req.DependsOn {
				if refersToPosition(ref, newPos) {
					return domaintask.Errorf(domaintask.ErrSelfDependency, "#%d", newPos)
				}
			}
			deps, err := resolveIDs(c, req.DependsOn)
			if err != nil {
				return err
			}
			if err := service.NewDependencyGraph(c).ValidateNewEdges(t.ID(), deps); err != nil {
				return err
			}
			t.AddDependencies(deps)
		}

		c.Append(t)
		resp = &dto.AddTaskResponse{
			Task:           uc.views(c).view(t),
			Normalizations: normalizationStrings(normalizations),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// CompleteTask marks a task done and spawns the next occurrence of a
// recurring task
func (uc *TaskUseCaseImpl) CompleteTask(ctx context.Context, ref string) (*dto.CompleteTaskResponse, error) {
	var resp *dto.CompleteTaskResponse
	err := uc.txManager.InTransaction(ctx, "done", func(c *domaintask.Collection) error {
		t, err := c.Resolve(ref)
		if err != nil {
			return err
		}
		result, err := uc.lifecycle.MarkDone(c, t.ID())
		if err != nil {
			return err
		}

		v := uc.views(c)
		resp = &dto.CompleteTaskResponse{
			Task:             v.view(result.Task),
			SkippedDuplicate: result.SkippedDuplicate,
		}
		if result.Spawned != nil {
			spawned := v.view(result.Spawned)
			resp.Spawned = &spawned
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ReopenTask marks a completed task pending again
func (uc *TaskUseCaseImpl) ReopenTask(ctx context.Context, ref string) (*dto.TaskView, error) {
	var resp *dto.TaskView
	err := uc.txManager.InTransaction(ctx, "undone", func(c *domaintask.Collection) error {
		t, err := c.Resolve(ref)
		if err != nil {
			return err
		}
		if _, err := uc.lifecycle.MarkUndone(c, t.ID()); err != nil {
			return err
		}
		v := uc.views(c).view(t)
		resp = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// RemoveTask deletes a task and prunes every edge that pointed at it
func (uc *TaskUseCaseImpl) RemoveTask(ctx context.Context, ref string) (*dto.RemoveTaskResponse, error) {
	var resp *dto.RemoveTaskResponse
	err := uc.txManager.InTransaction(ctx, "remove", func(c *domaintask.Collection) error {
		t, err := c.Resolve(ref)
		if err != nil {
			return err
		}
		removedView := uc.views(c).view(t)

		_, pruned, err := c.Remove(t.ID())
		if err != nil {
			return err
		}

		v := uc.views(c)
		resp = &dto.RemoveTaskResponse{Task: removedView}
		for _, p := range pruned {
			resp.PrunedFrom = append(resp.PrunedFrom, v.view(p))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ClearTasks deletes every task
func (uc *TaskUseCaseImpl) ClearTasks(ctx context.Context) (*dto.ClearResponse, error) {
	resp := &dto.ClearResponse{}
	err := uc.txManager.InTransaction(ctx, "clear", func(c *domaintask.Collection) error {
		resp.Removed = c.Clear()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func parsePriority(s string) (model.Priority, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	p, err := model.ParsePriority(s)
	if err != nil {
		return "", domaintask.Errorf(domaintask.ErrInvalidPriority, "%q (expected high, medium or low)", s)
	}
	return p, nil
}

func parseRecurrence(s string) (model.Recurrence, error) {
	if strings.TrimSpace(s) == "" {
		return model.RecurrenceNone, nil
	}
	r, err := model.ParseRecurrence(s)
	if err != nil {
		return model.RecurrenceNone, domaintask.Errorf(domaintask.ErrInvalidRecurrence, "%q (expected daily, weekly or monthly)", s)
	}
	return r, nil
}

// refersToPosition reports whether ref is the numeric position pos
func refersToPosition(ref string, pos int) bool {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(ref), "#"))
	return err == nil && n == pos
}

func resolveIDs(c *domaintask.Collection, refs []string) ([]model.TaskID, error) {
	tasks, err := c.ResolveAll(refs)
	if err != nil {
		return nil, err
	}
	ids := make([]model.TaskID, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID()
	}
	return ids, nil
}

func normalizationStrings(ns []tag.Normalization) []string {
	if len(ns) == 0 {
		return nil
	}
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.String()
	}
	return out
}
