package tools

import (
	"errors"
	"fmt"

	"github.com/YoshitsuguKoike/deetodo/internal/app"
	"github.com/YoshitsuguKoike/deetodo/internal/application/port/input"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model/task"
	"github.com/YoshitsuguKoike/deetodo/internal/interface/cli/common"
)

// Handler provides the dependencies needed by tool handlers.
type Handler struct {
	Tasks  input.TaskUseCase
	Today  func() model.Date
	Logger app.Logger
}

// NewHandler creates a new Handler with the given dependencies.
func NewHandler(tasks input.TaskUseCase, today func() model.Date, logger app.Logger) *Handler {
	if today == nil {
		today = model.Today
	}
	if logger == nil {
		logger = app.GetLogger()
	}
	return &Handler{Tasks: tasks, Today: today, Logger: logger}
}

// resolveDate parses an optional due date; "" returns the zero date
func (h *Handler) resolveDate(s string) (model.Date, error) {
	if s == "" {
		return model.Date{}, nil
	}
	return common.ParseDate(s, h.Today())
}

// toolError logs a failed call and prefixes the error kind so agents can
// tell a bad request from a missing task
func (h *Handler) toolError(tool string, err error) error {
	h.Logger.Warn("mcp: %s failed: %v", tool, err)
	if kind, ok := task.KindOf(err); ok {
		return fmt.Errorf("%s error: %w", kind, err)
	}
	return err
}

// isEmptyResult reports errors that only mean "nothing matched"
func isEmptyResult(err error) bool {
	return errors.Is(err, task.ErrNoTasksFound) ||
		errors.Is(err, task.ErrNoSearchResults) ||
		errors.Is(err, task.ErrNoTagsFound) ||
		errors.Is(err, task.ErrNoProjectsFound)
}
