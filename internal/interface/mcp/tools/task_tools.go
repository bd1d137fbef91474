package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/YoshitsuguKoike/deetodo/internal/application/dto"
)

// AddTaskInput defines the input for the add_task tool.
type AddTaskInput struct {
	Text       string   `json:"text" jsonschema:"Task description"`
	Priority   string   `json:"priority,omitempty" jsonschema:"high, medium or low (default: medium)"`
	Tags       []string `json:"tags,omitempty" jsonschema:"Tags to attach; near-duplicates of existing tags are rewritten to the existing spelling"`
	Project    string   `json:"project,omitempty" jsonschema:"Project name"`
	Due        string   `json:"due,omitempty" jsonschema:"Due date as YYYY-MM-DD or an expression like tomorrow or in 3 days; must not be in the past"`
	Recurrence string   `json:"recurrence,omitempty" jsonschema:"daily, weekly or monthly; requires due"`
	DependsOn  []string `json:"depends_on,omitempty" jsonschema:"Positions or ID prefixes of tasks that must be completed first"`
}

// AddTaskTool returns the tool definition for add_task.
func AddTaskTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "add_task",
		Description: "Add a task to the end of the list. Returns the task with its position and any tag rewrites.",
	}
}

// HandleAddTask handles the add_task tool call.
func (h *Handler) HandleAddTask(ctx context.Context, req *mcp.CallToolRequest, input AddTaskInput) (*mcp.CallToolResult, dto.AddTaskResponse, error) {
	h.Logger.Debug("mcp: add_task text_len=%d", len(input.Text))

	due, err := h.resolveDate(input.Due)
	if err != nil {
		return nil, dto.AddTaskResponse{}, h.toolError("add_task", err)
	}
	resp, err := h.Tasks.AddTask(ctx, dto.AddTaskRequest{
		Text:       input.Text,
		Priority:   input.Priority,
		Tags:       input.Tags,
		Project:    input.Project,
		DueDate:    due,
		Recurrence: input.Recurrence,
		DependsOn:  input.DependsOn,
	})
	if err != nil {
		return nil, dto.AddTaskResponse{}, h.toolError("add_task", err)
	}
	return nil, *resp, nil
}

// TaskRefInput addresses one task.
type TaskRefInput struct {
	ID string `json:"id" jsonschema:"1-based position (3 or #3) or a unique ID prefix"`
}

// CompleteTaskTool returns the tool definition for complete_task.
func CompleteTaskTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "complete_task",
		Description: "Mark a task done. Fails while any dependency is pending. Completing a recurring task adds its next occurrence.",
	}
}

// HandleCompleteTask handles the complete_task tool call.
func (h *Handler) HandleCompleteTask(ctx context.Context, req *mcp.CallToolRequest, input TaskRefInput) (*mcp.CallToolResult, dto.CompleteTaskResponse, error) {
	resp, err := h.Tasks.CompleteTask(ctx, input.ID)
	if err != nil {
		return nil, dto.CompleteTaskResponse{}, h.toolError("complete_task", err)
	}
	h.Logger.Info("mcp: completed %s", resp.Task.ID)
	return nil, *resp, nil
}

// ReopenTaskTool returns the tool definition for reopen_task.
func ReopenTaskTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "reopen_task",
		Description: "Mark a completed task as pending again.",
	}
}

// HandleReopenTask handles the reopen_task tool call.
func (h *Handler) HandleReopenTask(ctx context.Context, req *mcp.CallToolRequest, input TaskRefInput) (*mcp.CallToolResult, dto.TaskView, error) {
	view, err := h.Tasks.ReopenTask(ctx, input.ID)
	if err != nil {
		return nil, dto.TaskView{}, h.toolError("reopen_task", err)
	}
	return nil, *view, nil
}

// RemoveTaskTool returns the tool definition for remove_task.
func RemoveTaskTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "remove_task",
		Description: "Delete a task permanently. Edges from other tasks to it are removed too. Positions of later tasks shift down by one.",
	}
}

// HandleRemoveTask handles the remove_task tool call.
func (h *Handler) HandleRemoveTask(ctx context.Context, req *mcp.CallToolRequest, input TaskRefInput) (*mcp.CallToolResult, dto.RemoveTaskResponse, error) {
	resp, err := h.Tasks.RemoveTask(ctx, input.ID)
	if err != nil {
		return nil, dto.RemoveTaskResponse{}, h.toolError("remove_task", err)
	}
	h.Logger.Info("mcp: removed %s", resp.Task.ID)
	return nil, *resp, nil
}

// EditTaskInput defines the input for the edit_task tool. Unset fields
// are left alone.
type EditTaskInput struct {
	ID           string   `json:"id" jsonschema:"1-based position or a unique ID prefix"`
	Text         *string  `json:"text,omitempty" jsonschema:"New description"`
	Priority     *string  `json:"priority,omitempty" jsonschema:"New priority: high, medium or low"`
	AddTags      []string `json:"add_tags,omitempty" jsonschema:"Tags to add"`
	RemoveTags   []string `json:"remove_tags,omitempty" jsonschema:"Tags to remove; each must be on the task"`
	ClearTags    bool     `json:"clear_tags,omitempty" jsonschema:"Remove every tag"`
	Project      *string  `json:"project,omitempty" jsonschema:"New project"`
	ClearProject bool     `json:"clear_project,omitempty" jsonschema:"Remove the project"`
	Due          *string  `json:"due,omitempty" jsonschema:"New due date; past dates are accepted"`
	ClearDue     bool     `json:"clear_due,omitempty" jsonschema:"Remove the due date"`
	AddDeps      []string `json:"add_deps,omitempty" jsonschema:"Tasks to depend on"`
	RemoveDeps   []string `json:"remove_deps,omitempty" jsonschema:"Dependencies to drop"`
	ClearDeps    bool     `json:"clear_deps,omitempty" jsonschema:"Drop every dependency"`
}

// EditTaskTool returns the tool definition for edit_task.
func EditTaskTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "edit_task",
		Description: "Change fields of a task. Returns the list of changes; an empty list means nothing changed.",
	}
}

// HandleEditTask handles the edit_task tool call.
func (h *Handler) HandleEditTask(ctx context.Context, req *mcp.CallToolRequest, input EditTaskInput) (*mcp.CallToolResult, dto.EditTaskResponse, error) {
	if input.Project != nil && input.ClearProject {
		return nil, dto.EditTaskResponse{}, fmt.Errorf("project and clear_project are mutually exclusive")
	}
	if input.Due != nil && input.ClearDue {
		return nil, dto.EditTaskResponse{}, fmt.Errorf("due and clear_due are mutually exclusive")
	}

	edit := dto.EditTaskRequest{
		Ref:          input.ID,
		Text:         input.Text,
		Priority:     input.Priority,
		AddTags:      input.AddTags,
		RemoveTags:   input.RemoveTags,
		ClearTags:    input.ClearTags,
		Project:      input.Project,
		ClearProject: input.ClearProject,
		ClearDue:     input.ClearDue,
		AddDeps:      input.AddDeps,
		RemoveDeps:   input.RemoveDeps,
		ClearDeps:    input.ClearDeps,
	}
	if input.Due != nil {
		due, err := h.resolveDate(*input.Due)
		if err != nil {
			return nil, dto.EditTaskResponse{}, h.toolError("edit_task", err)
		}
		edit.DueDate = &due
	}

	resp, err := h.Tasks.EditTask(ctx, edit)
	if err != nil {
		return nil, dto.EditTaskResponse{}, h.toolError("edit_task", err)
	}
	return nil, *resp, nil
}

// SetRecurrenceInput defines the input for the set_recurrence tool.
type SetRecurrenceInput struct {
	ID      string `json:"id" jsonschema:"1-based position or a unique ID prefix"`
	Pattern string `json:"pattern" jsonschema:"daily, weekly, monthly, or none to stop repeating"`
}

// SetRecurrenceTool returns the tool definition for set_recurrence.
func SetRecurrenceTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "set_recurrence",
		Description: "Make a task repeat, or stop it repeating with pattern none. A repeating task needs a due date.",
	}
}

// HandleSetRecurrence handles the set_recurrence tool call.
func (h *Handler) HandleSetRecurrence(ctx context.Context, req *mcp.CallToolRequest, input SetRecurrenceInput) (*mcp.CallToolResult, dto.RecurrenceResponse, error) {
	var (
		resp *dto.RecurrenceResponse
		err  error
	)
	if input.Pattern == "none" {
		resp, err = h.Tasks.ClearRecurrence(ctx, input.ID)
	} else {
		resp, err = h.Tasks.SetRecurrence(ctx, input.ID, input.Pattern)
	}
	if err != nil {
		return nil, dto.RecurrenceResponse{}, h.toolError("set_recurrence", err)
	}
	return nil, *resp, nil
}
