package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/YoshitsuguKoike/deetodo/internal/application/dto"
)

// ListTasksInput defines the input for the list_tasks tool.
type ListTasksInput struct {
	Status   string `json:"status,omitempty" jsonschema:"all, pending or done (default: all)"`
	Priority string `json:"priority,omitempty" jsonschema:"Filter by priority: high, medium or low"`
	Due      string `json:"due,omitempty" jsonschema:"Filter by due date: overdue, soon, with-due or no-due"`
	Sort     string `json:"sort,omitempty" jsonschema:"Sort by priority, due or created (default: list order)"`
	Tag      string `json:"tag,omitempty" jsonschema:"Only tasks carrying this tag"`
	Project  string `json:"project,omitempty" jsonschema:"Only tasks in this project (case-insensitive)"`
	Recur    string `json:"recur,omitempty" jsonschema:"daily, weekly, monthly, recurring or non-recurring"`
}

// ListTasksTool returns the tool definition for list_tasks.
func ListTasksTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks with optional filters. Each task carries its current position, which other tools accept as id.",
	}
}

// HandleListTasks handles the list_tasks tool call.
func (h *Handler) HandleListTasks(ctx context.Context, req *mcp.CallToolRequest, input ListTasksInput) (*mcp.CallToolResult, dto.TaskListResponse, error) {
	resp, err := h.Tasks.ListTasks(ctx, dto.ListTasksRequest{
		Status:   input.Status,
		Priority: input.Priority,
		Due:      input.Due,
		Sort:     input.Sort,
		Tag:      input.Tag,
		Project:  input.Project,
		Recur:    input.Recur,
	})
	if isEmptyResult(err) {
		return nil, dto.TaskListResponse{Title: "No tasks", Tasks: []dto.TaskView{}}, nil
	}
	if err != nil {
		return nil, dto.TaskListResponse{}, h.toolError("list_tasks", err)
	}
	return nil, *resp, nil
}

// SearchTasksInput defines the input for the search_tasks tool.
type SearchTasksInput struct {
	Query   string `json:"query" jsonschema:"Case-insensitive substring of the task text"`
	Tag     string `json:"tag,omitempty" jsonschema:"Narrow results to a tag"`
	Project string `json:"project,omitempty" jsonschema:"Narrow results to a project"`
	Status  string `json:"status,omitempty" jsonschema:"all, pending or done (default: all)"`
}

// SearchTasksTool returns the tool definition for search_tasks.
func SearchTasksTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "search_tasks",
		Description: "Find tasks whose text contains the query, ignoring case.",
	}
}

// HandleSearchTasks handles the search_tasks tool call.
func (h *Handler) HandleSearchTasks(ctx context.Context, req *mcp.CallToolRequest, input SearchTasksInput) (*mcp.CallToolResult, dto.TaskListResponse, error) {
	resp, err := h.Tasks.SearchTasks(ctx, dto.SearchTasksRequest{
		Query:   input.Query,
		Tag:     input.Tag,
		Project: input.Project,
		Status:  input.Status,
	})
	if isEmptyResult(err) {
		return nil, dto.TaskListResponse{Title: "No matches", Tasks: []dto.TaskView{}}, nil
	}
	if err != nil {
		return nil, dto.TaskListResponse{}, h.toolError("search_tasks", err)
	}
	return nil, *resp, nil
}

// GetTaskTool returns the tool definition for get_task.
func GetTaskTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_task",
		Description: "Retrieve one task by position or ID prefix.",
	}
}

// HandleGetTask handles the get_task tool call.
func (h *Handler) HandleGetTask(ctx context.Context, req *mcp.CallToolRequest, input TaskRefInput) (*mcp.CallToolResult, dto.TaskView, error) {
	view, err := h.Tasks.GetTask(ctx, input.ID)
	if err != nil {
		return nil, dto.TaskView{}, h.toolError("get_task", err)
	}
	return nil, *view, nil
}

// ListTagsOutput defines the output for the list_tags tool.
type ListTagsOutput struct {
	Tags []dto.TagSummary `json:"tags"`
}

// ListTagsTool returns the tool definition for list_tags.
func ListTagsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_tags",
		Description: "List every tag in use with the number of tasks carrying it.",
	}
}

// HandleListTags handles the list_tags tool call.
func (h *Handler) HandleListTags(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, ListTagsOutput, error) {
	tags, err := h.Tasks.ListTags(ctx)
	if isEmptyResult(err) {
		return nil, ListTagsOutput{Tags: []dto.TagSummary{}}, nil
	}
	if err != nil {
		return nil, ListTagsOutput{}, h.toolError("list_tags", err)
	}
	return nil, ListTagsOutput{Tags: tags}, nil
}

// ListProjectsOutput defines the output for the list_projects tool.
type ListProjectsOutput struct {
	Projects []dto.ProjectSummary `json:"projects"`
}

// ListProjectsTool returns the tool definition for list_projects.
func ListProjectsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_projects",
		Description: "List every project with pending and done counts.",
	}
}

// HandleListProjects handles the list_projects tool call.
func (h *Handler) HandleListProjects(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, ListProjectsOutput, error) {
	projects, err := h.Tasks.ListProjects(ctx)
	if isEmptyResult(err) {
		return nil, ListProjectsOutput{Projects: []dto.ProjectSummary{}}, nil
	}
	if err != nil {
		return nil, ListProjectsOutput{}, h.toolError("list_projects", err)
	}
	return nil, ListProjectsOutput{Projects: projects}, nil
}

// DependenciesTool returns the tool definition for task_dependencies.
func DependenciesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "task_dependencies",
		Description: "Show what a task depends on, what depends on it, and whether it is blocked.",
	}
}

// HandleDependencies handles the task_dependencies tool call.
func (h *Handler) HandleDependencies(ctx context.Context, req *mcp.CallToolRequest, input TaskRefInput) (*mcp.CallToolResult, dto.DependenciesResponse, error) {
	resp, err := h.Tasks.Dependencies(ctx, input.ID)
	if err != nil {
		return nil, dto.DependenciesResponse{}, h.toolError("task_dependencies", err)
	}
	return nil, *resp, nil
}

// StatsTool returns the tool definition for task_stats.
func StatsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "task_stats",
		Description: "Summarise the list: totals, overdue, due soon, blocked, per priority, per project and completions over the last 7 days.",
	}
}

// HandleStats handles the task_stats tool call.
func (h *Handler) HandleStats(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, dto.StatsResponse, error) {
	resp, err := h.Tasks.Stats(ctx)
	if err != nil {
		return nil, dto.StatsResponse{}, h.toolError("task_stats", err)
	}
	return nil, *resp, nil
}
