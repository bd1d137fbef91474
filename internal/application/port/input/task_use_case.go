package input

import (
	"context"

	"github.com/YoshitsuguKoike/deetodo/internal/application/dto"
)

// TaskUseCase defines every operation on the task list. Task references
// are 1-based positions ("3", "#3") or unique ID prefixes.
type TaskUseCase interface {
	// Mutations, each one transaction over the whole list
	AddTask(ctx context.Context, req dto.AddTaskRequest) (*dto.AddTaskResponse, error)
	CompleteTask(ctx context.Context, ref string) (*dto.CompleteTaskResponse, error)
	ReopenTask(ctx context.Context, ref string) (*dto.TaskView, error)
	RemoveTask(ctx context.Context, ref string) (*dto.RemoveTaskResponse, error)
	EditTask(ctx context.Context, req dto.EditTaskRequest) (*dto.EditTaskResponse, error)
	SetRecurrence(ctx context.Context, ref string, pattern string) (*dto.RecurrenceResponse, error)
	ClearRecurrence(ctx context.Context, ref string) (*dto.RecurrenceResponse, error)
	ClearTasks(ctx context.Context) (*dto.ClearResponse, error)

	// Queries
	GetTask(ctx context.Context, ref string) (*dto.TaskView, error)
	ListTasks(ctx context.Context, req dto.ListTasksRequest) (*dto.TaskListResponse, error)
	SearchTasks(ctx context.Context, req dto.SearchTasksRequest) (*dto.TaskListResponse, error)
	ListTags(ctx context.Context) ([]dto.TagSummary, error)
	ListProjects(ctx context.Context) ([]dto.ProjectSummary, error)
	Dependencies(ctx context.Context, ref string) (*dto.DependenciesResponse, error)
	Stats(ctx context.Context) (*dto.StatsResponse, error)
	Info(ctx context.Context) (*dto.InfoResponse, error)
	Export(ctx context.Context) ([]dto.TaskView, error)
	Journal(ctx context.Context, limit int) ([]dto.JournalEntry, error)
}
