package dto

import "github.com/YoshitsuguKoike/deetodo/internal/domain/model"

// TaskView is a task as shown to users: its current 1-based position plus
// flags derived from the whole list. Positions are valid only for the
// snapshot the view was computed from.
type TaskView struct {
	Position    int      `json:"position" yaml:"position"`
	ID          string   `json:"id" yaml:"id"`
	Text        string   `json:"text" yaml:"text"`
	Completed   bool     `json:"completed" yaml:"completed"`
	CompletedAt string   `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	Priority    string   `json:"priority" yaml:"priority"`
	Tags        []string `json:"tags" yaml:"tags"`
	Project     string   `json:"project,omitempty" yaml:"project,omitempty"`
	DueDate     string   `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	Recurrence  string   `json:"recurrence,omitempty" yaml:"recurrence,omitempty"`
	DependsOn   []int    `json:"depends_on,omitempty" yaml:"depends_on,omitempty"` // positions; dangling edges omitted
	BlockedBy   []int    `json:"blocked_by,omitempty" yaml:"blocked_by,omitempty"`
	Blocked     bool     `json:"blocked" yaml:"blocked"`
	Overdue     bool     `json:"overdue" yaml:"overdue"`
	DueSoon     bool     `json:"due_soon" yaml:"due_soon"`
	DueInDays   *int     `json:"due_in_days,omitempty" yaml:"due_in_days,omitempty"` // negative when late
	CreatedAt   string   `json:"created_at" yaml:"created_at"`
}

// AddTaskRequest creates a task. Priority and Recurrence are names
// ("high", "weekly"); DependsOn holds positions or id prefixes.
type AddTaskRequest struct {
	Text       string
	Priority   string
	Tags       []string
	Project    string
	DueDate    model.Date
	Recurrence string
	DependsOn  []string
}

// AddTaskResponse is the created task and any tag rewrites applied
type AddTaskResponse struct {
	Task           TaskView `json:"task" yaml:"task"`
	Normalizations []string `json:"normalizations,omitempty" yaml:"normalizations,omitempty"`
}

// CompleteTaskResponse is the result of marking a task done
type CompleteTaskResponse struct {
	Task TaskView `json:"task" yaml:"task"`
	// Spawned is the next occurrence of a recurring task
	Spawned          *TaskView `json:"spawned,omitempty" yaml:"spawned,omitempty"`
	SkippedDuplicate bool      `json:"skipped_duplicate,omitempty" yaml:"skipped_duplicate,omitempty"`
}

// RemoveTaskResponse is the removed task and the tasks that lost an edge to it
type RemoveTaskResponse struct {
	Task       TaskView   `json:"task" yaml:"task"`
	PrunedFrom []TaskView `json:"pruned_from,omitempty" yaml:"pruned_from,omitempty"`
}

// EditTaskRequest changes only the fields that are set. Clear flags win
// over the matching set field.
type EditTaskRequest struct {
	Ref          string
	Text         *string
	Priority     *string
	AddTags      []string
	RemoveTags   []string
	ClearTags    bool
	Project      *string
	ClearProject bool
	DueDate      *model.Date
	ClearDue     bool
	AddDeps      []string
	RemoveDeps   []string
	ClearDeps    bool
}

// EditTaskResponse lists human-readable changes; empty means nothing changed
type EditTaskResponse struct {
	Task           TaskView `json:"task" yaml:"task"`
	Changes        []string `json:"changes" yaml:"changes"`
	Normalizations []string `json:"normalizations,omitempty" yaml:"normalizations,omitempty"`
}

// RecurrenceResponse reports a recurrence change on a task
type RecurrenceResponse struct {
	Task     TaskView `json:"task" yaml:"task"`
	Previous string   `json:"previous,omitempty" yaml:"previous,omitempty"`
	Changed  bool     `json:"changed" yaml:"changed"`
}

// ClearResponse reports how many tasks were deleted
type ClearResponse struct {
	Removed int `json:"removed" yaml:"removed"`
}
