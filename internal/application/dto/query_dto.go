package dto

// Status filters
const (
	StatusAll     = "all"
	StatusPending = "pending"
	StatusDone    = "done"
)

// Due filters
const (
	DueOverdue = "overdue"
	DueSoon    = "soon"
	DueWithDue = "with-due"
	DueNoDue   = "no-due"
)

// Sort keys
const (
	SortPriority = "priority"
	SortDue      = "due"
	SortCreated  = "created"
)

// Recurrence filters beyond the pattern names
const (
	RecurAny  = "recurring"
	RecurNone = "non-recurring"
)

// ListTasksRequest filters and sorts the list. Empty fields do not filter.
type ListTasksRequest struct {
	Status   string
	Priority string
	Due      string
	Sort     string
	Tag      string
	Project  string
	Recur    string
}

// SearchTasksRequest is a case-insensitive substring search over task text
type SearchTasksRequest struct {
	Query   string
	Tag     string
	Project string
	Status  string
}

// TaskListResponse is a titled list of tasks
type TaskListResponse struct {
	Title string     `json:"title" yaml:"title"`
	Tasks []TaskView `json:"tasks" yaml:"tasks"`
	Total int        `json:"total" yaml:"total"` // size of the whole list
}

// TagSummary is a tag and how many tasks carry it
type TagSummary struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// ProjectSummary counts the tasks of one project
type ProjectSummary struct {
	Name    string `json:"name" yaml:"name"`
	Pending int    `json:"pending" yaml:"pending"`
	Done    int    `json:"done" yaml:"done"`
	Total   int    `json:"total" yaml:"total"`
}

// DependencyView is one end of a dependency edge. Missing is set for an
// edge whose target no longer exists.
type DependencyView struct {
	Position  int    `json:"position,omitempty" yaml:"position,omitempty"`
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text,omitempty" yaml:"text,omitempty"`
	Completed bool   `json:"completed" yaml:"completed"`
	Missing   bool   `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// DependenciesResponse shows both directions of a task's edges
type DependenciesResponse struct {
	Task       TaskView         `json:"task" yaml:"task"`
	DependsOn  []DependencyView `json:"depends_on" yaml:"depends_on"`
	RequiredBy []DependencyView `json:"required_by" yaml:"required_by"`
	Blocked    bool             `json:"blocked" yaml:"blocked"`
	BlockedBy  []int            `json:"blocked_by,omitempty" yaml:"blocked_by,omitempty"`
}

// PriorityStats counts tasks of one priority
type PriorityStats struct {
	Priority string `json:"priority" yaml:"priority"`
	Total    int    `json:"total" yaml:"total"`
	Pending  int    `json:"pending" yaml:"pending"`
	Done     int    `json:"done" yaml:"done"`
}

// ProjectStats counts tasks of one project
type ProjectStats struct {
	Name        string `json:"name" yaml:"name"`
	Total       int    `json:"total" yaml:"total"`
	Done        int    `json:"done" yaml:"done"`
	PercentDone int    `json:"percent_done" yaml:"percent_done"`
}

// DayActivity is the number of completions on one date
type DayActivity struct {
	Date      string `json:"date" yaml:"date"`
	Completed int    `json:"completed" yaml:"completed"`
}

// StatsResponse summarises the whole list
type StatsResponse struct {
	Total          int             `json:"total" yaml:"total"`
	Completed      int             `json:"completed" yaml:"completed"`
	Pending        int             `json:"pending" yaml:"pending"`
	PercentDone    int             `json:"percent_done" yaml:"percent_done"`
	Overdue        int             `json:"overdue" yaml:"overdue"`
	DueSoon        int             `json:"due_soon" yaml:"due_soon"`
	Blocked        int             `json:"blocked" yaml:"blocked"`
	ByPriority     []PriorityStats `json:"by_priority" yaml:"by_priority"`
	ByProject      []ProjectStats  `json:"by_project" yaml:"by_project"`
	WithoutProject int             `json:"without_project" yaml:"without_project"`
	Activity       []DayActivity   `json:"activity" yaml:"activity"` // oldest first
}

// InfoResponse describes where the task list is stored
type InfoResponse struct {
	Home         string `json:"home" yaml:"home"`
	Backend      string `json:"backend" yaml:"backend"`
	Location     string `json:"location" yaml:"location"`
	Exists       bool   `json:"exists" yaml:"exists"`
	SizeBytes    int64  `json:"size_bytes" yaml:"size_bytes"`
	Tasks        int    `json:"tasks" yaml:"tasks"`
	ConfigSource string `json:"config_source" yaml:"config_source"`
}

// JournalEntry is one committed transaction
type JournalEntry struct {
	ID          string   `json:"id" yaml:"id"`
	Timestamp   string   `json:"ts" yaml:"ts"`
	Operation   string   `json:"op" yaml:"op"`
	TasksBefore int      `json:"tasks_before" yaml:"tasks_before"`
	TasksAfter  int      `json:"tasks_after" yaml:"tasks_after"`
	ElapsedMs   int64    `json:"elapsed_ms" yaml:"elapsed_ms"`
	Notes       []string `json:"notes,omitempty" yaml:"notes,omitempty"`
}
