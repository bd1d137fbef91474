package persistence

import (
	"fmt"

	"github.com/YoshitsuguKoike/deetodo/internal/domain/model"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model/task"
)

// TaskRecord is the storage shape of a task shared by the file, sqlite and
// neo4j stores. Dates are YYYY-MM-DD strings; an empty ID marks a legacy
// record written before tasks carried stable IDs.
type TaskRecord struct {
	ID          string   `json:"id,omitempty" yaml:"id,omitempty"`
	Text        string   `json:"text" yaml:"text"`
	Completed   bool     `json:"completed" yaml:"completed"`
	CompletedAt string   `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	Priority    string   `json:"priority" yaml:"priority"`
	Tags        []string `json:"tags" yaml:"tags"`
	Project     string   `json:"project,omitempty" yaml:"project,omitempty"`
	DueDate     string   `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	Recurrence  string   `json:"recurrence,omitempty" yaml:"recurrence,omitempty"`
	DependsOn   []string `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	ParentID    string   `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	CreatedAt   string   `json:"created_at" yaml:"created_at"`
}

// ToRecord converts a task to its storage record
func ToRecord(t *task.Task) TaskRecord {
	s := t.Snapshot()
	deps := make([]string, 0, len(s.DependsOn))
	for _, id := range s.DependsOn {
		deps = append(deps, id.String())
	}
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	return TaskRecord{
		ID:          s.ID.String(),
		Text:        s.Text,
		Completed:   s.Completed,
		CompletedAt: s.CompletedAt.String(),
		Priority:    s.Priority.String(),
		Tags:        tags,
		Project:     s.Project,
		DueDate:     s.DueDate.String(),
		Recurrence:  s.Recurrence.String(),
		DependsOn:   deps,
		ParentID:    s.ParentID.String(),
		CreatedAt:   s.CreatedAt.String(),
	}
}

// ToRecords converts tasks in order
func ToRecords(tasks []*task.Task) []TaskRecord {
	records := make([]TaskRecord, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, ToRecord(t))
	}
	return records
}

// ToTask rebuilds a task from its record
func (r TaskRecord) ToTask() (*task.Task, error) {
	s := task.Snapshot{
		ID:        optionalID(r.ID),
		Text:      r.Text,
		Completed: r.Completed,
		Project:   r.Project,
		ParentID:  optionalID(r.ParentID),
		Tags:      r.Tags,
	}

	var err error
	if r.Priority != "" {
		if s.Priority, err = model.ParsePriority(r.Priority); err != nil {
			return nil, err
		}
	}
	if r.Recurrence != "" {
		if s.Recurrence, err = model.ParseRecurrence(r.Recurrence); err != nil {
			return nil, err
		}
	}
	if s.DueDate, err = optionalDate(r.DueDate); err != nil {
		return nil, fmt.Errorf("due_date: %w", err)
	}
	if s.CompletedAt, err = optionalDate(r.CompletedAt); err != nil {
		return nil, fmt.Errorf("completed_at: %w", err)
	}
	if s.CreatedAt, err = optionalDate(r.CreatedAt); err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}

	for _, dep := range r.DependsOn {
		id, err := model.NewTaskIDFromString(dep)
		if err != nil {
			return nil, fmt.Errorf("depends_on: %w", err)
		}
		s.DependsOn = append(s.DependsOn, id)
	}

	return task.Reconstruct(s), nil
}

// FromRecords rebuilds tasks in order. The error names the failing position.
func FromRecords(records []TaskRecord) ([]*task.Task, error) {
	tasks := make([]*task.Task, 0, len(records))
	for i, r := range records {
		t, err := r.ToTask()
		if err != nil {
			return nil, fmt.Errorf("task #%d: %w", i+1, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// BackfillIDs assigns IDs to legacy tasks and returns how many were assigned
func BackfillIDs(tasks []*task.Task) int {
	n := 0
	for _, t := range tasks {
		if t.AssignID() {
			n++
		}
	}
	return n
}

func optionalID(s string) model.TaskID {
	id, err := model.NewTaskIDFromString(s)
	if err != nil {
		return model.TaskID{}
	}
	return id
}

func optionalDate(s string) (model.Date, error) {
	if s == "" {
		return model.Date{}, nil
	}
	return model.ParseDate(s)
}
