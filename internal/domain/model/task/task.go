package task

import (
	"strings"

	"github.com/YoshitsuguKoike/deetodo/internal/domain/model"
)

// Params holds the user supplied fields of a new task
type Params struct {
	Text       string
	Priority   model.Priority
	Tags       []string
	Project    string
	DueDate    model.Date
	Recurrence model.Recurrence
}

// Task is the single entity tracked by deetodo.
// Fields are private; every mutation goes through a method that keeps the
// recurrence/due-date invariant intact.
type Task struct {
	id          model.TaskID
	text        string
	completed   bool
	completedAt model.Date
	priority    model.Priority
	tags        []string
	project     string
	dueDate     model.Date
	recurrence  model.Recurrence
	dependsOn   []model.TaskID
	parentID    model.TaskID
	createdAt   model.Date
}

// New creates a pending task. A due date before today is rejected.
func New(p Params, today model.Date) (*Task, error) {
	text, err := ValidateText(p.Text)
	if err != nil {
		return nil, err
	}

	priority := p.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.IsValid() {
		return nil, Errorf(ErrInvalidPriority, "%q", priority)
	}

	tags, err := ValidateTags(p.Tags)
	if err != nil {
		return nil, err
	}

	project := strings.TrimSpace(p.Project)
	if p.Project != "" {
		if project, err = ValidateProject(p.Project); err != nil {
			return nil, err
		}
	}

	if err := ValidateDueDate(p.DueDate, today, false); err != nil {
		return nil, err
	}
	if err := ValidateRecurrence(p.Recurrence, p.DueDate); err != nil {
		return nil, err
	}

	return &Task{
		id:         model.NewTaskID(),
		text:       text,
		priority:   priority,
		tags:       tags,
		project:    project,
		dueDate:    p.DueDate,
		recurrence: p.Recurrence,
		createdAt:  today,
	}, nil
}

// Snapshot is a plain copy of every task field, used by storage adapters
// and by the recurrence engine to derive a new occurrence.
type Snapshot struct {
	ID          model.TaskID
	Text        string
	Completed   bool
	CompletedAt model.Date
	Priority    model.Priority
	Tags        []string
	Project     string
	DueDate     model.Date
	Recurrence  model.Recurrence
	DependsOn   []model.TaskID
	ParentID    model.TaskID
	CreatedAt   model.Date
}

// Reconstruct rebuilds a task from stored data without re-running
// creation-time validation (stored past due dates stay valid).
func Reconstruct(s Snapshot) *Task {
	priority := s.Priority
	if !priority.IsValid() {
		priority = model.PriorityMedium
	}
	t := &Task{
		id:          s.ID,
		text:        s.Text,
		completed:   s.Completed,
		completedAt: s.CompletedAt,
		priority:    priority,
		tags:        append([]string(nil), s.Tags...),
		project:     s.Project,
		dueDate:     s.DueDate,
		recurrence:  s.Recurrence,
		dependsOn:   append([]model.TaskID(nil), s.DependsOn...),
		parentID:    s.ParentID,
		createdAt:   s.CreatedAt,
	}
	if !t.completed {
		t.completedAt = model.Date{}
	}
	return t
}

// Snapshot returns a copy of the task's fields
func (t *Task) Snapshot() Snapshot {
	return Snapshot{
		ID:          t.id,
		Text:        t.text,
		Completed:   t.completed,
		CompletedAt: t.completedAt,
		Priority:    t.priority,
		Tags:        t.Tags(),
		Project:     t.project,
		DueDate:     t.dueDate,
		Recurrence:  t.recurrence,
		DependsOn:   t.DependsOn(),
		ParentID:    t.parentID,
		CreatedAt:   t.createdAt,
	}
}

// ID returns the stable task ID
func (t *Task) ID() model.TaskID {
	return t.id
}

// AssignID gives a legacy record without an ID a fresh one.
// It reports false when the task already had an ID.
func (t *Task) AssignID() bool {
	if !t.id.IsZero() {
		return false
	}
	t.id = model.NewTaskID()
	return true
}

// Text returns the task text
func (t *Task) Text() string {
	return t.text
}

// IsCompleted reports whether the task is completed
func (t *Task) IsCompleted() bool {
	return t.completed
}

// CompletedAt returns the completion date, zero while pending
func (t *Task) CompletedAt() model.Date {
	return t.completedAt
}

// Priority returns the priority
func (t *Task) Priority() model.Priority {
	return t.priority
}

// Tags returns a copy of the tags
func (t *Task) Tags() []string {
	return append([]string(nil), t.tags...)
}

// HasTag reports whether the task carries tag, ignoring case
func (t *Task) HasTag(tag string) bool {
	for _, existing := range t.tags {
		if strings.EqualFold(existing, tag) {
			return true
		}
	}
	return false
}

// Project returns the project name, empty when unset
func (t *Task) Project() string {
	return t.project
}

// DueDate returns the due date, zero when unset
func (t *Task) DueDate() model.Date {
	return t.dueDate
}

// Recurrence returns the repeat pattern
func (t *Task) Recurrence() model.Recurrence {
	return t.recurrence
}

// DependsOn returns a copy of the dependency IDs
func (t *Task) DependsOn() []model.TaskID {
	return append([]model.TaskID(nil), t.dependsOn...)
}

// ParentID returns the ID of the task this occurrence was spawned from
func (t *Task) ParentID() model.TaskID {
	return t.parentID
}

// CreatedAt returns the creation date
func (t *Task) CreatedAt() model.Date {
	return t.createdAt
}

// IsOverdue reports whether a pending task's due date has passed
func (t *Task) IsOverdue(today model.Date) bool {
	return !t.completed && !t.dueDate.IsZero() && t.dueDate.Before(today)
}

// IsDueSoon reports whether a pending task is due within the next days
func (t *Task) IsDueSoon(today model.Date, days int) bool {
	if t.completed || t.dueDate.IsZero() {
		return false
	}
	n := today.DaysUntil(t.dueDate)
	return n >= 0 && n <= days
}

// SetText replaces the text. It reports whether anything changed.
func (t *Task) SetText(text string) (bool, error) {
	text, err := ValidateText(text)
	if err != nil {
		return false, err
	}
	if text == t.text {
		return false, nil
	}
	t.text = text
	return true, nil
}

// SetPriority replaces the priority
func (t *Task) SetPriority(p model.Priority) (bool, error) {
	if !p.IsValid() {
		return false, Errorf(ErrInvalidPriority, "%q", p)
	}
	if p == t.priority {
		return false, nil
	}
	t.priority = p
	return true, nil
}

// SetProject assigns the task to a project
func (t *Task) SetProject(name string) (bool, error) {
	name, err := ValidateProject(name)
	if err != nil {
		return false, err
	}
	if name == t.project {
		return false, nil
	}
	t.project = name
	return true, nil
}

// ClearProject removes the project
func (t *Task) ClearProject() bool {
	if t.project == "" {
		return false
	}
	t.project = ""
	return true
}

// SetDueDate replaces the due date. Past dates are allowed here so an
// overdue task can be corrected.
func (t *Task) SetDueDate(d model.Date) (bool, error) {
	if d.IsZero() {
		return t.ClearDueDate()
	}
	if d.Equal(t.dueDate) {
		return false, nil
	}
	t.dueDate = d
	return true, nil
}

// ClearDueDate removes the due date. A recurring task must keep one.
func (t *Task) ClearDueDate() (bool, error) {
	if t.dueDate.IsZero() {
		return false, nil
	}
	if t.recurrence.IsSet() {
		return false, Errorf(ErrRecurrenceRequiresDueDate, "clear the recurrence first")
	}
	t.dueDate = model.Date{}
	return true, nil
}

// SetRecurrence sets the repeat pattern; the task must already have a due date
func (t *Task) SetRecurrence(r model.Recurrence) (bool, error) {
	if !r.IsValid() {
		return false, Errorf(ErrInvalidRecurrence, "%q", r)
	}
	if !r.IsSet() {
		return t.ClearRecurrence(), nil
	}
	if err := ValidateRecurrence(r, t.dueDate); err != nil {
		return false, err
	}
	if r == t.recurrence {
		return false, nil
	}
	t.recurrence = r
	return true, nil
}

// ClearRecurrence stops the task from repeating
func (t *Task) ClearRecurrence() bool {
	if !t.recurrence.IsSet() {
		return false
	}
	t.recurrence = model.RecurrenceNone
	return true
}

// AddTags validates tags and appends the ones not already present.
// It returns the tags actually added.
func (t *Task) AddTags(tags []string) ([]string, error) {
	cleaned, err := ValidateTags(tags)
	if err != nil {
		return nil, err
	}
	var added []string
	for _, tag := range cleaned {
		if t.HasTag(tag) {
			continue
		}
		t.tags = append(t.tags, tag)
		added = append(added, tag)
	}
	return added, nil
}

// RemoveTags removes tags (case-insensitive). Every tag must be present;
// nothing is removed otherwise.
func (t *Task) RemoveTags(tags []string) ([]string, error) {
	for _, tag := range tags {
		if !t.HasTag(tag) {
			return nil, Errorf(ErrTagNotOnTask, "%q", tag)
		}
	}
	var removed []string
	kept := t.tags[:0]
	for _, existing := range t.tags {
		drop := false
		for _, tag := range tags {
			if strings.EqualFold(existing, tag) {
				drop = true
				break
			}
		}
		if drop {
			removed = append(removed, existing)
			continue
		}
		kept = append(kept, existing)
	}
	t.tags = kept
	return removed, nil
}

// ClearTags removes every tag and returns the old ones
func (t *Task) ClearTags() []string {
	old := t.tags
	t.tags = nil
	return old
}

// HasDependency reports whether id is already an edge of this task
func (t *Task) HasDependency(id model.TaskID) bool {
	for _, dep := range t.dependsOn {
		if dep.Equals(id) {
			return true
		}
	}
	return false
}

// AddDependencies appends edges. Callers validate the batch against the
// whole collection first (see service.DependencyGraph.ValidateNewEdges).
func (t *Task) AddDependencies(ids []model.TaskID) {
	for _, id := range ids {
		if id.Equals(t.id) || t.HasDependency(id) {
			continue
		}
		t.dependsOn = append(t.dependsOn, id)
	}
}

// RemoveDependencies removes edges. Removing an edge that does not exist
// is an error and leaves the task untouched.
func (t *Task) RemoveDependencies(ids []model.TaskID) error {
	for _, id := range ids {
		if !t.HasDependency(id) {
			return Errorf(ErrDependencyNotFound, "%s does not depend on %s", t.id.Short(), id.Short())
		}
	}
	t.dropDependencies(ids)
	return nil
}

// PruneDependency drops an edge if present, used when the target task is removed
func (t *Task) PruneDependency(id model.TaskID) bool {
	if !t.HasDependency(id) {
		return false
	}
	t.dropDependencies([]model.TaskID{id})
	return true
}

// ClearDependencies removes every edge and returns the old ones
func (t *Task) ClearDependencies() []model.TaskID {
	old := t.dependsOn
	t.dependsOn = nil
	return old
}

func (t *Task) dropDependencies(ids []model.TaskID) {
	kept := t.dependsOn[:0]
	for _, dep := range t.dependsOn {
		drop := false
		for _, id := range ids {
			if dep.Equals(id) {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, dep)
		}
	}
	t.dependsOn = kept
}

// Complete transitions Pending -> Completed.
// Blocking checks belong to the lifecycle service, not to the entity.
func (t *Task) Complete(on model.Date) error {
	if t.completed {
		return ErrAlreadyCompleted
	}
	t.completed = true
	t.completedAt = on
	return nil
}

// Reopen transitions Completed -> Pending
func (t *Task) Reopen() error {
	if !t.completed {
		return ErrAlreadyPending
	}
	t.completed = false
	t.completedAt = model.Date{}
	return nil
}
