package task

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/YoshitsuguKoike/deetodo/internal/domain/model"
)

// Collection is the ordered in-memory task list. It owns every Task it holds;
// domain services borrow it for a single call.
type Collection struct {
	tasks []*Task
	index map[string]int
}

// NewCollection builds a collection over tasks, keeping their order
func NewCollection(tasks []*Task) *Collection {
	c := &Collection{tasks: append([]*Task(nil), tasks...)}
	c.reindex()
	return c
}

func (c *Collection) reindex() {
	c.index = make(map[string]int, len(c.tasks))
	for i, t := range c.tasks {
		if !t.ID().IsZero() {
			c.index[t.ID().String()] = i
		}
	}
}

// Tasks returns the tasks in list order. The slice is a copy; the tasks are not.
func (c *Collection) Tasks() []*Task {
	return append([]*Task(nil), c.tasks...)
}

// Len returns the number of tasks
func (c *Collection) Len() int {
	return len(c.tasks)
}

// Get returns the task with id
func (c *Collection) Get(id model.TaskID) (*Task, bool) {
	i, ok := c.index[id.String()]
	if !ok {
		return nil, false
	}
	return c.tasks[i], true
}

// Position returns the 1-based display position of id, or 0 when absent
func (c *Collection) Position(id model.TaskID) int {
	i, ok := c.index[id.String()]
	if !ok {
		return 0
	}
	return i + 1
}

// At returns the task at a 1-based position
func (c *Collection) At(pos int) (*Task, error) {
	if pos < 1 || pos > len(c.tasks) {
		if len(c.tasks) == 0 {
			return nil, Errorf(ErrTaskNotFound, "#%d (the list is empty)", pos)
		}
		return nil, Errorf(ErrTaskNotFound, "#%d (valid range 1-%d)", pos, len(c.tasks))
	}
	return c.tasks[pos-1], nil
}

// minNumericPrefix is the shortest all-digit ref tried as an ID prefix once
// it misses the position range; it matches the length of TaskID.Short.
const minNumericPrefix = 8

// Resolve finds a task by 1-based position, full ID or unique ID prefix.
// An out-of-range number of at least minNumericPrefix digits is retried as
// an ID prefix.
func (c *Collection) Resolve(ref string) (*Task, error) {
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "#")
	if ref == "" {
		return nil, Errorf(ErrTaskNotFound, "empty reference")
	}
	if pos, err := strconv.Atoi(ref); err == nil {
		t, posErr := c.At(pos)
		if posErr == nil {
			return t, nil
		}
		if len(ref) < minNumericPrefix {
			return nil, posErr
		}
		if t, err := c.byID(ref); err == nil || errors.Is(err, ErrAmbiguousRef) {
			return t, err
		}
		return nil, posErr
	}
	return c.byID(ref)
}

func (c *Collection) byID(ref string) (*Task, error) {
	if i, ok := c.index[ref]; ok {
		return c.tasks[i], nil
	}

	var match *Task
	for _, t := range c.tasks {
		if !strings.HasPrefix(t.ID().String(), ref) {
			continue
		}
		if match != nil {
			return nil, Errorf(ErrAmbiguousRef, "%q matches more than one task", ref)
		}
		match = t
	}
	if match == nil {
		return nil, Errorf(ErrTaskNotFound, "%q", ref)
	}
	return match, nil
}

// ResolveAll resolves every reference or fails on the first unknown one
func (c *Collection) ResolveAll(refs []string) ([]*Task, error) {
	out := make([]*Task, 0, len(refs))
	for _, ref := range refs {
		t, err := c.Resolve(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Append adds a task at the end of the list
func (c *Collection) Append(t *Task) {
	c.tasks = append(c.tasks, t)
	if !t.ID().IsZero() {
		c.index[t.ID().String()] = len(c.tasks) - 1
	}
}

// Remove deletes the task with id and prunes the edges other tasks held
// to it. It returns the removed task and the tasks whose edges were pruned.
func (c *Collection) Remove(id model.TaskID) (*Task, []*Task, error) {
	i, ok := c.index[id.String()]
	if !ok {
		return nil, nil, Errorf(ErrTaskNotFound, "%s", id.Short())
	}
	removed := c.tasks[i]
	c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
	c.reindex()

	var pruned []*Task
	for _, t := range c.tasks {
		if t.PruneDependency(id) {
			pruned = append(pruned, t)
		}
	}
	return removed, pruned, nil
}

// Clear removes every task and returns how many were removed
func (c *Collection) Clear() int {
	n := len(c.tasks)
	c.tasks = nil
	c.reindex()
	return n
}

// Label renders a task as `#pos "text"` for messages
func (c *Collection) Label(id model.TaskID) string {
	t, ok := c.Get(id)
	if !ok {
		return id.Short()
	}
	return "#" + strconv.Itoa(c.Position(id)) + " " + strconv.Quote(t.Text())
}

// TagCount is a tag and the number of tasks carrying it
type TagCount struct {
	Name  string
	Count int
}

// Tags returns the distinct tags used by any task, sorted
func (c *Collection) Tags() []string {
	counts := c.TagCounts()
	out := make([]string, len(counts))
	for i, tc := range counts {
		out[i] = tc.Name
	}
	return out
}

// TagCounts returns every tag with its task count, sorted by name
func (c *Collection) TagCounts() []TagCount {
	counts := make(map[string]int)
	for _, t := range c.tasks {
		for _, tag := range t.tags {
			counts[tag]++
		}
	}
	out := make([]TagCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, TagCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ProjectCount summarises one project
type ProjectCount struct {
	Name    string
	Pending int
	Done    int
}

// Total returns the number of tasks in the project
func (p ProjectCount) Total() int {
	return p.Pending + p.Done
}

// Projects returns every project with pending/done counts, sorted by name
func (c *Collection) Projects() []ProjectCount {
	byName := make(map[string]*ProjectCount)
	for _, t := range c.tasks {
		if t.project == "" {
			continue
		}
		pc, ok := byName[t.project]
		if !ok {
			pc = &ProjectCount{Name: t.project}
			byName[t.project] = pc
		}
		if t.completed {
			pc.Done++
		} else {
			pc.Pending++
		}
	}
	out := make([]ProjectCount, 0, len(byName))
	for _, pc := range byName {
		out = append(out, *pc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// HasTag reports whether any task carries tag (case-insensitive)
func (c *Collection) HasTag(tag string) bool {
	for _, t := range c.tasks {
		if t.HasTag(tag) {
			return true
		}
	}
	return false
}

// HasProject reports whether any task belongs to project
func (c *Collection) HasProject(project string) bool {
	for _, t := range c.tasks {
		if t.project == project {
			return true
		}
	}
	return false
}
