package service

import (
	"strconv"
	"strings"

	"github.com/YoshitsuguKoike/deetodo/internal/domain/model"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model/task"
)

// DependencyGraph answers ordering and blocking questions over a task
// collection. Edges point from a task to the tasks it depends on.
// A graph borrows its collection for one operation and must not be kept.
type DependencyGraph struct {
	tasks *task.Collection
}

// NewDependencyGraph creates a graph view over c
func NewDependencyGraph(c *task.Collection) *DependencyGraph {
	return &DependencyGraph{tasks: c}
}

// IsBlocked reports whether any dependency of t resolves to a pending task.
// Edges to tasks that no longer exist never block.
func (g *DependencyGraph) IsBlocked(t *task.Task) bool {
	for _, id := range t.DependsOn() {
		if dep, ok := g.tasks.Get(id); ok && !dep.IsCompleted() {
			return true
		}
	}
	return false
}

// BlockingDeps returns the pending dependencies of t in edge order
func (g *DependencyGraph) BlockingDeps(t *task.Task) []model.TaskID {
	var blocking []model.TaskID
	for _, id := range t.DependsOn() {
		if dep, ok := g.tasks.Get(id); ok && !dep.IsCompleted() {
			blocking = append(blocking, id)
		}
	}
	return blocking
}

// Dependents returns the tasks that depend on id, in list order
func (g *DependencyGraph) Dependents(id model.TaskID) []*task.Task {
	var out []*task.Task
	for _, t := range g.tasks.Tasks() {
		if t.HasDependency(id) {
			out = append(out, t)
		}
	}
	return out
}

// WouldCreateCycle reports whether adding the edge taskID -> candidateID
// closes a cycle, i.e. whether taskID is already reachable from candidateID.
// The walk uses an explicit stack so chain depth is not bound by the call stack.
func (g *DependencyGraph) WouldCreateCycle(taskID, candidateID model.TaskID) bool {
	return g.findPath(candidateID, taskID) != nil
}

// CyclePath returns the cycle the edge taskID -> candidateID would close,
// starting and ending at taskID, or nil when there is none.
func (g *DependencyGraph) CyclePath(taskID, candidateID model.TaskID) []model.TaskID {
	path := g.findPath(candidateID, taskID)
	if path == nil {
		return nil
	}
	return append([]model.TaskID{taskID}, path...)
}

// findPath runs an iterative DFS from start following dependency edges and
// returns the path start..target, or nil when target is unreachable.
func (g *DependencyGraph) findPath(start, target model.TaskID) []model.TaskID {
	parent := map[string]model.TaskID{}
	visited := map[string]bool{}
	stack := []model.TaskID{start}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if cur.Equals(target) {
			path := []model.TaskID{cur}
			for !cur.Equals(start) {
				cur = parent[cur.String()]
				path = append(path, cur)
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path
		}
		if visited[cur.String()] {
			continue
		}
		visited[cur.String()] = true

		node, ok := g.tasks.Get(cur)
		if !ok {
			continue
		}
		for _, next := range node.DependsOn() {
			if visited[next.String()] {
				continue
			}
			if _, seen := parent[next.String()]; !seen {
				parent[next.String()] = cur
			}
			stack = append(stack, next)
		}
	}
	return nil
}

// ValidateNewEdges checks every candidate edge taskID -> candidate before any
// is written. Per candidate the checks run in this order: self dependency,
// unknown task, duplicate (existing edge or repeated in the batch), cycle.
// taskID may belong to a task that is not in the collection yet.
func (g *DependencyGraph) ValidateNewEdges(taskID model.TaskID, candidates []model.TaskID) error {
	var existing []model.TaskID
	if t, ok := g.tasks.Get(taskID); ok {
		existing = t.DependsOn()
	}
	seen := make(map[string]bool, len(existing)+len(candidates))
	for _, id := range existing {
		seen[id.String()] = true
	}

	for _, cand := range candidates {
		if cand.Equals(taskID) {
			return task.Errorf(task.ErrSelfDependency, "%s", g.label(taskID))
		}
		if _, ok := g.tasks.Get(cand); !ok {
			return task.Errorf(task.ErrTaskNotFound, "dependency %s", cand.Short())
		}
		if seen[cand.String()] {
			return task.Errorf(task.ErrDuplicateDependency, "%s already depends on %s", g.label(taskID), g.label(cand))
		}
		if path := g.CyclePath(taskID, cand); path != nil {
			return task.Errorf(task.ErrDependencyCycle, "%s", g.formatPath(path))
		}
		seen[cand.String()] = true
	}
	return nil
}

// ValidateEdgeRemovals checks that every id is a current edge of t
func (g *DependencyGraph) ValidateEdgeRemovals(t *task.Task, ids []model.TaskID) error {
	for _, id := range ids {
		if !t.HasDependency(id) {
			return task.Errorf(task.ErrDependencyNotFound, "%s does not depend on %s", g.label(t.ID()), g.label(id))
		}
	}
	return nil
}

// BlockedError builds the error returned when t cannot be completed
func (g *DependencyGraph) BlockedError(t *task.Task) error {
	blocking := g.BlockingDeps(t)
	if len(blocking) == 0 {
		return nil
	}
	labels := make([]string, len(blocking))
	for i, id := range blocking {
		labels[i] = g.label(id)
	}
	return &task.BlockedError{TaskID: t.ID(), Blocking: blocking, Labels: labels}
}

func (g *DependencyGraph) label(id model.TaskID) string {
	return g.tasks.Label(id)
}

func (g *DependencyGraph) formatPath(path []model.TaskID) string {
	parts := make([]string, len(path))
	for i, id := range path {
		if pos := g.tasks.Position(id); pos > 0 {
			parts[i] = "#" + strconv.Itoa(pos)
		} else {
			parts[i] = id.Short()
		}
	}
	return strings.Join(parts, " -> ")
}
