package repository

import (
	"context"

	"github.com/YoshitsuguKoike/deetodo/internal/domain/model/task"
)

// TaskRepository loads and saves the whole ordered task list.
// Implementations never persist partial state: Save replaces everything.
type TaskRepository interface {
	// Load returns every task in list order. Legacy records without an ID
	// are given one and persisted before Load returns.
	Load(ctx context.Context) ([]*task.Task, error)

	// Save replaces the stored list with tasks
	Save(ctx context.Context, tasks []*task.Task) error

	// Location describes where the list lives (file path, DSN, URI)
	Location() string
}

// Backend names a TaskRepository implementation
type Backend string

const (
	BackendJSON   Backend = "json"
	BackendYAML   Backend = "yaml"
	BackendSQLite Backend = "sqlite"
	BackendNeo4j  Backend = "neo4j"
	BackendMemory Backend = "memory"
)

// IsValid reports whether b names a known backend
func (b Backend) IsValid() bool {
	switch b {
	case BackendJSON, BackendYAML, BackendSQLite, BackendNeo4j, BackendMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation
func (b Backend) String() string {
	return string(b)
}
