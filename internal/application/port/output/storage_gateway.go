package output

import "context"

// StorageGateway reports on the physical store behind the task list
type StorageGateway interface {
	// Describe returns where the list lives and how large it is
	Describe(ctx context.Context) (*StorageDescription, error)
}

// StorageDescription is what `info` prints about the store
type StorageDescription struct {
	Backend   string // json, yaml, sqlite, neo4j or memory
	Location  string // file path, database path or server URI
	Exists    bool   // false until the first save for file backends
	SizeBytes int64  // 0 when not applicable
}
