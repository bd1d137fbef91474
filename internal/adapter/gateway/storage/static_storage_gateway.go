package storage

import (
	"context"

	"github.com/YoshitsuguKoike/deetodo/internal/application/port/output"
)

// StaticStorageGateway describes stores that have no local file
// (memory, neo4j). It always reports the store as present.
type StaticStorageGateway struct {
	backend  string
	location string
}

var _ output.StorageGateway = (*StaticStorageGateway)(nil)

// NewStaticStorageGateway creates a gateway with a fixed description
func NewStaticStorageGateway(backend, location string) *StaticStorageGateway {
	return &StaticStorageGateway{backend: backend, location: location}
}

// Describe returns the fixed description
func (g *StaticStorageGateway) Describe(context.Context) (*output.StorageDescription, error) {
	return &output.StorageDescription{
		Backend:  g.backend,
		Location: g.location,
		Exists:   true,
	}, nil
}
