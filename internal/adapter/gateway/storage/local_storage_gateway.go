package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/YoshitsuguKoike/deetodo/internal/application/port/output"
)

// LocalStorageGateway describes a task list kept in a single local file
// (json, yaml and sqlite backends)
type LocalStorageGateway struct {
	fs       afero.Fs
	backend  string
	location string
}

var _ output.StorageGateway = (*LocalStorageGateway)(nil)

// NewLocalStorageGateway creates a gateway on the OS filesystem
func NewLocalStorageGateway(backend, location string) *LocalStorageGateway {
	return NewLocalStorageGatewayFs(afero.NewOsFs(), backend, location)
}

// NewLocalStorageGatewayFs creates a gateway on an arbitrary filesystem
func NewLocalStorageGatewayFs(fsys afero.Fs, backend, location string) *LocalStorageGateway {
	return &LocalStorageGateway{fs: fsys, backend: backend, location: location}
}

// Describe stats the file. A missing file is reported, not returned as an error.
func (g *LocalStorageGateway) Describe(ctx context.Context) (*output.StorageDescription, error) {
	desc := &output.StorageDescription{Backend: g.backend, Location: g.location}

	info, err := g.fs.Stat(g.location)
	if err != nil {
		if os.IsNotExist(err) {
			return desc, nil
		}
		return nil, fmt.Errorf("stat %s: %w", g.location, err)
	}
	desc.Exists = true
	desc.SizeBytes = info.Size()
	return desc, nil
}
