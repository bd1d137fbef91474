package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/YoshitsuguKoike/deetodo/internal/app"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model/task"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/repository"
	"github.com/YoshitsuguKoike/deetodo/internal/infra/fs"
	"github.com/YoshitsuguKoike/deetodo/internal/infrastructure/persistence"
)

// Format is the on-disk encoding of a task file
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from the file extension, defaulting to JSON
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// TaskFileRepository stores the task list as a single JSON or YAML document
type TaskFileRepository struct {
	fs     afero.Fs
	path   string
	format Format
}

// NewTaskFileRepository creates a repository on the OS filesystem
func NewTaskFileRepository(path string, format Format) *TaskFileRepository {
	return NewTaskFileRepositoryFs(afero.NewOsFs(), path, format)
}

// NewTaskFileRepositoryFs creates a repository on an arbitrary filesystem.
// An empty format is derived from the path.
func NewTaskFileRepositoryFs(fsys afero.Fs, path string, format Format) *TaskFileRepository {
	if format == "" {
		format = FormatFromPath(path)
	}
	return &TaskFileRepository{fs: fsys, path: path, format: format}
}

var _ repository.TaskRepository = (*TaskFileRepository)(nil)

// Location returns the file path
func (r *TaskFileRepository) Location() string {
	return r.path
}

// Format returns the encoding in use
func (r *TaskFileRepository) Format() Format {
	return r.format
}

// Load reads the task list. A missing file is an empty list.
func (r *TaskFileRepository) Load(ctx context.Context) ([]*task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*task.Task{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", r.path, err)
	}

	records, err := r.decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s (file may be corrupted): %w", r.path, err)
	}

	tasks, err := persistence.FromRecords(records)
	if err != nil {
		return nil, fmt.Errorf("invalid task in %s: %w", r.path, err)
	}

	if n := persistence.BackfillIDs(tasks); n > 0 {
		app.GetLogger().Info("assigned IDs to %d legacy task(s) in %s", n, r.path)
		if err := r.Save(ctx, tasks); err != nil {
			return nil, fmt.Errorf("failed to persist backfilled IDs: %w", err)
		}
	}

	return tasks, nil
}

// Save writes the whole list atomically
func (r *TaskFileRepository) Save(ctx context.Context, tasks []*task.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := r.encode(persistence.ToRecords(tasks))
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}

	if err := fs.WriteFileAtomic(r.fs, r.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", r.path, err)
	}
	return nil
}

func (r *TaskFileRepository) decode(data []byte) ([]persistence.TaskRecord, error) {
	var records []persistence.TaskRecord
	if len(bytes.TrimSpace(data)) == 0 {
		return records, nil
	}

	switch r.format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (r *TaskFileRepository) encode(records []persistence.TaskRecord) ([]byte, error) {
	switch r.format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}
