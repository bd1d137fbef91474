package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/YoshitsuguKoike/deetodo/internal/domain/model/task"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/repository"
	"github.com/YoshitsuguKoike/deetodo/internal/infrastructure/persistence"
)

// dbExecutor is satisfied by both *sql.DB and *sql.Tx
type dbExecutor interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// TaskRepositoryImpl implements repository.TaskRepository with SQLite.
// Tags and dependency edges live in child tables keyed by task id.
type TaskRepositoryImpl struct {
	db       *sql.DB
	location string
}

var _ repository.TaskRepository = (*TaskRepositoryImpl)(nil)

// NewTaskRepository wraps an already migrated database
func NewTaskRepository(db *sql.DB, location string) *TaskRepositoryImpl {
	return &TaskRepositoryImpl{db: db, location: location}
}

// Open opens (creating if needed) the database file at path and migrates it
func Open(path string) (*TaskRepositoryImpl, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database failed: %w", err)
	}

	if err := NewMigrator(db).Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s failed: %w", path, err)
	}

	return NewTaskRepository(db, path), nil
}

// Location returns the database path
func (r *TaskRepositoryImpl) Location() string {
	return r.location
}

// Close releases the database handle
func (r *TaskRepositoryImpl) Close() error {
	return r.db.Close()
}

// Load reads all tasks in list order
func (r *TaskRepositoryImpl) Load(ctx context.Context) ([]*task.Task, error) {
	records, index, err := r.loadTasks(ctx, r.db)
	if err != nil {
		return nil, err
	}

	if err := r.loadChildren(ctx, r.db,
		"SELECT task_id, tag FROM task_tags ORDER BY task_id, position",
		func(id, value string) {
			if i, ok := index[id]; ok {
				records[i].Tags = append(records[i].Tags, value)
			}
		}); err != nil {
		return nil, fmt.Errorf("query tags failed: %w", err)
	}

	if err := r.loadChildren(ctx, r.db,
		"SELECT task_id, depends_on_id FROM task_dependencies ORDER BY task_id, position",
		func(id, value string) {
			if i, ok := index[id]; ok {
				records[i].DependsOn = append(records[i].DependsOn, value)
			}
		}); err != nil {
		return nil, fmt.Errorf("query dependencies failed: %w", err)
	}

	return persistence.FromRecords(records)
}

func (r *TaskRepositoryImpl) loadTasks(ctx context.Context, db dbExecutor) ([]persistence.TaskRecord, map[string]int, error) {
	query := `
		SELECT id, text, completed, completed_at, priority, project,
		       due_date, recurrence, parent_id, created_at
		FROM tasks
		ORDER BY position
	`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("query tasks failed: %w", err)
	}
	defer rows.Close()

	var records []persistence.TaskRecord
	index := make(map[string]int)
	for rows.Next() {
		var rec persistence.TaskRecord
		var completedAt, project, due, recur, parent sql.NullString
		if err := rows.Scan(
			&rec.ID, &rec.Text, &rec.Completed, &completedAt, &rec.Priority, &project,
			&due, &recur, &parent, &rec.CreatedAt,
		); err != nil {
			return nil, nil, fmt.Errorf("scan task failed: %w", err)
		}
		rec.CompletedAt = completedAt.String
		rec.Project = project.String
		rec.DueDate = due.String
		rec.Recurrence = recur.String
		rec.ParentID = parent.String

		index[rec.ID] = len(records)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate tasks failed: %w", err)
	}
	return records, index, nil
}

func (r *TaskRepositoryImpl) loadChildren(ctx context.Context, db dbExecutor, query string, add func(id, value string)) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id, value string
		if err := rows.Scan(&id, &value); err != nil {
			return err
		}
		add(id, value)
	}
	return rows.Err()
}

// Save replaces every stored row in a single transaction
func (r *TaskRepositoryImpl) Save(ctx context.Context, tasks []*task.Task) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction failed: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"task_dependencies", "task_tags", "tasks"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s failed: %w", table, err)
		}
	}

	for pos, t := range tasks {
		if err := r.insertTask(ctx, tx, pos, persistence.ToRecord(t)); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}
	return nil
}

func (r *TaskRepositoryImpl) insertTask(ctx context.Context, db dbExecutor, pos int, rec persistence.TaskRecord) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO tasks (
			id, position, text, completed, completed_at, priority,
			project, due_date, recurrence, parent_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID, pos, rec.Text, rec.Completed, nullString(rec.CompletedAt), rec.Priority,
		nullString(rec.Project), nullString(rec.DueDate), nullString(rec.Recurrence),
		nullString(rec.ParentID), rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task %s failed: %w", rec.ID, err)
	}

	for i, tag := range rec.Tags {
		if _, err := db.ExecContext(ctx,
			"INSERT INTO task_tags (task_id, position, tag) VALUES (?, ?, ?)",
			rec.ID, i, tag,
		); err != nil {
			return fmt.Errorf("insert tag %q failed: %w", tag, err)
		}
	}

	for i, dep := range rec.DependsOn {
		if _, err := db.ExecContext(ctx,
			"INSERT INTO task_dependencies (task_id, position, depends_on_id) VALUES (?, ?, ?)",
			rec.ID, i, dep,
		); err != nil {
			return fmt.Errorf("insert dependency %s failed: %w", dep, err)
		}
	}
	return nil
}

// nullString maps empty strings to NULL
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
