package sqlite

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
)

//go:embed schema.sql
var schemaSQL string

// migration is one numbered schema step
type migration struct {
	version int
	name    string
	script  string
}

// migrations are applied in order; versions must increase
var migrations = []migration{
	{version: 1, name: "initial task schema", script: schemaSQL},
}

// SchemaVersion is the newest version in migrations
var SchemaVersion = migrations[len(migrations)-1].version

const bookkeepingDDL = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	description TEXT
)`

// Migrator brings a task database up to SchemaVersion
type Migrator struct {
	db *sql.DB
}

func NewMigrator(db *sql.DB) *Migrator {
	return &Migrator{db: db}
}

// Migrate runs every migration newer than the recorded version.
// Each step commits on its own so a failure leaves earlier steps in place.
func (m *Migrator) Migrate() error {
	if _, err := m.db.Exec(bookkeepingDDL); err != nil {
		return fmt.Errorf("prepare schema_migrations: %w", err)
	}
	current, err := m.Version()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for _, step := range migrations {
		if step.version <= current {
			continue
		}
		if err := m.apply(step); err != nil {
			return fmt.Errorf("migration %d (%s): %w", step.version, step.name, err)
		}
	}
	return nil
}

func (m *Migrator) apply(step migration) (err error) {
	tx, err := m.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for n, stmt := range splitSQLStatements(step.script) {
		if strings.Contains(stmt, "schema_migrations") {
			continue
		}
		if _, err = tx.Exec(stmt); err != nil {
			return fmt.Errorf("statement %d: %w", n+1, err)
		}
	}
	if _, err = tx.Exec(
		"INSERT INTO schema_migrations (version, description) VALUES (?, ?)",
		step.version, step.name,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// Version reports the highest applied migration, 0 for a fresh database
func (m *Migrator) Version() (int, error) {
	var v sql.NullInt64
	err := m.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&v)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !v.Valid) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return int(v.Int64), nil
}

// splitSQLStatements drops "--" comment lines and splits on semicolons
func splitSQLStatements(script string) []string {
	var b strings.Builder
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	var out []string
	for _, stmt := range strings.Split(b.String(), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
