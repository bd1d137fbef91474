package repository

import "context"

// JournalRecord is one committed transaction over the task list
type JournalRecord struct {
	ID          string   `json:"id"`           // ULID, sortable by commit time
	Timestamp   string   `json:"ts"`           // UTC RFC3339Nano
	Operation   string   `json:"op"`           // command name, e.g. "done"
	TasksBefore int      `json:"tasks_before"` // list length when loaded
	TasksAfter  int      `json:"tasks_after"`  // list length when saved
	ElapsedMs   int64    `json:"elapsed_ms"`
	Notes       []string `json:"notes"`
}

// JournalRepository keeps an append-only log of committed transactions
type JournalRepository interface {
	// Append adds a new record to the journal
	Append(ctx context.Context, record *JournalRecord) error

	// Recent returns up to limit records, newest first. limit <= 0 returns all.
	Recent(ctx context.Context, limit int) ([]*JournalRecord, error)
}
