package app

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/YoshitsuguKoike/deetodo/internal/domain/repository"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewJournalID returns a ULID for a journal record committed at t.
// IDs generated within the same millisecond stay ordered.
func NewJournalID(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// NewJournalRecord builds a normalized record for a committed transaction
func NewJournalRecord(op string, before, after int, started time.Time, notes []string) *repository.JournalRecord {
	now := time.Now().UTC()
	if notes == nil {
		notes = []string{}
	}
	if op == "" {
		op = "unknown"
	}
	return &repository.JournalRecord{
		ID:          NewJournalID(now),
		Timestamp:   now.Format(time.RFC3339Nano),
		Operation:   op,
		TasksBefore: before,
		TasksAfter:  after,
		ElapsedMs:   now.Sub(started).Milliseconds(),
		Notes:       notes,
	}
}
