package repository_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/YoshitsuguKoike/deetodo/internal/domain/repository"
)

// MockJournalRepository is a mock implementation of JournalRepository for testing
type MockJournalRepository struct {
	mu      sync.RWMutex
	records []*repository.JournalRecord
}

// NewMockJournalRepository creates a new mock journal repository
func NewMockJournalRepository() *MockJournalRepository {
	return &MockJournalRepository{
		records: make([]*repository.JournalRecord, 0),
	}
}

// Append adds a new record to the journal
func (m *MockJournalRepository) Append(ctx context.Context, record *repository.JournalRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if record == nil {
		return errors.New("record cannot be nil")
	}

	recordCopy := *record
	recordCopy.Notes = append([]string(nil), record.Notes...)
	m.records = append(m.records, &recordCopy)
	return nil
}

// Recent returns up to limit records, newest first
func (m *MockJournalRepository) Recent(ctx context.Context, limit int) ([]*repository.JournalRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.records)
	if limit > 0 && limit < n {
		n = limit
	}
	result := make([]*repository.JournalRecord, 0, n)
	for i := len(m.records) - 1; i >= 0 && len(result) < n; i-- {
		recordCopy := *m.records[i]
		result = append(result, &recordCopy)
	}
	return result, nil
}

var _ repository.JournalRepository = (*MockJournalRepository)(nil)

func TestJournalRepository_Append(t *testing.T) {
	repo := NewMockJournalRepository()
	ctx := context.Background()

	record := &repository.JournalRecord{
		ID:          "01J0000000000000000000000A",
		Timestamp:   "2025-01-01T00:00:00.000000000Z",
		Operation:   "add",
		TasksBefore: 0,
		TasksAfter:  1,
		ElapsedMs:   3,
		Notes:       []string{},
	}

	if err := repo.Append(ctx, record); err != nil {
		t.Fatalf("Failed to append record: %v", err)
	}

	records, err := repo.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Failed to load records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].Operation != "add" {
		t.Errorf("Expected operation 'add', got '%s'", records[0].Operation)
	}
}

func TestJournalRepository_AppendNilRecord(t *testing.T) {
	repo := NewMockJournalRepository()

	if err := repo.Append(context.Background(), nil); err == nil {
		t.Error("Expected error when appending nil record")
	}
}

func TestJournalRepository_RecentNewestFirst(t *testing.T) {
	repo := NewMockJournalRepository()
	ctx := context.Background()

	for _, op := range []string{"add", "edit", "done"} {
		if err := repo.Append(ctx, &repository.JournalRecord{Operation: op}); err != nil {
			t.Fatalf("Failed to append record: %v", err)
		}
	}

	records, err := repo.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Failed to load records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Operation != "done" || records[1].Operation != "edit" {
		t.Errorf("Expected [done edit], got [%s %s]", records[0].Operation, records[1].Operation)
	}
}

func TestJournalRecord_JSONFields(t *testing.T) {
	record := repository.JournalRecord{
		ID:          "01J0000000000000000000000A",
		Timestamp:   "2025-01-01T00:00:00Z",
		Operation:   "remove",
		TasksBefore: 3,
		TasksAfter:  2,
		ElapsedMs:   7,
		Notes:       []string{},
	}

	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("Failed to marshal record: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Failed to unmarshal record: %v", err)
	}
	for _, key := range []string{"id", "ts", "op", "tasks_before", "tasks_after", "elapsed_ms", "notes"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("Expected key %q in %s", key, data)
		}
	}
}
