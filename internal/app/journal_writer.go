package app

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/YoshitsuguKoike/deetodo/internal/domain/repository"
)

// JournalWriter appends one JSON line per committed transaction.
// It implements repository.JournalRepository.
type JournalWriter struct {
	fs   afero.Fs
	path string
}

// NewJournalWriter creates a journal at path on the OS filesystem
func NewJournalWriter(path string) *JournalWriter {
	return NewJournalWriterFs(afero.NewOsFs(), path)
}

// NewJournalWriterFs creates a journal at path on fs
func NewJournalWriterFs(fs afero.Fs, path string) *JournalWriter {
	return &JournalWriter{fs: fs, path: path}
}

// Path returns the journal file path
func (w *JournalWriter) Path() string {
	return w.path
}

// Append writes record as a single line and syncs the file
func (w *JournalWriter) Append(ctx context.Context, record *repository.JournalRecord) error {
	if record == nil {
		return errors.New("record cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if record.Notes == nil {
		record.Notes = []string{}
	}

	b, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal journal record: %w", err)
	}

	if err := w.fs.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("create journal directory: %w", err)
	}
	f, err := w.fs.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(append(b, '\n')); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		// the line is written; durability is best effort
		GetLogger().Warn("failed to fsync journal: %v", err)
	}
	return nil
}

// Recent returns up to limit records, newest first. Malformed lines are skipped.
func (w *JournalWriter) Recent(ctx context.Context, limit int) ([]*repository.JournalRecord, error) {
	f, err := w.fs.Open(w.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var records []*repository.JournalRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec repository.JournalRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			GetLogger().Debug("skipping malformed journal line: %v", err)
			continue
		}
		records = append(records, &rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// ULIDs sort by time
	sort.SliceStable(records, func(i, j int) bool { return records[i].ID > records[j].ID })
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
