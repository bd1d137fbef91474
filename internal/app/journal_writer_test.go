package app

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalWriter_AppendAndRecent(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := NewJournalWriterFs(fs, "/home/journal.ndjson")
	ctx := context.Background()

	started := time.Now()
	for _, op := range []string{"add", "done", "remove"} {
		require.NoError(t, w.Append(ctx, NewJournalRecord(op, 1, 2, started, nil)))
	}

	all, err := w.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "remove", all[0].Operation)
	assert.Equal(t, "add", all[2].Operation)
	assert.NotNil(t, all[0].Notes)

	two, err := w.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestJournalWriter_SkipsMalformedLines(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/j.ndjson", []byte("not json\n\n"), 0o644))
	w := NewJournalWriterFs(fs, "/j.ndjson")
	ctx := context.Background()

	require.NoError(t, w.Append(ctx, NewJournalRecord("edit", 3, 3, time.Now(), []string{"text"})))

	records, err := w.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"text"}, records[0].Notes)
}

func TestJournalWriter_MissingFile(t *testing.T) {
	w := NewJournalWriterFs(afero.NewMemMapFs(), "/none.ndjson")
	records, err := w.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestNewJournalRecord(t *testing.T) {
	rec := NewJournalRecord("", 0, 1, time.Now(), nil)
	assert.Equal(t, "unknown", rec.Operation)
	assert.Len(t, rec.ID, 26)
	assert.NotEmpty(t, rec.Timestamp)

	a := NewJournalID(time.Now())
	b := NewJournalID(time.Now())
	assert.Less(t, a, b)
}
