package fs

import (
	"context"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLocker_Exclusive(t *testing.T) {
	l := NewFileLocker(filepath.Join(t.TempDir(), "sub", "tasks.lock"))
	ctx := context.Background()

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(ctx)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			assert.NoError(t, unlock())
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestFileLocker_UnlockIsIdempotent(t *testing.T) {
	l := NewFileLocker(filepath.Join(t.TempDir(), "tasks.lock"))
	unlock, err := l.Lock(context.Background())
	require.NoError(t, err)
	require.NoError(t, unlock())
	assert.NoError(t, unlock())

	// lock can be taken again
	unlock, err = l.Lock(context.Background())
	require.NoError(t, err)
	assert.NoError(t, unlock())
}

func TestFileLocker_ContextCancelled(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("flock is advisory only on unix")
	}
	path := filepath.Join(t.TempDir(), "tasks.lock")
	holder := NewFileLocker(path)
	unlock, err := holder.Lock(context.Background())
	require.NoError(t, err)
	defer unlock()

	// a second locker has its own open file, like another process
	other := NewFileLocker(path)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = other.Lock(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
