package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LockRetryInterval is how often a contended lock is retried
const LockRetryInterval = 25 * time.Millisecond

// FileLocker serializes transactions across processes with an advisory
// lock on a file next to the task list.
type FileLocker struct {
	path string
	// mu also serializes goroutines of one process; flock is per open file
	mu sync.Mutex
}

// NewFileLocker creates a locker on path. The file is created on first Lock.
func NewFileLocker(path string) *FileLocker {
	return &FileLocker{path: path}
}

// Path returns the lock file path
func (l *FileLocker) Path() string {
	return l.path
}

// Lock blocks until the exclusive lock is held or ctx is done
func (l *FileLocker) Lock(ctx context.Context) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	l.mu.Lock()
	for {
		ok, err := flockTryExclusive(f)
		if err != nil {
			l.mu.Unlock()
			f.Close()
			return nil, fmt.Errorf("lock %s: %w", l.path, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			l.mu.Unlock()
			f.Close()
			return nil, fmt.Errorf("lock %s: %w", l.path, ctx.Err())
		case <-time.After(LockRetryInterval):
		}
	}

	var once sync.Once
	return func() error {
		var uerr error
		once.Do(func() {
			uerr = flockUnlock(f)
			if cerr := f.Close(); uerr == nil {
				uerr = cerr
			}
			l.mu.Unlock()
		})
		return uerr
	}, nil
}
