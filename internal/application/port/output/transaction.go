package output

import (
	"context"

	"github.com/YoshitsuguKoike/deetodo/internal/domain/model/task"
)

// TransactionManager runs one logical mutation over the whole task list:
// lock, load, fn, save, journal, unlock.
type TransactionManager interface {
	// InTransaction executes fn on a freshly loaded collection.
	// If fn returns an error nothing is saved.
	InTransaction(ctx context.Context, operation string, fn func(c *task.Collection) error) error

	// ReadOnly loads the collection for fn and never saves it
	ReadOnly(ctx context.Context, fn func(c *task.Collection) error) error
}

// Locker provides cross-process mutual exclusion around a transaction
type Locker interface {
	// Lock blocks until the lock is held or ctx is done
	Lock(ctx context.Context) (unlock func() error, err error)
}

// NopLocker is a Locker for single-process backends (memory, tests)
type NopLocker struct{}

// Lock always succeeds immediately
func (NopLocker) Lock(context.Context) (func() error, error) {
	return func() error { return nil }, nil
}
