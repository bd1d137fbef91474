//go:build windows
// +build windows

package fs

import (
	"os"
)

// flockTryExclusive always succeeds on Windows; only the in-process
// mutex in FileLocker applies there.
// TODO: Implement Windows file locking using LockFileEx
func flockTryExclusive(f *os.File) (bool, error) {
	return true, nil
}

// flockUnlock releases the lock on the file
func flockUnlock(f *os.File) error {
	return nil
}
