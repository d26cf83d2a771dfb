// Package lock guards a storage root against concurrent sync processes.
package lock

import (
	"errors"
	"path/filepath"
)

// FileName is the lock file created inside the storage root
const FileName = ".sync.lock"

// ErrLocked is returned when another process holds the lock
var ErrLocked = errors.New("storage is locked by another process")

// Lock is an exclusive lock on one storage root
type Lock struct {
	release func() error
	path    string
}

// Path returns the lock file path
func (l *Lock) Path() string {
	return l.path
}

// Release releases the lock. Safe to call more than once.
func (l *Lock) Release() error {
	if l.release == nil {
		return nil
	}
	release := l.release
	l.release = nil
	return release()
}

// Acquire takes an exclusive non-blocking lock on root.
// Returns ErrLocked when the lock is held elsewhere.
func Acquire(root string) (*Lock, error) {
	path := filepath.Join(root, FileName)
	release, err := acquire(path)
	if err != nil {
		return nil, err
	}
	return &Lock{path: path, release: release}, nil
}
