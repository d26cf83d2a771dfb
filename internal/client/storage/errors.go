package storage

import "errors"

// Common client storage errors
var (
	// ErrNotFound indicates that nothing is stored under the path
	ErrNotFound = errors.New("not found in storage")

	// ErrCorruptData indicates that stored bytes do not decode to the expected snapshot
	ErrCorruptData = errors.New("corrupt data in storage")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
