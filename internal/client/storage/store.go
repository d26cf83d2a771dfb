package storage

import "context"

//go:generate moq -out store_mock.go . Store

// Store is the lowest storage layer: it moves opaque bytes in and out of named relative paths.
// Implementations must publish writes atomically: a concurrent reader sees either the previous
// complete value or the new one, never a partial write.
type Store interface {
	// Write replaces the value under path as a whole
	Write(ctx context.Context, path string, data []byte) error

	// Read returns the value under path.
	// Returns ErrNotFound if nothing is stored there
	Read(ctx context.Context, path string) ([]byte, error)

	// Exists reports whether a value is stored under path
	Exists(ctx context.Context, path string) (bool, error)

	// Close releases the underlying resources
	Close() error
}
