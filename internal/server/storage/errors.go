package storage

import "errors"

// Common storage errors
var (
	// ErrComponentNotFound indicates that a project or module key is unknown
	ErrComponentNotFound = errors.New("component not found")

	// ErrProfileNotFound indicates that a quality profile key is unknown
	ErrProfileNotFound = errors.New("quality profile not found")

	// ErrInvalidFixture indicates fixture data that cannot be stored
	ErrInvalidFixture = errors.New("invalid fixture")
)
