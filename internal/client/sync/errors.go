package sync

import (
	"errors"
	"fmt"
)

// Sync errors
var (
	// ErrUnsupportedServer indicates a server older than the minimal supported version
	ErrUnsupportedServer = errors.New("unsupported server version")

	// ErrServerNotReady indicates that the server status is not UP
	ErrServerNotReady = errors.New("server is not ready")

	// ErrGlobalNotSynced indicates a module update attempted before any global sync
	ErrGlobalNotSynced = errors.New("global storage is not synchronized")

	// ErrMissingKey indicates a downloaded record without a key
	ErrMissingKey = errors.New("record without key")
)

// requireKey rejects records whose key is empty
func requireKey(kind, key string) error {
	if key == "" {
		return fmt.Errorf("%w: %s", ErrMissingKey, kind)
	}
	return nil
}
