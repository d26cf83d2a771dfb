package engine

import (
	"errors"
	"fmt"
)

// Engine errors
var (
	// ErrNotStarted is returned by Analyze before Start
	ErrNotStarted = errors.New("engine is not started")

	// ErrMissingGlobalData indicates that the server was never synchronized
	ErrMissingGlobalData = errors.New("missing global data")

	// ErrMissingModuleData indicates that the requested module was never synchronized
	ErrMissingModuleData = errors.New("missing module data")

	// ErrUnknownRule indicates a rule key absent from the synchronized catalog
	ErrUnknownRule = errors.New("unknown rule")

	// ErrSyncUnavailable is returned by Update when the engine was built without a sync service
	ErrSyncUnavailable = errors.New("synchronization is not configured")
)

// MissingGlobalDataError is returned when global storage is absent.
// It matches ErrMissingGlobalData with errors.Is.
type MissingGlobalDataError struct {
	ServerID string
}

func (e *MissingGlobalDataError) Error() string {
	return fmt.Sprintf("Missing global data. Please sync server '%s'.", e.ServerID)
}

// Is reports whether target is ErrMissingGlobalData
func (e *MissingGlobalDataError) Is(target error) bool {
	return target == ErrMissingGlobalData
}

// MissingModuleDataError is returned when the storage of a module is absent.
// It matches ErrMissingModuleData with errors.Is.
type MissingModuleDataError struct {
	ModuleKey string
}

func (e *MissingModuleDataError) Error() string {
	return fmt.Sprintf("Missing module data. Please sync module '%s'.", e.ModuleKey)
}

// Is reports whether target is ErrMissingModuleData
func (e *MissingModuleDataError) Is(target error) bool {
	return target == ErrMissingModuleData
}
