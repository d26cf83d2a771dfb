package storage

import (
	"context"

	"github.com/iudanet/rulekeeper/internal/models"
)

// MetadataStorage defines interface for sync status markers.
// Presence of a marker means the scope has completed at least one successful sync.
type MetadataStorage interface {
	// SaveGlobalSyncStatus saves the global marker, written last in a global sync
	SaveGlobalSyncStatus(ctx context.Context, status *models.GlobalSyncStatus) error

	// GetGlobalSyncStatus returns the global marker
	// Returns ErrNotFound if the server was never synchronized
	GetGlobalSyncStatus(ctx context.Context) (*models.GlobalSyncStatus, error)

	// SaveModuleSyncStatus saves the marker of one module
	SaveModuleSyncStatus(ctx context.Context, status *models.ModuleSyncStatus) error

	// GetModuleSyncStatus returns the marker of one module
	// Returns ErrNotFound if the module was never synchronized
	GetModuleSyncStatus(ctx context.Context, moduleKey string) (*models.ModuleSyncStatus, error)

	// HasModuleSyncStatus reports whether the module marker is present, without decoding it
	HasModuleSyncStatus(ctx context.Context, moduleKey string) (bool, error)
}
