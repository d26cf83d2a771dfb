package storage

import (
	"context"

	"github.com/iudanet/rulekeeper/internal/models"
)

// SnapshotStorage defines interface for whole-snapshot persistence.
// Every Save replaces the previous snapshot; Get returns ErrNotFound if it was never saved
// and an error wrapping ErrCorruptData if the stored bytes cannot be decoded.
type SnapshotStorage interface {
	SaveServerInfo(ctx context.Context, info *models.ServerInfo) error
	GetServerInfo(ctx context.Context) (*models.ServerInfo, error)

	SavePluginIndex(ctx context.Context, index *models.PluginIndex) error
	GetPluginIndex(ctx context.Context) (*models.PluginIndex, error)

	SaveRuleCatalog(ctx context.Context, catalog *models.RuleCatalog) error
	// GetRuleCatalog returns the catalog. The result may be shared between callers
	// when caching is enabled and must not be modified
	GetRuleCatalog(ctx context.Context) (*models.RuleCatalog, error)

	SaveProjectList(ctx context.Context, list *models.ProjectList) error
	GetProjectList(ctx context.Context) (*models.ProjectList, error)

	SaveModuleList(ctx context.Context, list *models.ModuleList) error
	GetModuleList(ctx context.Context) (*models.ModuleList, error)

	SaveActiveRules(ctx context.Context, rules *models.ActiveRules) error
	GetActiveRules(ctx context.Context, moduleKey string) (*models.ActiveRules, error)
}
