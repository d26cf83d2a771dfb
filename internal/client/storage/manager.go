package storage

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/iudanet/rulekeeper/internal/models"
	"github.com/iudanet/rulekeeper/internal/snapshot"
)

// Manager stores typed snapshots on top of a Store.
// It implements both SnapshotStorage and MetadataStorage.
type Manager struct {
	store  Store
	logger *slog.Logger

	// ruleCache кэширует декодированный каталог по checksum snapshot-файла,
	// поэтому новый snapshot после sync всегда декодируется заново
	ruleCache *lru.Cache[string, *models.RuleCatalog]
	ruleGroup singleflight.Group
}

var (
	_ SnapshotStorage = (*Manager)(nil)
	_ MetadataStorage = (*Manager)(nil)
)

// ManagerOption configures a Manager
type ManagerOption func(*Manager) error

// WithRuleCatalogCache enables caching of decoded rule catalogs.
// size <= 0 disables the cache.
func WithRuleCatalogCache(size int) ManagerOption {
	return func(m *Manager) error {
		if size <= 0 {
			return nil
		}
		cache, err := lru.New[string, *models.RuleCatalog](size)
		if err != nil {
			return fmt.Errorf("failed to create rule catalog cache: %w", err)
		}
		m.ruleCache = cache
		return nil
	}
}

// NewManager creates a new snapshot manager over the store
func NewManager(store Store, logger *slog.Logger, opts ...ManagerOption) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{store: store, logger: logger}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Store returns the underlying store
func (m *Manager) Store() Store {
	return m.store
}

// Close closes the underlying store
func (m *Manager) Close() error {
	return m.store.Close()
}

func save[T any](ctx context.Context, store Store, path string, codec snapshot.Codec[T], v T) error {
	if err := store.Write(ctx, path, codec.Marshal(v)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func load[T any](ctx context.Context, store Store, path string, codec snapshot.Codec[T]) (T, error) {
	var zero T
	data, err := store.Read(ctx, path)
	if err != nil {
		return zero, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return decode(path, codec, data)
}

func decode[T any](path string, codec snapshot.Codec[T], data []byte) (T, error) {
	v, err := codec.Unmarshal(data)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %s: %w", ErrCorruptData, path, err)
	}
	return v, nil
}

// SaveServerInfo saves the server status snapshot
func (m *Manager) SaveServerInfo(ctx context.Context, info *models.ServerInfo) error {
	return save(ctx, m.store, ServerInfoPath, snapshot.ServerInfoCodec, info)
}

// GetServerInfo returns the server status snapshot
func (m *Manager) GetServerInfo(ctx context.Context) (*models.ServerInfo, error) {
	return load(ctx, m.store, ServerInfoPath, snapshot.ServerInfoCodec)
}

// SavePluginIndex saves the installed plugins snapshot
func (m *Manager) SavePluginIndex(ctx context.Context, index *models.PluginIndex) error {
	return save(ctx, m.store, PluginIndexPath, snapshot.PluginIndexCodec, index)
}

// GetPluginIndex returns the installed plugins snapshot
func (m *Manager) GetPluginIndex(ctx context.Context) (*models.PluginIndex, error) {
	return load(ctx, m.store, PluginIndexPath, snapshot.PluginIndexCodec)
}

// SaveRuleCatalog saves the rule catalog
func (m *Manager) SaveRuleCatalog(ctx context.Context, catalog *models.RuleCatalog) error {
	return save(ctx, m.store, RuleCatalogPath, snapshot.RuleCatalogCodec, catalog)
}

// GetRuleCatalog returns the rule catalog, using the decoded-catalog cache when enabled
func (m *Manager) GetRuleCatalog(ctx context.Context) (*models.RuleCatalog, error) {
	if m.ruleCache == nil {
		return load(ctx, m.store, RuleCatalogPath, snapshot.RuleCatalogCodec)
	}

	data, err := m.store.Read(ctx, RuleCatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", RuleCatalogPath, err)
	}

	sum, err := snapshot.Checksum(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptData, RuleCatalogPath, err)
	}
	key := hex.EncodeToString(sum[:])

	if catalog, ok := m.ruleCache.Get(key); ok {
		return catalog, nil
	}

	// Параллельные запросы одного и того же snapshot декодируют его один раз
	v, err, _ := m.ruleGroup.Do(key, func() (any, error) {
		catalog, err := decode(RuleCatalogPath, snapshot.RuleCatalogCodec, data)
		if err != nil {
			return nil, err
		}
		m.ruleCache.Add(key, catalog)
		m.logger.Debug("Rule catalog decoded", "rules", catalog.Len(), "checksum", key[:12])
		return catalog, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.RuleCatalog), nil
}

// SaveProjectList saves the project list snapshot
func (m *Manager) SaveProjectList(ctx context.Context, list *models.ProjectList) error {
	return save(ctx, m.store, ProjectListPath, snapshot.ProjectListCodec, list)
}

// GetProjectList returns the project list snapshot
func (m *Manager) GetProjectList(ctx context.Context) (*models.ProjectList, error) {
	return load(ctx, m.store, ProjectListPath, snapshot.ProjectListCodec)
}

// SaveModuleList saves the module list snapshot
func (m *Manager) SaveModuleList(ctx context.Context, list *models.ModuleList) error {
	return save(ctx, m.store, ModuleListPath, snapshot.ModuleListCodec, list)
}

// GetModuleList returns the module list snapshot
func (m *Manager) GetModuleList(ctx context.Context) (*models.ModuleList, error) {
	return load(ctx, m.store, ModuleListPath, snapshot.ModuleListCodec)
}

// SaveActiveRules saves the active rules of rules.ModuleKey
func (m *Manager) SaveActiveRules(ctx context.Context, rules *models.ActiveRules) error {
	if rules.ModuleKey == "" {
		return errors.New("active rules without module key")
	}
	return save(ctx, m.store, ActiveRulesPath(rules.ModuleKey), snapshot.ActiveRulesCodec, rules)
}

// GetActiveRules returns the active rules of a module
func (m *Manager) GetActiveRules(ctx context.Context, moduleKey string) (*models.ActiveRules, error) {
	return load(ctx, m.store, ActiveRulesPath(moduleKey), snapshot.ActiveRulesCodec)
}

// SaveGlobalSyncStatus saves the global sync marker
func (m *Manager) SaveGlobalSyncStatus(ctx context.Context, status *models.GlobalSyncStatus) error {
	return save(ctx, m.store, GlobalSyncStatusPath, snapshot.GlobalSyncStatusCodec, status)
}

// GetGlobalSyncStatus returns the global sync marker or ErrNotFound
func (m *Manager) GetGlobalSyncStatus(ctx context.Context) (*models.GlobalSyncStatus, error) {
	return load(ctx, m.store, GlobalSyncStatusPath, snapshot.GlobalSyncStatusCodec)
}

// SaveModuleSyncStatus saves a module sync marker
func (m *Manager) SaveModuleSyncStatus(ctx context.Context, status *models.ModuleSyncStatus) error {
	if status.ModuleKey == "" {
		return errors.New("module sync status without module key")
	}
	return save(ctx, m.store, ModuleSyncStatusPath(status.ModuleKey), snapshot.ModuleSyncStatusCodec, status)
}

// GetModuleSyncStatus returns a module sync marker or ErrNotFound
func (m *Manager) GetModuleSyncStatus(ctx context.Context, moduleKey string) (*models.ModuleSyncStatus, error) {
	return load(ctx, m.store, ModuleSyncStatusPath(moduleKey), snapshot.ModuleSyncStatusCodec)
}

// HasModuleSyncStatus reports whether a module sync marker is stored
func (m *Manager) HasModuleSyncStatus(ctx context.Context, moduleKey string) (bool, error) {
	path := ModuleSyncStatusPath(moduleKey)
	ok, err := m.store.Exists(ctx, path)
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", path, err)
	}
	return ok, nil
}
