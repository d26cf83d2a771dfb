// Package engine gates analysis and metadata queries on the presence of synchronized storage.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	gosync "sync"

	"github.com/iudanet/rulekeeper/internal/analysis"
	"github.com/iudanet/rulekeeper/internal/client/storage"
	"github.com/iudanet/rulekeeper/internal/client/storage/lock"
	"github.com/iudanet/rulekeeper/internal/client/sync"
	"github.com/iudanet/rulekeeper/internal/metrics"
	"github.com/iudanet/rulekeeper/internal/models"
	"github.com/iudanet/rulekeeper/internal/progress"
)

// State is the synchronization state seen by the engine
type State int

const (
	// StateUnsynchronized no global storage: analysis is refused
	StateUnsynchronized State = iota
	// StateSynchronized global storage present
	StateSynchronized
)

func (s State) String() string {
	if s == StateSynchronized {
		return "synchronized"
	}
	return "unsynchronized"
}

// Storage is the storage the engine reads from
type Storage interface {
	storage.SnapshotStorage
	storage.MetadataStorage
	Close() error
}

// Config holds engine configuration
type Config struct {
	// ServerID identifies the server in messages
	ServerID string
	// StorageRoot is the directory holding the sync lock; empty disables the file lock
	StorageRoot string
}

// Engine is the storage-gated entry point of the client
type Engine struct {
	store    Storage
	sync     sync.Service
	registry *analysis.Registry
	logger   *slog.Logger
	metrics  *metrics.Metrics
	cfg      Config
	sensors  []analysis.Sensor

	// syncMu сериализует sync внутри процесса, файловый lock - между процессами
	syncMu  gosync.Mutex
	mu      gosync.RWMutex
	state   State
	started bool
}

// Option configures an Engine
type Option func(*Engine)

// WithSync enables Update and UpdateModule
func WithSync(s sync.Service) Option {
	return func(e *Engine) { e.sync = s }
}

// WithRegistry replaces the default sensor registry
func WithRegistry(r *analysis.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMetrics enables engine metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// New creates an engine over store. Nothing is read until Start.
func New(cfg Config, store Storage, opts ...Option) *Engine {
	e := &Engine{
		cfg:      cfg,
		store:    store,
		registry: analysis.DefaultRegistry(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start reads the global sync status. Missing storage is not an error:
// the engine starts unsynchronized and refuses analysis until a sync.
func (e *Engine) Start(ctx context.Context) error {
	status, err := e.globalStatus(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.started = true

	if status == nil {
		e.logger.Warn("No storage for server. Please sync.", "server_id", e.cfg.ServerID)
		e.state = StateUnsynchronized
		e.sensors = nil
		return nil
	}

	e.logger.Info("Using storage for server", "server_id", e.cfg.ServerID, "last_sync", status.LastSyncTime())
	return e.activateLocked(ctx)
}

// activateLocked включает сенсоры установленных на сервере плагинов. Вызывается под e.mu.
func (e *Engine) activateLocked(ctx context.Context) error {
	e.state = StateSynchronized

	index, err := e.store.GetPluginIndex(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		e.logger.Warn("No plugin list in storage, analyzers disabled")
		e.sensors = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read plugin index: %w", err)
	}

	e.sensors = e.registry.Activate(index.Has)
	e.logger.Debug("Sensors activated", "sensors", len(e.sensors), "plugins", len(index.PluginsByKey))
	return nil
}

// State returns the state found by the last Start or sync
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Analyze runs an analysis if the required storage is present.
// A ModuleKey in cfg additionally requires that module to be synchronized.
func (e *Engine) Analyze(ctx context.Context, cfg analysis.Config, listener analysis.IssueListener, handlers ...analysis.PhaseHandler) (*analysis.Results, error) {
	e.mu.RLock()
	started, state := e.started, e.state
	e.mu.RUnlock()
	if !started {
		e.metrics.GatingRejected("not_started")
		return nil, ErrNotStarted
	}

	global, err := e.globalStatus(ctx)
	if err != nil {
		return nil, err
	}
	if global == nil {
		e.metrics.GatingRejected("missing_global")
		return nil, &MissingGlobalDataError{ServerID: e.cfg.ServerID}
	}

	// Другой процесс мог выполнить sync после Start
	if state == StateUnsynchronized {
		e.mu.Lock()
		err := e.activateLocked(ctx)
		e.mu.Unlock()
		if err != nil {
			return nil, err
		}
	}

	rules, err := e.activeRules(ctx, cfg.ModuleKey)
	if err != nil {
		return nil, err
	}

	e.mu.RLock()
	sensors := e.sensors
	e.mu.RUnlock()

	pipeline := analysis.NewPipeline(sensors, rules, e.logger, handlers...)
	results, err := pipeline.Run(ctx, cfg, func(issue analysis.Issue) {
		e.metrics.IssueReported(issue.RuleKey)
		if listener != nil {
			listener(issue)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	e.metrics.AnalysisRun()
	return results, nil
}

func (e *Engine) activeRules(ctx context.Context, moduleKey string) (analysis.ActiveRules, error) {
	// Маркер модуля проверяется до чтения каталога
	if moduleKey != "" {
		synced, err := e.store.HasModuleSyncStatus(ctx, moduleKey)
		if err != nil {
			return nil, fmt.Errorf("failed to read module sync status: %w", err)
		}
		if !synced {
			e.metrics.GatingRejected("missing_module")
			return nil, &MissingModuleDataError{ModuleKey: moduleKey}
		}
	}

	catalog, err := e.store.GetRuleCatalog(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &MissingGlobalDataError{ServerID: e.cfg.ServerID}
		}
		return nil, fmt.Errorf("failed to read rule catalog: %w", err)
	}

	if moduleKey == "" {
		return catalogRules{catalog: catalog}, nil
	}

	active, err := e.store.GetActiveRules(ctx, moduleKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &MissingModuleDataError{ModuleKey: moduleKey}
		}
		return nil, fmt.Errorf("failed to read active rules of %s: %w", moduleKey, err)
	}
	return moduleRules{catalog: catalog, active: active}, nil
}

// RuleDetails returns the description of one rule from the synchronized catalog
func (e *Engine) RuleDetails(ctx context.Context, ruleKey string) (models.RuleDetails, error) {
	catalog, err := e.store.GetRuleCatalog(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.RuleDetails{}, &MissingGlobalDataError{ServerID: e.cfg.ServerID}
		}
		return models.RuleDetails{}, fmt.Errorf("failed to read rule catalog: %w", err)
	}

	rule, ok := catalog.Get(ruleKey)
	if !ok {
		return models.RuleDetails{}, fmt.Errorf("%w: %s", ErrUnknownRule, ruleKey)
	}
	return models.NewRuleDetails(rule), nil
}

// AllModulesByKey returns every synchronized module. Missing storage yields an empty map.
func (e *Engine) AllModulesByKey(ctx context.Context) (map[string]models.RemoteModule, error) {
	list, err := e.store.GetModuleList(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to read module list: %w", err)
	}
	return models.RemoteModulesByKey(list), nil
}

// AllProjectsByKey returns every synchronized project. Missing storage yields an empty map.
func (e *Engine) AllProjectsByKey(ctx context.Context) (map[string]models.RemoteProject, error) {
	list, err := e.store.GetProjectList(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to read project list: %w", err)
	}
	return models.RemoteProjectsByKey(list), nil
}

// GlobalSyncStatus returns the global sync marker, or nil if the server was never synchronized
func (e *Engine) GlobalSyncStatus(ctx context.Context) (*models.GlobalSyncStatus, error) {
	return e.globalStatus(ctx)
}

// ModuleSyncStatus returns the sync marker of a module, or nil if it was never synchronized
func (e *Engine) ModuleSyncStatus(ctx context.Context, moduleKey string) (*models.ModuleSyncStatus, error) {
	status, err := e.store.GetModuleSyncStatus(ctx, moduleKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read module sync status: %w", err)
	}
	return status, nil
}

func (e *Engine) globalStatus(ctx context.Context) (*models.GlobalSyncStatus, error) {
	status, err := e.store.GetGlobalSyncStatus(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read global sync status: %w", err)
	}
	return status, nil
}

// Update runs a global sync and re-activates analyzers.
// Returns lock.ErrLocked if another process is synchronizing the same storage.
func (e *Engine) Update(ctx context.Context, pw *progress.Wrapper) (*models.GlobalSyncStatus, error) {
	if e.sync == nil {
		return nil, ErrSyncUnavailable
	}

	var status *models.GlobalSyncStatus
	err := e.withSyncLock(func() error {
		var err error
		status, err = e.sync.UpdateGlobal(ctx, pw)
		if err != nil {
			return err
		}

		e.mu.Lock()
		defer e.mu.Unlock()
		return e.activateLocked(ctx)
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

// UpdateModule synchronizes one module
func (e *Engine) UpdateModule(ctx context.Context, moduleKey string, pw *progress.Wrapper) (*models.ModuleSyncStatus, error) {
	if e.sync == nil {
		return nil, ErrSyncUnavailable
	}

	var status *models.ModuleSyncStatus
	err := e.withSyncLock(func() error {
		var err error
		status, err = e.sync.UpdateModule(ctx, moduleKey, pw)
		return err
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

func (e *Engine) withSyncLock(fn func() error) error {
	e.syncMu.Lock()
	defer e.syncMu.Unlock()

	if e.cfg.StorageRoot != "" {
		l, err := lock.Acquire(e.cfg.StorageRoot)
		if err != nil {
			return err
		}
		defer func() {
			if err := l.Release(); err != nil {
				e.logger.Warn("Failed to release sync lock", "path", l.Path(), "error", err)
			}
		}()
	}
	return fn()
}

// Stop releases the storage. The engine cannot be restarted.
func (e *Engine) Stop() error {
	e.mu.Lock()
	e.started = false
	e.sensors = nil
	e.mu.Unlock()
	return e.store.Close()
}
