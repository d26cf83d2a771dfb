package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/rulekeeper/internal/client/storage"
	"github.com/iudanet/rulekeeper/internal/models"
	"github.com/iudanet/rulekeeper/internal/progress"
)

// Storage is what updaters write to
type Storage interface {
	storage.SnapshotStorage
	storage.MetadataStorage
}

// GlobalUpdater downloads everything that does not depend on a module
type GlobalUpdater struct {
	status   *ServerStatusChecker
	plugins  *PluginListDownloader
	rules    *RulesDownloader
	projects *ProjectListDownloader
	modules  *ModuleListDownloader
	dest     Storage
	now      func() time.Time
	Downloader
}

// NewGlobalUpdater creates a global updater writing to dest
func NewGlobalUpdater(d Downloader, dest Storage) *GlobalUpdater {
	return &GlobalUpdater{
		Downloader: d,
		status:     NewServerStatusChecker(d),
		plugins:    NewPluginListDownloader(d),
		rules:      NewRulesDownloader(d),
		projects:   NewProjectListDownloader(d),
		modules:    NewModuleListDownloader(d),
		dest:       dest,
		now:        time.Now,
	}
}

// Update runs a full global sync. The GlobalSyncStatus marker is written last,
// so a failed run leaves the previous marker (or none) in place.
func (u *GlobalUpdater) Update(ctx context.Context, pw *progress.Wrapper) (*models.GlobalSyncStatus, error) {
	started := u.now()
	status, err := u.update(ctx, pw)
	u.metrics.ObserveSync("global", err, u.now().Sub(started))
	return status, err
}

func (u *GlobalUpdater) update(ctx context.Context, pw *progress.Wrapper) (*models.GlobalSyncStatus, error) {
	pw.Set(0, "Checking server status")
	info, err := u.status.Check(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.dest.SaveServerInfo(ctx, info); err != nil {
		return nil, fmt.Errorf("failed to save server info: %w", err)
	}

	pw.Set(0.05, "Downloading plugin list")
	if err := u.plugins.FetchTo(ctx, u.dest); err != nil {
		return nil, err
	}

	if err := u.rules.FetchTo(ctx, u.dest, pw.Sub(0.1, 0.4, "Downloading rules")); err != nil {
		return nil, err
	}
	if err := u.projects.FetchTo(ctx, u.dest, info.Version, pw.Sub(0.4, 0.7, "Downloading project list")); err != nil {
		return nil, err
	}
	if err := u.modules.FetchTo(ctx, u.dest, info.Version, pw.Sub(0.7, 1, "Downloading module list")); err != nil {
		return nil, err
	}

	status := &models.GlobalSyncStatus{
		ServerID:          info.ID,
		ServerVersion:     info.Version,
		LastSyncTimestamp: u.now().UnixMilli(),
	}
	if err := u.dest.SaveGlobalSyncStatus(ctx, status); err != nil {
		return nil, fmt.Errorf("failed to save global sync status: %w", err)
	}
	pw.Set(1, "Done")

	u.logger.Info("Global storage updated", "server_id", info.ID, "server_version", info.Version)
	return status, nil
}

// ModuleUpdater downloads the configuration of one module
type ModuleUpdater struct {
	config *ModuleConfigDownloader
	dest   Storage
	now    func() time.Time
	Downloader
}

// NewModuleUpdater creates a module updater writing to dest
func NewModuleUpdater(d Downloader, dest Storage) *ModuleUpdater {
	return &ModuleUpdater{
		Downloader: d,
		config:     NewModuleConfigDownloader(d),
		dest:       dest,
		now:        time.Now,
	}
}

// Update syncs one module. Requires a completed global sync.
// The ModuleSyncStatus marker is written last.
func (u *ModuleUpdater) Update(ctx context.Context, moduleKey string, pw *progress.Wrapper) (*models.ModuleSyncStatus, error) {
	started := u.now()
	status, err := u.update(ctx, moduleKey, pw)
	u.metrics.ObserveSync("module", err, u.now().Sub(started))
	return status, err
}

func (u *ModuleUpdater) update(ctx context.Context, moduleKey string, pw *progress.Wrapper) (*models.ModuleSyncStatus, error) {
	if _, err := u.dest.GetGlobalSyncStatus(ctx); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrGlobalNotSynced
		}
		return nil, fmt.Errorf("failed to read global sync status: %w", err)
	}

	if err := u.config.FetchTo(ctx, u.dest, moduleKey, pw.Sub(0, 1, "Downloading module configuration")); err != nil {
		return nil, err
	}

	status := &models.ModuleSyncStatus{ModuleKey: moduleKey, LastSyncTimestamp: u.now().UnixMilli()}
	if err := u.dest.SaveModuleSyncStatus(ctx, status); err != nil {
		return nil, fmt.Errorf("failed to save module sync status: %w", err)
	}
	pw.Set(1, "Done")

	u.logger.Info("Module storage updated", "module_key", moduleKey)
	return status, nil
}
