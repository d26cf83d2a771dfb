package sync

import (
	"context"
	"fmt"

	"github.com/iudanet/rulekeeper/internal/client/api"
	"github.com/iudanet/rulekeeper/internal/client/storage"
	"github.com/iudanet/rulekeeper/internal/models"
	wire "github.com/iudanet/rulekeeper/pkg/api"
)

const pluginsInstalledPath = "api/plugins/installed"

// PluginListDownloader downloads the list of installed server plugins
type PluginListDownloader struct {
	Downloader
}

// NewPluginListDownloader creates a new plugin list downloader
func NewPluginListDownloader(d Downloader) *PluginListDownloader {
	return &PluginListDownloader{Downloader: d}
}

// FetchTo downloads installed plugins and saves them as the plugin index
func (d *PluginListDownloader) FetchTo(ctx context.Context, dest storage.SnapshotStorage) error {
	var resp wire.InstalledPluginsResponse
	if err := api.GetJSON(ctx, d.getter, pluginsInstalledPath, &resp); err != nil {
		return fmt.Errorf("failed to download plugin list: %w", err)
	}

	index := models.NewPluginIndex()
	for _, p := range resp.Plugins {
		index.Put(models.Plugin{Key: p.Key, Name: p.Name, Version: p.Version, Hash: p.Hash})
	}
	d.logger.Debug("Downloaded plugin list", "plugins", len(index.PluginsByKey))

	if err := dest.SavePluginIndex(ctx, index); err != nil {
		return fmt.Errorf("failed to save plugin index: %w", err)
	}
	return nil
}
