package sync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/rulekeeper/internal/client/api"
	"github.com/iudanet/rulekeeper/internal/client/storage"
	"github.com/iudanet/rulekeeper/internal/models"
	"github.com/iudanet/rulekeeper/internal/progress"
	wire "github.com/iudanet/rulekeeper/pkg/api"
)

// ModuleListDownloader downloads root projects and their sub-modules into storage
type ModuleListDownloader struct {
	Downloader
}

// NewModuleListDownloader creates a new module list downloader
func NewModuleListDownloader(d Downloader) *ModuleListDownloader {
	return &ModuleListDownloader{Downloader: d}
}

// FetchTo downloads all modules and saves them as one snapshot
func (d *ModuleListDownloader) FetchTo(ctx context.Context, dest storage.SnapshotStorage, serverVersion string, pw *progress.Wrapper) error {
	protocol, err := SelectProtocol(serverVersion)
	if err != nil {
		return err
	}

	started := time.Now()
	list := models.NewModuleList()
	put := func(m models.Module) error {
		if err := requireKey("module", m.Key); err != nil {
			return err
		}
		if list.Put(m) {
			d.logger.Debug("Duplicate module key, keeping the last one", "module_key", m.Key)
		}
		return nil
	}

	switch protocol {
	case ProtocolModern:
		qualifiers := strings.Join([]string{models.QualifierProject, models.QualifierBranch}, ",")
		req := api.PageRequest[*wire.ComponentsSearchResponse, wire.Component]{
			BasePath: d.withOrganization(api.AppendQuery(componentsSearchPath, "qualifiers", qualifiers)),
			Parse:    wire.UnmarshalComponentsSearchResponse,
			Paging:   (*wire.ComponentsSearchResponse).GetPaging,
			Items:    (*wire.ComponentsSearchResponse).GetComponents,
			Logger:   d.logger,
			Metrics:  d.metrics,
		}
		err = api.GetPaginated(ctx, d.getter, req, func(c wire.Component) error {
			return put(models.Module{Key: c.Key, Name: c.Name, Qualifier: c.Qualifier})
		}, pw)
	default:
		err = d.fetchLegacy(ctx, put)
	}
	if err != nil {
		return fmt.Errorf("failed to download module list: %w", err)
	}
	d.logger.Debug("Downloaded module list",
		"protocol", protocol.String(), "modules", list.Len(), "duration_ms", time.Since(started).Milliseconds())

	if err := dest.SaveModuleList(ctx, list); err != nil {
		return fmt.Errorf("failed to save module list: %w", err)
	}
	return nil
}

func (d *ModuleListDownloader) fetchLegacy(ctx context.Context, put func(models.Module) error) error {
	path := projectsIndexPath + "&subprojects=true"

	var results []wire.LegacyProject
	if err := api.GetJSON(ctx, d.getter, path, &results); err != nil {
		return err
	}
	for _, p := range results {
		if p.Qu != models.QualifierProject && p.Qu != models.QualifierBranch {
			continue
		}
		if err := put(models.Module{Key: p.K, Name: p.Nm, Qualifier: p.Qu}); err != nil {
			return api.DecodeError(path, err)
		}
	}
	return nil
}
