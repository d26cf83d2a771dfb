package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/rulekeeper/internal/client/api"
	"github.com/iudanet/rulekeeper/internal/client/storage"
	"github.com/iudanet/rulekeeper/internal/models"
	"github.com/iudanet/rulekeeper/internal/progress"
	wire "github.com/iudanet/rulekeeper/pkg/api"
)

const qualityProfilesSearchPath = "api/qualityprofiles/search"

// ModuleConfigDownloader downloads the rules activated for one module
type ModuleConfigDownloader struct {
	Downloader
}

// NewModuleConfigDownloader creates a new module configuration downloader
func NewModuleConfigDownloader(d Downloader) *ModuleConfigDownloader {
	return &ModuleConfigDownloader{Downloader: d}
}

// FetchTo resolves the quality profiles of moduleKey and saves the union of their
// active rules as the module active rules snapshot
func (d *ModuleConfigDownloader) FetchTo(ctx context.Context, dest storage.SnapshotStorage, moduleKey string, pw *progress.Wrapper) error {
	started := time.Now()

	var profiles wire.QualityProfilesResponse
	profilesPath := d.withOrganization(api.AppendQuery(qualityProfilesSearchPath, "projectKey", moduleKey))
	if err := api.GetJSON(ctx, d.getter, profilesPath, &profiles); err != nil {
		return fmt.Errorf("failed to get quality profiles of %s: %w", moduleKey, err)
	}

	active := models.NewActiveRules(moduleKey)
	for i, profile := range profiles.Profiles {
		sub := pw.Sub(float64(i)/float64(len(profiles.Profiles)), float64(i+1)/float64(len(profiles.Profiles)),
			"Downloading active rules of "+profile.Name)

		path := api.AppendQuery(api.AppendQuery(rulesSearchPath, "activation", "true"), "qprofile", profile.Key)
		path = d.withOrganization(api.AppendQuery(path, "f", rulesFields))
		err := api.GetPaginated(ctx, d.getter, rulesRequest(d.Downloader, path), func(r wire.Rule) error {
			if err := requireKey("active rule", r.Key); err != nil {
				return err
			}
			active.Put(models.ActiveRule{RuleKey: r.Key, Severity: r.Severity, Language: r.Lang})
			return nil
		}, sub)
		if err != nil {
			return fmt.Errorf("failed to get active rules of profile %s: %w", profile.Key, err)
		}
	}
	d.logger.Debug("Downloaded module configuration", "module_key", moduleKey,
		"profiles", len(profiles.Profiles), "active_rules", len(active.RulesByKey), "duration_ms", time.Since(started).Milliseconds())

	if err := dest.SaveActiveRules(ctx, active); err != nil {
		return fmt.Errorf("failed to save active rules of %s: %w", moduleKey, err)
	}
	return nil
}
