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

const rulesSearchPath = "api/rules/search.protobuf"

// rulesFields поля правил, которые нужны для каталога
const rulesFields = "repo,name,severity,lang,htmlDesc"

// RulesDownloader downloads the rule catalog into storage
type RulesDownloader struct {
	Downloader
}

// NewRulesDownloader creates a new rules downloader
func NewRulesDownloader(d Downloader) *RulesDownloader {
	return &RulesDownloader{Downloader: d}
}

// FetchTo downloads every rule of the server and saves the catalog as one snapshot
func (d *RulesDownloader) FetchTo(ctx context.Context, dest storage.SnapshotStorage, pw *progress.Wrapper) error {
	started := time.Now()
	catalog := models.NewRuleCatalog()

	req := rulesRequest(d.Downloader, d.withOrganization(api.AppendQuery(rulesSearchPath, "f", rulesFields)))
	err := api.GetPaginated(ctx, d.getter, req, func(r wire.Rule) error {
		if err := requireKey("rule", r.Key); err != nil {
			return err
		}
		catalog.Put(models.Rule{
			Key:             r.Key,
			Repository:      r.Repo,
			Name:            r.Name,
			HTMLDescription: r.HTMLDesc,
			Severity:        r.Severity,
			Language:        r.Lang,
		})
		return nil
	}, pw)
	if err != nil {
		return fmt.Errorf("failed to download rules: %w", err)
	}
	d.logger.Debug("Downloaded rules", "rules", catalog.Len(), "duration_ms", time.Since(started).Milliseconds())

	if err := dest.SaveRuleCatalog(ctx, catalog); err != nil {
		return fmt.Errorf("failed to save rule catalog: %w", err)
	}
	return nil
}

func rulesRequest(d Downloader, basePath string) api.PageRequest[*wire.RulesSearchResponse, wire.Rule] {
	return api.PageRequest[*wire.RulesSearchResponse, wire.Rule]{
		BasePath: basePath,
		Parse:    wire.UnmarshalRulesSearchResponse,
		Paging:   (*wire.RulesSearchResponse).GetPaging,
		Items:    (*wire.RulesSearchResponse).GetRules,
		Logger:   d.logger,
		Metrics:  d.metrics,
	}
}
