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

const (
	componentsSearchPath = "api/components/search.protobuf"
	projectsIndexPath    = "api/projects/index?format=json"
)

// ProjectListDownloader downloads the list of server projects into storage
type ProjectListDownloader struct {
	Downloader
}

// NewProjectListDownloader creates a new project list downloader
func NewProjectListDownloader(d Downloader) *ProjectListDownloader {
	return &ProjectListDownloader{Downloader: d}
}

// FetchTo downloads all projects and saves them as one snapshot.
// The protocol depends on serverVersion: paginated component search from 6.3, project index before.
// Nothing is written unless the whole list was downloaded.
func (d *ProjectListDownloader) FetchTo(ctx context.Context, dest storage.SnapshotStorage, serverVersion string, pw *progress.Wrapper) error {
	protocol, err := SelectProtocol(serverVersion)
	if err != nil {
		return err
	}

	started := time.Now()
	var list *models.ProjectList
	switch protocol {
	case ProtocolModern:
		list, err = d.fetchModern(ctx, pw)
	default:
		list, err = d.fetchLegacy(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to download project list: %w", err)
	}
	d.logger.Debug("Downloaded project list",
		"protocol", protocol.String(), "projects", list.Len(), "duration_ms", time.Since(started).Milliseconds())

	if err := dest.SaveProjectList(ctx, list); err != nil {
		return fmt.Errorf("failed to save project list: %w", err)
	}
	return nil
}

func (d *ProjectListDownloader) fetchModern(ctx context.Context, pw *progress.Wrapper) (*models.ProjectList, error) {
	list := models.NewProjectList()
	req := api.PageRequest[*wire.ComponentsSearchResponse, wire.Component]{
		BasePath:           d.withOrganization(api.AppendQuery(componentsSearchPath, "qualifiers", models.QualifierProject)),
		Parse:              wire.UnmarshalComponentsSearchResponse,
		Paging:             (*wire.ComponentsSearchResponse).GetPaging,
		Items:              (*wire.ComponentsSearchResponse).GetComponents,
		Logger:             d.logger,
		Metrics:            d.metrics,
		LimitToTwentyPages: true,
	}

	err := api.GetPaginated(ctx, d.getter, req, func(c wire.Component) error {
		if err := requireKey("project", c.Key); err != nil {
			return err
		}
		if list.Put(models.Project{Key: c.Key, Name: c.Name}) {
			d.logger.Debug("Duplicate project key, keeping the last one", "project_key", c.Key)
		}
		return nil
	}, pw)
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (d *ProjectListDownloader) fetchLegacy(ctx context.Context) (*models.ProjectList, error) {
	var results []wire.LegacyProject
	if err := api.GetJSON(ctx, d.getter, projectsIndexPath, &results); err != nil {
		return nil, err
	}

	list := models.NewProjectList()
	for _, p := range results {
		if err := requireKey("project", p.K); err != nil {
			return nil, api.DecodeError(projectsIndexPath, err)
		}
		if list.Put(models.Project{Key: p.K, Name: p.Nm}) {
			d.logger.Debug("Duplicate project key, keeping the last one", "project_key", p.K)
		}
	}
	return list, nil
}
