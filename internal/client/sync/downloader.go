package sync

import (
	"log/slog"

	"github.com/iudanet/rulekeeper/internal/client/api"
	"github.com/iudanet/rulekeeper/internal/metrics"
)

// Downloader содержит общие зависимости всех загрузчиков
type Downloader struct {
	getter       api.Getter
	logger       *slog.Logger
	metrics      *metrics.Metrics
	organization string
}

// NewDownloader creates the shared downloader state.
// organization scopes component searches; empty means none.
func NewDownloader(getter api.Getter, organization string, logger *slog.Logger, m *metrics.Metrics) Downloader {
	if logger == nil {
		logger = slog.Default()
	}
	return Downloader{getter: getter, organization: organization, logger: logger, metrics: m}
}

// withOrganization appends the organization parameter when one is configured
func (d Downloader) withOrganization(path string) string {
	if d.organization == "" {
		return path
	}
	return api.AppendQuery(path, "organization", d.organization)
}
