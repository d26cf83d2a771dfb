package sync

import (
	"context"
	"fmt"

	"github.com/iudanet/rulekeeper/internal/client/api"
	"github.com/iudanet/rulekeeper/internal/models"
	"github.com/iudanet/rulekeeper/internal/version"
	wire "github.com/iudanet/rulekeeper/pkg/api"
)

const systemStatusPath = "api/system/status"

// ServerStatusChecker validates that the server is up and supported
type ServerStatusChecker struct {
	Downloader
}

// NewServerStatusChecker creates a new status checker
func NewServerStatusChecker(d Downloader) *ServerStatusChecker {
	return &ServerStatusChecker{Downloader: d}
}

// Check returns the server info if the server is UP and not older than MinSupportedVersion
func (c *ServerStatusChecker) Check(ctx context.Context) (*models.ServerInfo, error) {
	var status wire.SystemStatus
	if err := api.GetJSON(ctx, c.getter, systemStatusPath, &status); err != nil {
		return nil, fmt.Errorf("failed to get server status: %w", err)
	}

	if status.Status != wire.StatusUp {
		return nil, fmt.Errorf("%w: status is %q", ErrServerNotReady, status.Status)
	}

	v, err := version.Parse(status.Version)
	if err != nil {
		return nil, fmt.Errorf("invalid server version: %w", err)
	}
	if !v.AtLeast(MinSupportedVersion) {
		return nil, fmt.Errorf("%w: %s, minimal supported version is %s", ErrUnsupportedServer, v, MinSupportedVersion)
	}

	c.logger.Debug("Server status checked", "server_id", status.ID, "server_version", status.Version)
	return &models.ServerInfo{ID: status.ID, Version: status.Version, Status: status.Status}, nil
}
