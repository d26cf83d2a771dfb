package cli

import (
	"context"
	"fmt"
	"text/template"
	"time"

	"github.com/iudanet/rulekeeper/internal/models"
)

var (
	globalStatusTmpl = template.Must(template.New("global").Parse(globalStatusTemplate))
	moduleStatusTmpl = template.Must(template.New("module").Parse(moduleStatusTemplate))
)

func (c *Cli) runStatus(ctx context.Context, moduleKey string) error {
	global, err := c.engine.GlobalSyncStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to read sync status: %w", err)
	}

	globalView := struct {
		Global   *models.GlobalSyncStatus
		ServerID string
		LastSync string
	}{Global: global, ServerID: c.serverID}
	if global != nil {
		globalView.LastSync = formatSyncTime(global.LastSyncTime())
	}
	if err := globalStatusTmpl.Execute(c.io, globalView); err != nil {
		return fmt.Errorf("failed to render status: %w", err)
	}

	if moduleKey == "" {
		return nil
	}

	module, err := c.engine.ModuleSyncStatus(ctx, moduleKey)
	if err != nil {
		return fmt.Errorf("failed to read module sync status: %w", err)
	}
	moduleView := struct {
		Module    *models.ModuleSyncStatus
		ModuleKey string
		LastSync  string
	}{Module: module, ModuleKey: moduleKey}
	if module != nil {
		moduleView.LastSync = formatSyncTime(module.LastSyncTime())
	}
	if err := moduleStatusTmpl.Execute(c.io, moduleView); err != nil {
		return fmt.Errorf("failed to render status: %w", err)
	}
	return nil
}

// formatSyncTime форматирует время синхронизации и её давность
func formatSyncTime(t time.Time) string {
	age := time.Since(t).Round(time.Second)
	if age < 0 {
		age = 0
	}
	return fmt.Sprintf("%s (%s ago)", t.Format(time.RFC3339), age)
}
