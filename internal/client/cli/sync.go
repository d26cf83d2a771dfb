package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/rulekeeper/internal/client/storage/lock"
	"github.com/iudanet/rulekeeper/internal/validation"
)

func (c *Cli) runSync(ctx context.Context) error {
	c.io.Printf("Synchronizing storage with server '%s'...\n", c.serverID)

	status, err := c.engine.Update(ctx, c.newProgress())
	if err != nil {
		return syncError(err)
	}

	projects, err := c.engine.AllProjectsByKey(ctx)
	if err != nil {
		return err
	}
	modules, err := c.engine.AllModulesByKey(ctx)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Synchronization completed successfully")
	c.io.Printf("Server version: %s\n", status.ServerVersion)
	c.io.Printf("Last sync:      %s\n", status.LastSyncTime().Format(time.RFC3339))
	c.io.Printf("Projects:       %d\n", len(projects))
	c.io.Printf("Modules:        %d\n", len(modules))
	return nil
}

func (c *Cli) runUpdateModule(ctx context.Context, moduleKey string) error {
	if err := validation.ValidateComponentKey(moduleKey); err != nil {
		return err
	}

	c.io.Printf("Synchronizing module '%s'...\n", moduleKey)
	status, err := c.engine.UpdateModule(ctx, moduleKey, c.newProgress())
	if err != nil {
		return syncError(err)
	}

	c.io.Println()
	c.io.Printf("✓ Module '%s' synchronized at %s\n", status.ModuleKey, status.LastSyncTime().Format(time.RFC3339))
	return nil
}

func syncError(err error) error {
	if errors.Is(err, lock.ErrLocked) {
		return fmt.Errorf("another synchronization of this storage is running: %w", err)
	}
	return fmt.Errorf("synchronization failed: %w", err)
}
