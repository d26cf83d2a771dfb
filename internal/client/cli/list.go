package cli

import (
	"context"
	"fmt"
	"maps"
	"slices"
)

func (c *Cli) runModules(ctx context.Context) error {
	modules, err := c.engine.AllModulesByKey(ctx)
	if err != nil {
		return err
	}

	c.io.Println("=== Modules ===")
	c.io.Println()
	if len(modules) == 0 {
		c.io.Println("No modules found.")
		c.io.Println()
		c.io.Println("Run 'rulekeeper sync' to download the module list.")
		return nil
	}

	c.io.Printf("Found %d module(s):\n", len(modules))
	c.io.Println()
	for _, key := range slices.Sorted(maps.Keys(modules)) {
		c.io.Printf("  %-40s %s\n", key, modules[key].Name)
	}
	return nil
}

func (c *Cli) runProjects(ctx context.Context) error {
	projects, err := c.engine.AllProjectsByKey(ctx)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	c.io.Println("=== Projects ===")
	c.io.Println()
	if len(projects) == 0 {
		c.io.Println("No projects found.")
		c.io.Println()
		c.io.Println("Run 'rulekeeper sync' to download the project list.")
		return nil
	}

	c.io.Printf("Found %d project(s):\n", len(projects))
	c.io.Println()
	for _, key := range slices.Sorted(maps.Keys(projects)) {
		c.io.Printf("  %-40s %s\n", key, projects[key].Name)
	}
	return nil
}
