package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iudanet/rulekeeper/internal/server/storage"
)

// Seed replaces the whole dataset in one transaction
func (s *Storage) Seed(ctx context.Context, ds *storage.Dataset) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Порядок важен из-за внешних ключей
	for _, table := range []string{"active_rules", "profile_projects", "profiles", "rules", "plugins", "components"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err = insertComponents(ctx, tx, ds.Components); err != nil {
		return err
	}
	if err = insertPlugins(ctx, tx, ds.Plugins); err != nil {
		return err
	}
	if err = insertRules(ctx, tx, ds.Rules); err != nil {
		return err
	}
	if err = insertProfiles(ctx, tx, ds.Profiles); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	s.logger.Info("Dataset seeded",
		"components", len(ds.Components),
		"plugins", len(ds.Plugins),
		"rules", len(ds.Rules),
		"profiles", len(ds.Profiles),
	)
	return nil
}

func insertComponents(ctx context.Context, tx *sql.Tx, components []storage.Component) error {
	for _, c := range components {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO components (key, name, qualifier, organization) VALUES (?, ?, ?, ?)",
			c.Key, c.Name, c.Qualifier, c.Organization,
		)
		if err != nil {
			return fmt.Errorf("%w: component %s: %v", storage.ErrInvalidFixture, c.Key, err)
		}
	}
	return nil
}

func insertPlugins(ctx context.Context, tx *sql.Tx, plugins []storage.Plugin) error {
	for _, p := range plugins {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO plugins (key, name, version, hash) VALUES (?, ?, ?, ?)",
			p.Key, p.Name, p.Version, p.Hash,
		)
		if err != nil {
			return fmt.Errorf("%w: plugin %s: %v", storage.ErrInvalidFixture, p.Key, err)
		}
	}
	return nil
}

func insertRules(ctx context.Context, tx *sql.Tx, rules []storage.Rule) error {
	for _, r := range rules {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO rules (key, repo, name, html_desc, severity, lang) VALUES (?, ?, ?, ?, ?, ?)",
			r.Key, r.Repo, r.Name, r.HTMLDesc, r.Severity, r.Lang,
		)
		if err != nil {
			return fmt.Errorf("%w: rule %s: %v", storage.ErrInvalidFixture, r.Key, err)
		}
	}
	return nil
}

func insertProfiles(ctx context.Context, tx *sql.Tx, profiles []storage.Profile) error {
	for _, p := range profiles {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO profiles (key, name, language, organization, is_default) VALUES (?, ?, ?, ?, ?)",
			p.Key, p.Name, p.Language, p.Organization, boolToInt(p.IsDefault),
		)
		if err != nil {
			return fmt.Errorf("%w: profile %s: %v", storage.ErrInvalidFixture, p.Key, err)
		}

		for _, project := range p.Projects {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO profile_projects (profile_key, project_key) VALUES (?, ?)",
				p.Key, project,
			)
			if err != nil {
				return fmt.Errorf("%w: profile %s project %s: %v", storage.ErrInvalidFixture, p.Key, project, err)
			}
		}

		for _, ar := range p.Rules {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO active_rules (profile_key, rule_key, severity) VALUES (?, ?, ?)",
				p.Key, ar.RuleKey, ar.Severity,
			)
			if err != nil {
				return fmt.Errorf("%w: profile %s rule %s: %v", storage.ErrInvalidFixture, p.Key, ar.RuleKey, err)
			}
		}
	}
	return nil
}
