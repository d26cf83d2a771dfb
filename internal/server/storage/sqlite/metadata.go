package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/rulekeeper/internal/server/storage"
)

// SearchComponents returns one page of components ordered by key and the total match count
func (s *Storage) SearchComponents(ctx context.Context, q storage.ComponentQuery, page storage.Page) ([]storage.Component, int, error) {
	where, args := componentFilter(q)

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM components"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count components: %w", err)
	}

	query := "SELECT key, name, qualifier, organization FROM components" + where + " ORDER BY key LIMIT ? OFFSET ?"
	components, err := s.queryComponents(ctx, query, append(args, page.Size, page.Offset())...)
	if err != nil {
		return nil, 0, err
	}

	return components, total, nil
}

// ListComponents returns every matching component ordered by key
func (s *Storage) ListComponents(ctx context.Context, q storage.ComponentQuery) ([]storage.Component, error) {
	where, args := componentFilter(q)
	return s.queryComponents(ctx, "SELECT key, name, qualifier, organization FROM components"+where+" ORDER BY key", args...)
}

func componentFilter(q storage.ComponentQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if q.Organization != "" {
		conds = append(conds, "organization = ?")
		args = append(args, q.Organization)
	}
	if len(q.Qualifiers) > 0 {
		conds = append(conds, "qualifier IN ("+placeholders(len(q.Qualifiers))+")")
		for _, qu := range q.Qualifiers {
			args = append(args, qu)
		}
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *Storage) queryComponents(ctx context.Context, query string, args ...any) ([]storage.Component, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query components: %w", err)
	}
	defer rows.Close()

	var components []storage.Component
	for rows.Next() {
		var c storage.Component
		if err := rows.Scan(&c.Key, &c.Name, &c.Qualifier, &c.Organization); err != nil {
			return nil, fmt.Errorf("failed to scan component: %w", err)
		}
		components = append(components, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating components: %w", err)
	}

	return components, nil
}

// SearchRules returns one page of rules ordered by key and the total match count.
// Activated rules carry the severity set by the profile when it overrides the default.
func (s *Storage) SearchRules(ctx context.Context, q storage.RuleQuery, page storage.Page) ([]storage.Rule, int, error) {
	var (
		countQuery, query string
		args              []any
	)

	if q.ProfileKey != "" {
		if err := s.checkProfile(ctx, q.ProfileKey, q.Organization); err != nil {
			return nil, 0, err
		}
		countQuery = "SELECT COUNT(*) FROM active_rules WHERE profile_key = ?"
		query = `
			SELECT r.key, r.repo, r.name, r.html_desc,
			       COALESCE(NULLIF(a.severity, ''), r.severity), r.lang
			FROM active_rules a
			JOIN rules r ON r.key = a.rule_key
			WHERE a.profile_key = ?
			ORDER BY r.key
			LIMIT ? OFFSET ?
		`
		args = []any{q.ProfileKey}
	} else {
		countQuery = "SELECT COUNT(*) FROM rules"
		query = `
			SELECT key, repo, name, html_desc, severity, lang
			FROM rules
			ORDER BY key
			LIMIT ? OFFSET ?
		`
	}

	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count rules: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, append(args, page.Size, page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query rules: %w", err)
	}
	defer rows.Close()

	var rules []storage.Rule
	for rows.Next() {
		var r storage.Rule
		if err := rows.Scan(&r.Key, &r.Repo, &r.Name, &r.HTMLDesc, &r.Severity, &r.Lang); err != nil {
			return nil, 0, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rules: %w", err)
	}

	return rules, total, nil
}

func (s *Storage) checkProfile(ctx context.Context, key, organization string) error {
	var org string
	err := s.db.QueryRowContext(ctx, "SELECT organization FROM profiles WHERE key = ?", key).Scan(&org)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", storage.ErrProfileNotFound, key)
	}
	if err != nil {
		return fmt.Errorf("failed to get profile: %w", err)
	}
	if organization != "" && org != organization {
		return fmt.Errorf("%w: %s", storage.ErrProfileNotFound, key)
	}
	return nil
}

// ProfilesForProject returns, per language, the profile linked to the project or the default one
func (s *Storage) ProfilesForProject(ctx context.Context, projectKey, organization string) ([]storage.Profile, error) {
	var org string
	err := s.db.QueryRowContext(ctx, "SELECT organization FROM components WHERE key = ?", projectKey).Scan(&org)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && organization != "" && org != organization) {
		return nil, fmt.Errorf("%w: %s", storage.ErrComponentNotFound, projectKey)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get component: %w", err)
	}

	query := `
		SELECT p.key, p.name, p.language, p.organization, p.is_default
		FROM profiles p
		WHERE p.organization = ?
		  AND (
		    p.key IN (SELECT profile_key FROM profile_projects WHERE project_key = ?)
		    OR (
		      p.is_default = 1
		      AND p.language NOT IN (
		        SELECT lp.language
		        FROM profiles lp
		        JOIN profile_projects pp ON pp.profile_key = lp.key
		        WHERE pp.project_key = ?
		      )
		    )
		  )
		ORDER BY p.language, p.key
	`

	rows, err := s.db.QueryContext(ctx, query, org, projectKey, projectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []storage.Profile
	for rows.Next() {
		var (
			p         storage.Profile
			isDefault int
		)
		if err := rows.Scan(&p.Key, &p.Name, &p.Language, &p.Organization, &isDefault); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		p.IsDefault = isDefault == 1
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}

	return profiles, nil
}

// Plugins returns installed plugins ordered by key
func (s *Storage) Plugins(ctx context.Context) ([]storage.Plugin, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, name, version, hash FROM plugins ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to query plugins: %w", err)
	}
	defer rows.Close()

	var plugins []storage.Plugin
	for rows.Next() {
		var p storage.Plugin
		if err := rows.Scan(&p.Key, &p.Name, &p.Version, &p.Hash); err != nil {
			return nil, fmt.Errorf("failed to scan plugin: %w", err)
		}
		plugins = append(plugins, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plugins: %w", err)
	}

	return plugins, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
