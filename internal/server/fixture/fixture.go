// Package fixture loads the YAML datasets served by the development server.
package fixture

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iudanet/rulekeeper/internal/models"
	"github.com/iudanet/rulekeeper/internal/server/storage"
	"github.com/iudanet/rulekeeper/internal/validation"
)

// Load reads and validates a fixture file
func Load(path string) (*storage.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixture: %w", err)
	}
	defer f.Close()

	ds, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Parse decodes a fixture document. Unknown fields are rejected.
func Parse(r io.Reader) (*storage.Dataset, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var ds storage.Dataset
	if err := dec.Decode(&ds); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", storage.ErrInvalidFixture, err)
	}

	if err := Validate(&ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Validate checks keys, qualifiers and cross references of a dataset
func Validate(ds *storage.Dataset) error {
	components := make(map[string]struct{}, len(ds.Components))
	for _, c := range ds.Components {
		if err := validation.ValidateComponentKey(c.Key); err != nil {
			return fmt.Errorf("%w: %v", storage.ErrInvalidFixture, err)
		}
		if c.Qualifier != models.QualifierProject && c.Qualifier != models.QualifierBranch {
			return fmt.Errorf("%w: component %s: qualifier must be %s or %s",
				storage.ErrInvalidFixture, c.Key, models.QualifierProject, models.QualifierBranch)
		}
		if _, dup := components[c.Key]; dup {
			return fmt.Errorf("%w: duplicate component %s", storage.ErrInvalidFixture, c.Key)
		}
		components[c.Key] = struct{}{}
	}

	plugins := make(map[string]struct{}, len(ds.Plugins))
	for _, p := range ds.Plugins {
		if p.Key == "" {
			return fmt.Errorf("%w: plugin without key", storage.ErrInvalidFixture)
		}
		if _, dup := plugins[p.Key]; dup {
			return fmt.Errorf("%w: duplicate plugin %s", storage.ErrInvalidFixture, p.Key)
		}
		plugins[p.Key] = struct{}{}
	}

	rules := make(map[string]struct{}, len(ds.Rules))
	for _, r := range ds.Rules {
		if r.Key == "" || r.Repo == "" || r.Lang == "" {
			return fmt.Errorf("%w: rule %q needs key, repo and lang", storage.ErrInvalidFixture, r.Key)
		}
		if _, dup := rules[r.Key]; dup {
			return fmt.Errorf("%w: duplicate rule %s", storage.ErrInvalidFixture, r.Key)
		}
		rules[r.Key] = struct{}{}
	}

	defaults := make(map[string]string)
	for _, p := range ds.Profiles {
		if p.Key == "" || p.Language == "" {
			return fmt.Errorf("%w: profile %q needs key and language", storage.ErrInvalidFixture, p.Key)
		}
		if p.IsDefault {
			id := p.Organization + "/" + p.Language
			if prev, ok := defaults[id]; ok {
				return fmt.Errorf("%w: profiles %s and %s are both default for %s",
					storage.ErrInvalidFixture, prev, p.Key, p.Language)
			}
			defaults[id] = p.Key
		}
		for _, project := range p.Projects {
			if _, ok := components[project]; !ok {
				return fmt.Errorf("%w: profile %s references unknown project %s", storage.ErrInvalidFixture, p.Key, project)
			}
		}
		for _, ar := range p.Rules {
			if _, ok := rules[ar.RuleKey]; !ok {
				return fmt.Errorf("%w: profile %s activates unknown rule %s", storage.ErrInvalidFixture, p.Key, ar.RuleKey)
			}
		}
	}

	return nil
}
