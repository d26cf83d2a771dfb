package storage

import (
	"context"
)

// Component is a project (TRK) or module (BRC) known to the server
type Component struct {
	Key          string `yaml:"key"`
	Name         string `yaml:"name"`
	Qualifier    string `yaml:"qualifier"`
	Organization string `yaml:"organization"`
}

// Plugin is an installed server plugin
type Plugin struct {
	Key     string `yaml:"key"`
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Hash    string `yaml:"hash"`
}

// Rule is a rule definition
type Rule struct {
	Key      string `yaml:"key"`
	Repo     string `yaml:"repo"`
	Name     string `yaml:"name"`
	HTMLDesc string `yaml:"html_desc"`
	Severity string `yaml:"severity"`
	Lang     string `yaml:"lang"`
}

// ActiveRule activates a rule in a profile, optionally overriding its severity
type ActiveRule struct {
	RuleKey  string `yaml:"key"`
	Severity string `yaml:"severity"`
}

// Profile is a quality profile
type Profile struct {
	Key          string       `yaml:"key"`
	Name         string       `yaml:"name"`
	Language     string       `yaml:"language"`
	Organization string       `yaml:"organization"`
	Projects     []string     `yaml:"projects"`
	Rules        []ActiveRule `yaml:"rules"`
	IsDefault    bool         `yaml:"default"`
}

// Dataset is everything the server serves; Seed replaces the stored dataset with it
type Dataset struct {
	Components []Component `yaml:"components"`
	Plugins    []Plugin    `yaml:"plugins"`
	Rules      []Rule      `yaml:"rules"`
	Profiles   []Profile   `yaml:"profiles"`
}

// Page selects one page of a search, PageIndex starts at 1
type Page struct {
	Index int
	Size  int
}

// Offset returns the number of rows before the page
func (p Page) Offset() int {
	return (p.Index - 1) * p.Size
}

// ComponentQuery filters component searches
type ComponentQuery struct {
	Organization string
	Qualifiers   []string
}

// RuleQuery filters rule searches. With ProfileKey only the rules active in that profile
// are returned, with the activation severity.
type RuleQuery struct {
	ProfileKey   string
	Organization string
}

// MetadataStorage defines the read side used by the HTTP handlers
type MetadataStorage interface {
	// SearchComponents returns one page of components and the total match count
	SearchComponents(ctx context.Context, q ComponentQuery, page Page) ([]Component, int, error)

	// ListComponents returns every component matching q ordered by key
	ListComponents(ctx context.Context, q ComponentQuery) ([]Component, error)

	// SearchRules returns one page of rules and the total match count.
	// Returns ErrProfileNotFound for an unknown profile.
	SearchRules(ctx context.Context, q RuleQuery, page Page) ([]Rule, int, error)

	// ProfilesForProject returns the profile used for each language of a project:
	// the profile explicitly associated with it, otherwise the default one.
	// Returns ErrComponentNotFound for an unknown project.
	ProfilesForProject(ctx context.Context, projectKey, organization string) ([]Profile, error)

	// Plugins returns installed plugins ordered by key
	Plugins(ctx context.Context) ([]Plugin, error)

	// Ping checks that the storage is reachable
	Ping(ctx context.Context) error
}

// Seeder replaces the stored dataset
type Seeder interface {
	Seed(ctx context.Context, ds *Dataset) error
}
