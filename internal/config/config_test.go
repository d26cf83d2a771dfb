package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", cfg.Server.URL)
	assert.Equal(t, "local", cfg.Server.ID)
	assert.Equal(t, BackendFS, cfg.Storage.Backend)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 4, cfg.Cache.RuleCatalogSize)
	assert.Equal(t, filepath.Join(cfg.Storage.Root, "local"), cfg.ServerStorageRoot())
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
server:
  url: https://quality.example.com
  id: prod
  organization: acme
http:
  timeout: 5s
storage:
  root: /var/lib/rulekeeper
  backend: bolt
log:
  level: debug
  format: json
`)
	t.Setenv("RULEKEEPER_SERVER_ORGANIZATION", "other-org")
	t.Setenv("RULEKEEPER_CACHE_RULE_CATALOG_SIZE", "0")

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, "https://quality.example.com", cfg.Server.URL)
	assert.Equal(t, "prod", cfg.Server.ID)
	assert.Equal(t, "other-org", cfg.Server.Organization)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, BackendBolt, cfg.Storage.Backend)
	assert.Equal(t, 0, cfg.Cache.RuleCatalogSize)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(NewViper(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".env", "RULEKEEPER_SERVER_ID=from-dotenv\n")
	t.Setenv("RULEKEEPER_SERVER_ID", "")
	os.Unsetenv("RULEKEEPER_SERVER_ID")

	require.NoError(t, LoadEnvFile(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "from-dotenv", os.Getenv("RULEKEEPER_SERVER_ID"))
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:  ServerConfig{URL: "http://localhost:9000", ID: "local"},
			HTTP:    HTTPConfig{Timeout: time.Second},
			Storage: StorageConfig{Root: "/tmp/rk", Backend: BackendFS},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "bad url", mutate: func(c *Config) { c.Server.URL = "localhost:9000" }},
		{name: "bad scheme", mutate: func(c *Config) { c.Server.URL = "ftp://host" }},
		{name: "bad server id", mutate: func(c *Config) { c.Server.ID = "a/b" }},
		{name: "zero timeout", mutate: func(c *Config) { c.HTTP.Timeout = 0 }},
		{name: "empty root", mutate: func(c *Config) { c.Storage.Root = "" }},
		{name: "unknown backend", mutate: func(c *Config) { c.Storage.Backend = "redis" }},
		{name: "negative cache", mutate: func(c *Config) { c.Cache.RuleCatalogSize = -1 }},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "loud" }},
	}

	base := valid()
	require.NoError(t, base.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
