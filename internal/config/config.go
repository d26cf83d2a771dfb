// Package config loads RuleKeeper client configuration from flags, environment, .env and YAML.
//
// Precedence, highest first: explicit flags, RULEKEEPER_* environment variables
// (a .env file in the working directory is loaded into the environment), the config file, defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/iudanet/rulekeeper/internal/logging"
	"github.com/iudanet/rulekeeper/internal/validation"
)

// EnvPrefix префикс переменных окружения: server.url -> RULEKEEPER_SERVER_URL
const EnvPrefix = "RULEKEEPER"

// Бэкенды локального хранилища
const (
	BackendFS     = "fs"
	BackendBolt   = "bolt"
	BackendBadger = "badger"
)

// Ключи конфигурации
const (
	KeyServerURL          = "server.url"
	KeyServerID           = "server.id"
	KeyServerOrganization = "server.organization"
	KeyServerToken        = "server.token"
	KeyHTTPTimeout        = "http.timeout"
	KeyStorageRoot        = "storage.root"
	KeyStorageBackend     = "storage.backend"
	KeyRuleCatalogCache   = "cache.rule_catalog_size"
	KeyLogLevel           = "log.level"
	KeyLogFormat          = "log.format"
	KeyMetricsTextfile    = "metrics.textfile"
)

// ErrInvalidConfig indicates a configuration value that cannot be used
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the resolved client configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Cache   CacheConfig   `mapstructure:"cache"`
}

// ServerConfig describes the remote server
type ServerConfig struct {
	URL          string `mapstructure:"url"`
	ID           string `mapstructure:"id"`
	Organization string `mapstructure:"organization"`
	Token        string `mapstructure:"token"`
}

// HTTPConfig configures the HTTP client
type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// StorageConfig configures local storage
type StorageConfig struct {
	Root    string `mapstructure:"root"`
	Backend string `mapstructure:"backend"`
}

// CacheConfig configures in-memory caches
type CacheConfig struct {
	RuleCatalogSize int `mapstructure:"rule_catalog_size"`
}

// LogConfig configures logging
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig configures metrics export
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// DefaultDir returns $HOME/.rulekeeper, or .rulekeeper when the home directory is unknown
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rulekeeper"
	}
	return filepath.Join(home, ".rulekeeper")
}

// NewViper returns a viper instance with defaults and environment binding set up
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyServerURL, "http://localhost:9000")
	v.SetDefault(KeyServerID, "local")
	v.SetDefault(KeyServerOrganization, "")
	v.SetDefault(KeyServerToken, "")
	v.SetDefault(KeyHTTPTimeout, 30*time.Second)
	v.SetDefault(KeyStorageRoot, filepath.Join(DefaultDir(), "storage"))
	v.SetDefault(KeyStorageBackend, BackendFS)
	v.SetDefault(KeyRuleCatalogCache, 4)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, logging.FormatText)
	v.SetDefault(KeyMetricsTextfile, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadEnvFile loads variables from .env style files into the process environment.
// Missing files are skipped; already set variables are not overridden.
func LoadEnvFile(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads the config file and resolves the configuration.
// With an empty configFile the default $HOME/.rulekeeper/config.yaml is read if it exists.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultDir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: server.url %q must be an http(s) URL", ErrInvalidConfig, c.Server.URL)
	}
	if err := validation.ValidateServerID(c.Server.ID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("%w: http.timeout must be positive", ErrInvalidConfig)
	}
	if c.Storage.Root == "" {
		return fmt.Errorf("%w: storage.root is empty", ErrInvalidConfig)
	}
	switch c.Storage.Backend {
	case BackendFS, BackendBolt, BackendBadger:
	default:
		return fmt.Errorf("%w: storage.backend %q (expected fs, bolt or badger)", ErrInvalidConfig, c.Storage.Backend)
	}
	if c.Cache.RuleCatalogSize < 0 {
		return fmt.Errorf("%w: cache.rule_catalog_size must not be negative", ErrInvalidConfig)
	}
	if _, err := logging.New(nil, c.LoggingConfig()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// LoggingConfig returns the logger configuration
func (c *Config) LoggingConfig() logging.Config {
	return logging.Config{Level: c.Log.Level, Format: c.Log.Format}
}

// ServerStorageRoot returns the storage directory of the configured server.
// Each server gets its own subdirectory so switching servers never mixes snapshots.
func (c *Config) ServerStorageRoot() string {
	return filepath.Join(c.Storage.Root, c.Server.ID)
}
