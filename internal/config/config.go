// Package config provides configuration loading and structs for the docsearch server.
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

	"gopkg.in/yaml.v3"
)

// EnvDocsURL overrides docs.url when set.
const EnvDocsURL = "DOCSEARCH_DOCS_URL"

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Docs    DocsConfig    `yaml:"docs"`
	Search  SearchConfig  `yaml:"search"`
	Refresh RefreshConfig `yaml:"refresh"`
	MCP     MCPConfig     `yaml:"mcp"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DocsConfig describes where the inventory comes from and how often it is refreshed.
type DocsConfig struct {
	// URL is the documentation root. Paths without a scheme are local directories.
	URL                 string          `yaml:"url"`
	InventoryPath       string          `yaml:"inventory_path"`
	CacheTimeoutMinutes int             `yaml:"cache_timeout_minutes"`
	FetchTimeout        time.Duration   `yaml:"fetch_timeout"`
	UserAgent           string          `yaml:"user_agent"`
	RetryDelays         []time.Duration `yaml:"retry_delays"`
	// WatchLocal refreshes as soon as a local (file://) inventory changes.
	WatchLocal bool `yaml:"watch_local"`
}

// CacheTimeout returns the refresh period.
func (d *DocsConfig) CacheTimeout() time.Duration {
	return time.Duration(d.CacheTimeoutMinutes) * time.Minute
}

// IsLocal reports whether the documentation root is a file:// URL.
func (d *DocsConfig) IsLocal() bool {
	return strings.HasPrefix(d.URL, "file://")
}

// LocalInventoryPath returns the filesystem path of a local inventory.
func (d *DocsConfig) LocalInventoryPath() string {
	u, err := url.Parse(d.URL)
	if err != nil {
		return ""
	}
	return filepath.Join(filepath.FromSlash(u.Path), filepath.FromSlash(d.InventoryPath))
}

// SearchConfig holds query and result cache settings.
type SearchConfig struct {
	CacheSize        int     `yaml:"cache_size"`
	PageSize         int     `yaml:"page_size"`
	ResultsPerQuery  int     `yaml:"results_per_query"`
	DefaultLimit     int     `yaml:"default_limit"`
	MaxLimit         int     `yaml:"max_limit"`
	MaxCombinations  int     `yaml:"max_combinations"`
	StructuralWeight float64 `yaml:"structural_weight"`
}

// RefreshConfig holds manual refresh settings.
type RefreshConfig struct {
	MinManualInterval time.Duration `yaml:"min_manual_interval"`
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	Name string `yaml:"name"`
}

// Load reads and parses the config file at path, normalizes the docs URL, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return finish(&cfg, filepath.Dir(path))
}

// LoadOrDefault is Load, except that a missing file yields the defaults
// (still subject to the environment override).
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		wd, err := os.Getwd()
		if err != nil {
			wd = "."
		}
		return finish(&Config{}, wd)
	}
	return Load(path)
}

func finish(cfg *Config, configDir string) (*Config, error) {
	if env := os.Getenv(EnvDocsURL); env != "" {
		cfg.Docs.URL = env
	}

	ApplyDefaults(cfg)

	cfg.Docs.URL = normalizeDocsURL(cfg.Docs.URL, configDir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks settings that have no sensible default.
func (c *Config) Validate() error {
	if c.Docs.URL == "" {
		return fmt.Errorf("docs.url is required")
	}
	u, err := url.Parse(c.Docs.URL)
	if err != nil {
		return fmt.Errorf("invalid docs.url: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "file":
	default:
		return fmt.Errorf("docs.url: unsupported scheme %q", u.Scheme)
	}
	if c.Docs.CacheTimeoutMinutes < 0 {
		return fmt.Errorf("docs.cache_timeout_minutes cannot be negative")
	}
	return nil
}

// normalizeDocsURL turns local paths into file:// URLs and ensures a trailing
// slash, so the inventory path resolves below the root instead of replacing its last segment.
func normalizeDocsURL(raw string, configDir string) string {
	if raw == "" {
		return raw
	}
	if !strings.Contains(raw, "://") {
		raw = "file://" + filepath.ToSlash(expandPath(raw, configDir))
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	return raw
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
