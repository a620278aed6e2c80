// Package models defines data structures for configuration, API pages and output rows.
package models

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL    = "https://api.lib.harvard.edu/v2/items"
	DefaultPageSize   = 50
	MaxPageSize       = 250
	DefaultMaxRecords = 2000
	DefaultOutput     = "librarycloud_items.csv"
	DefaultDelay      = 150 * time.Millisecond
	DefaultTimeout    = 30 * time.Second
	DefaultUserAgent  = "librarycloud-harvester/1.0"
	DefaultCacheTTL   = 24 * time.Hour
)

// HarvestConfig holds runtime configuration for a harvest.
// Values come from an optional YAML file and are overridden by CLI flags.
type HarvestConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Query      string        `yaml:"query"`
	PageSize   int           `yaml:"page_size"`
	MaxRecords int           `yaml:"max_records"`
	Output     string        `yaml:"output"`
	Delay      time.Duration `yaml:"delay"`
	Timeout    time.Duration `yaml:"timeout"`
	Retries    int           `yaml:"retries"`
	UserAgent  string        `yaml:"user_agent"`

	CacheDir string        `yaml:"cache_dir"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
	DBPath   string        `yaml:"db_path"`
	Manifest bool          `yaml:"manifest"`

	DetectLanguage          bool `yaml:"detect_language"`
	UntypedNamesAsCorporate bool `yaml:"untyped_names_as_corporate"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *HarvestConfig {
	return &HarvestConfig{
		BaseURL:                 DefaultBaseURL,
		PageSize:                DefaultPageSize,
		MaxRecords:              DefaultMaxRecords,
		Output:                  DefaultOutput,
		Delay:                   DefaultDelay,
		Timeout:                 DefaultTimeout,
		UserAgent:               DefaultUserAgent,
		CacheTTL:                DefaultCacheTTL,
		UntypedNamesAsCorporate: true,
	}
}

// LoadConfig reads a YAML config file over the defaults.
// An empty path returns the defaults unchanged.
func LoadConfig(path string) (*HarvestConfig, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Limit is the page size actually requested: clamped to [1, MaxPageSize].
func (c *HarvestConfig) Limit() int {
	return min(max(c.PageSize, 1), MaxPageSize)
}

// Validate reports configuration that cannot run.
func (c *HarvestConfig) Validate() error {
	if c.Query == "" {
		return fmt.Errorf("query is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base url is required")
	}
	if c.MaxRecords < 1 {
		return fmt.Errorf("max records must be positive, got %d", c.MaxRecords)
	}
	if c.Output == "" {
		return fmt.Errorf("output path is required")
	}
	return nil
}
