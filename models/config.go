// Package models defines the data structures shared by the build and
// deploy commands: site pages, emitted search documents and configuration.
package models

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for a build. Values merge from an
// optional YAML file and CLI flags, flags winning.
type Config struct {
	// SiteDir points at a built site to walk for rendered HTML pages.
	SiteDir string `yaml:"site_dir"`
	// Manifest points at a page manifest emitted by the site generator.
	// SiteDir and Manifest are mutually exclusive.
	Manifest string `yaml:"manifest"`
	// BaseURL is prepended verbatim to page paths to form document URLs.
	BaseURL string `yaml:"base_url"`
	// IndexContent indexes full page bodies. When false only excerpts
	// (content above the more marker) and headings are indexed.
	IndexContent bool `yaml:"index_content"`
	// DetectLanguage infers a page language from its text when the
	// markup does not declare one.
	DetectLanguage bool `yaml:"detect_language"`
	// ContentSelectors override the CSS selectors tried, in order, to
	// locate the content region of a page loaded from SiteDir.
	ContentSelectors []string `yaml:"content_selectors"`
	// Output is the path the document set is written to, empty to skip.
	Output string `yaml:"output"`
	// WorkerCount caps concurrent page segmentation.
	WorkerCount int `yaml:"workers"`

	Deploy DeployConfig `yaml:"deploy"`
}

// DeployConfig describes the target index. Host accepts a MeiliSearch
// base URL or a local "sqlite:path/to.db" target.
type DeployConfig struct {
	Host   string     `yaml:"host"`
	APIKey string     `yaml:"api_key"`
	Index  string     `yaml:"index"`
	Mode   DeployMode `yaml:"mode"`
}

// DefaultConfig returns the configuration used before any file or flag
// overrides apply.
func DefaultConfig() Config {
	return Config{
		IndexContent: true,
		Output:       "search-index.json",
		WorkerCount:  4,
		Deploy:       DeployConfig{Mode: DeployModeFull},
	}
}

// LoadConfig reads a YAML config file over the defaults. Keys absent from
// the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the build has exactly one page source.
func (c Config) Validate() error {
	if c.SiteDir == "" && c.Manifest == "" {
		return fmt.Errorf("either site_dir or manifest must be set")
	}
	if c.SiteDir != "" && c.Manifest != "" {
		return fmt.Errorf("site_dir and manifest are mutually exclusive")
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.WorkerCount)
	}
	return nil
}

// SQLiteTarget reports whether Host names a local SQLite index instead of
// a MeiliSearch instance, and returns the database path.
func (d DeployConfig) SQLiteTarget() (string, bool) {
	return strings.CutPrefix(d.Host, "sqlite:")
}

// Validate checks the deploy target before any network or disk access.
func (d DeployConfig) Validate() error {
	if d.Host == "" {
		return fmt.Errorf("deploy host is not set")
	}
	if path, ok := d.SQLiteTarget(); ok {
		if path == "" {
			return fmt.Errorf("sqlite deploy target needs a database path")
		}
	} else if d.Index == "" {
		return fmt.Errorf("deploy index is not set")
	}
	if _, err := ParseDeployMode(string(d.Mode)); err != nil {
		return err
	}
	return nil
}
