// Package config loads the run configuration and the list of extraction rules.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/dp-headlines/internal/extract"
	"github.com/pfrederiksen/dp-headlines/internal/fetch"
	"github.com/pfrederiksen/dp-headlines/internal/scraper"
)

const (
	DefaultDataDir = "data"
	DefaultLogFile = "scrape.log"
)

// Config represents the run configuration.
type Config struct {
	DataDir    string         `yaml:"data_dir"`
	LogFile    string         `yaml:"log_file"`
	LogBackups int            `yaml:"log_backups"` // rotated log files to keep
	UserAgent  string         `yaml:"user_agent"`
	Timeout    time.Duration  `yaml:"timeout"`
	TreeIgnore []string       `yaml:"tree_ignore"` // directory names skipped in the tree listing
	Rules      []scraper.Rule `yaml:"rules"`
}

// Default returns the built-in configuration: the Daily Pennsylvanian
// featured headline and the latest crossword title.
func Default() *Config {
	return &Config{
		DataDir:    DefaultDataDir,
		LogFile:    DefaultLogFile,
		LogBackups: 14,
		UserAgent:  fetch.DefaultUserAgent,
		Timeout:    fetch.DefaultTimeout,
		TreeIgnore: []string{".git", "__pycache__"},
		Rules: []scraper.Rule{
			{
				Name:           "headline",
				EntryURL:       "https://www.thedp.com",
				LinkSelector:   "h3.frontpage-section > a",
				TargetSelector: ".special-edition a[href*='encampment-at-penn']",
				HistoryFile:    "daily_pennsylvanian_headlines.json",
			},
			{
				Name:           "crossword",
				EntryURL:       "https://www.thedp.com/section/crosswords",
				TargetSelector: "h3.standard-link > a",
				HistoryFile:    "daily_pennsylvanian_crosswords.json",
			},
		},
	}
}

// Load reads a YAML configuration file. Keys absent from the file keep their
// default values; a rules list in the file replaces the default rules.
func Load(path string) (*Config, error) {
	// #nosec G304 -- path is provided by the user as the configuration file path
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.LogBackups < 0 {
		return fmt.Errorf("log_backups must not be negative")
	}
	if len(c.Rules) == 0 {
		return fmt.Errorf("at least one rule is required")
	}

	names := make(map[string]bool)
	files := make(map[string]bool)
	for i, rule := range c.Rules {
		if err := validateRule(rule); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
		if names[rule.Name] {
			return fmt.Errorf("rule %d: duplicate name %q", i, rule.Name)
		}
		if files[rule.HistoryFile] {
			return fmt.Errorf("rule %q: history_file %q already used by another rule", rule.Name, rule.HistoryFile)
		}
		names[rule.Name] = true
		files[rule.HistoryFile] = true
	}

	return nil
}

func validateRule(rule scraper.Rule) error {
	if rule.Name == "" {
		return fmt.Errorf("name is required")
	}

	u, err := url.Parse(rule.EntryURL)
	if err != nil {
		return fmt.Errorf("rule %q: invalid entry_url: %w", rule.Name, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("rule %q: entry_url must be an absolute http(s) URL, got %q", rule.Name, rule.EntryURL)
	}

	if rule.TargetSelector == "" {
		return fmt.Errorf("rule %q: target_selector is required", rule.Name)
	}
	if err := extract.Compile(rule.TargetSelector); err != nil {
		return fmt.Errorf("rule %q: target_selector: %w", rule.Name, err)
	}
	if rule.LinkSelector != "" {
		if err := extract.Compile(rule.LinkSelector); err != nil {
			return fmt.Errorf("rule %q: link_selector: %w", rule.Name, err)
		}
	}

	if rule.HistoryFile == "" {
		return fmt.Errorf("rule %q: history_file is required", rule.Name)
	}
	if filepath.Base(rule.HistoryFile) != rule.HistoryFile || rule.HistoryFile == "." || rule.HistoryFile == ".." {
		return fmt.Errorf("rule %q: history_file must be a plain file name, got %q", rule.Name, rule.HistoryFile)
	}

	return nil
}
