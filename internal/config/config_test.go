package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/dp-headlines/internal/extract"
	"github.com/pfrederiksen/dp-headlines/internal/scraper"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "scrape.log", cfg.LogFile)
	require.Len(t, cfg.Rules, 2)

	headline := cfg.Rules[0]
	assert.Equal(t, "headline", headline.Name)
	assert.Equal(t, "https://www.thedp.com", headline.EntryURL)
	assert.Equal(t, "h3.frontpage-section > a", headline.LinkSelector)
	assert.Equal(t, ".special-edition a[href*='encampment-at-penn']", headline.TargetSelector)
	assert.Equal(t, "daily_pennsylvanian_headlines.json", headline.HistoryFile)

	assert.Equal(t, "crossword", cfg.Rules[1].Name)
	assert.Empty(t, cfg.Rules[1].LinkSelector)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
data_dir: /var/lib/dp-headlines
timeout: 10s
rules:
  - name: sports
    entry_url: https://www.thedp.com/section/sports
    target_selector: h3.standard-link > a
    history_file: sports.json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/var/lib/dp-headlines", cfg.DataDir)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	// untouched keys keep their defaults
	assert.Equal(t, DefaultLogFile, cfg.LogFile)
	assert.Equal(t, 14, cfg.LogBackups)
	assert.Equal(t, []string{".git", "__pycache__"}, cfg.TreeIgnore)

	assert.Equal(t, []scraper.Rule{{
		Name:           "sports",
		EntryURL:       "https://www.thedp.com/section/sports",
		TargetSelector: "h3.standard-link > a",
		HistoryFile:    "sports.json",
	}}, cfg.Rules)
}

func TestLoad_KeepsDefaultRules(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log_file: run.log\n"))
	require.NoError(t, err)

	assert.Equal(t, "run.log", cfg.LogFile)
	assert.Equal(t, Default().Rules, cfg.Rules)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = Load(writeConfig(t, "rules: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestValidate(t *testing.T) {
	rule := func(mod func(*scraper.Rule)) *Config {
		cfg := Default()
		mod(&cfg.Rules[0])
		return cfg
	}

	tests := []struct {
		name    string
		cfg     *Config
		wantErr string
	}{
		{
			name:    "missing data dir",
			cfg:     func() *Config { c := Default(); c.DataDir = ""; return c }(),
			wantErr: "data_dir is required",
		},
		{
			name:    "no rules",
			cfg:     func() *Config { c := Default(); c.Rules = nil; return c }(),
			wantErr: "at least one rule",
		},
		{
			name:    "negative timeout",
			cfg:     func() *Config { c := Default(); c.Timeout = -time.Second; return c }(),
			wantErr: "timeout",
		},
		{
			name:    "missing name",
			cfg:     rule(func(r *scraper.Rule) { r.Name = "" }),
			wantErr: "name is required",
		},
		{
			name:    "relative entry url",
			cfg:     rule(func(r *scraper.Rule) { r.EntryURL = "/section/news" }),
			wantErr: "absolute http(s) URL",
		},
		{
			name:    "unsupported scheme",
			cfg:     rule(func(r *scraper.Rule) { r.EntryURL = "ftp://thedp.com" }),
			wantErr: "absolute http(s) URL",
		},
		{
			name:    "missing target selector",
			cfg:     rule(func(r *scraper.Rule) { r.TargetSelector = "" }),
			wantErr: "target_selector is required",
		},
		{
			name:    "invalid target selector",
			cfg:     rule(func(r *scraper.Rule) { r.TargetSelector = "a[href" }),
			wantErr: "target_selector",
		},
		{
			name:    "invalid link selector",
			cfg:     rule(func(r *scraper.Rule) { r.LinkSelector = "h3 > a[" }),
			wantErr: "link_selector",
		},
		{
			name:    "missing history file",
			cfg:     rule(func(r *scraper.Rule) { r.HistoryFile = "" }),
			wantErr: "history_file is required",
		},
		{
			name:    "history file with directory",
			cfg:     rule(func(r *scraper.Rule) { r.HistoryFile = "../escape.json" }),
			wantErr: "plain file name",
		},
		{
			name:    "duplicate name",
			cfg:     rule(func(r *scraper.Rule) { r.Name = "crossword" }),
			wantErr: "duplicate name",
		},
		{
			name:    "shared history file",
			cfg:     rule(func(r *scraper.Rule) { r.HistoryFile = "daily_pennsylvanian_crosswords.json" }),
			wantErr: "already used",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_SelectorParseError(t *testing.T) {
	cfg := Default()
	cfg.Rules[1].TargetSelector = "div["

	err := cfg.Validate()
	var parseErr *extract.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "div[", parseErr.Selector)
}
