package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/config"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/rules"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/scoring"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
working_dir: /var/lib/stylist
log_level: debug
catalog: wardrobe.json
session:
  debounce_ms: 250
options:
  include_optional_categories: false
  prioritize_favorites: true
  style_preference: sporty
  max_combinations: 5
rules:
  - id: minimal
    name: Minimal
    required_categories: [top, bottom]
    max_per_category: {top: 1}
    min_items: 2
    max_items: 2
journal:
  enabled: true
  formatter: string
  storage: mmap
  max_file_size: 1048576
grpc:
  addr: 127.0.0.1:6000
`)
	c := &config.ConfigImpl{}
	cfg, err := c.LoadYAML(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 250*time.Millisecond, cfg.Session.Debounce())
	assert.Equal(t, config.DefaultMailboxSize, cfg.Session.MailboxSize)

	require.NotNil(t, cfg.Options)
	assert.False(t, cfg.Options.IncludeOptionalCategories)
	assert.True(t, cfg.Options.PrioritizeFavorites)
	require.NotNil(t, cfg.Options.StylePreference)
	assert.Equal(t, types.StyleSporty, *cfg.Options.StylePreference)
	assert.Equal(t, 5, cfg.Options.MaxCombinations)

	require.Len(t, cfg.Rules, 1)
	assert.Equal(t, "minimal", cfg.Rules[0].ID)

	assert.True(t, cfg.Journal.Enabled)
	assert.Equal(t, "string", cfg.Journal.Formatter)
	assert.Equal(t, "mmap", cfg.Journal.Storage)
	assert.Equal(t, int64(1048576), cfg.Journal.MaxFileSize)
	assert.Equal(t, config.DefaultFlushEvery, cfg.Journal.FlushEvery)
	assert.Equal(t, "/var/lib/stylist/journal", cfg.JournalDir())

	assert.Equal(t, "127.0.0.1:6000", cfg.GRPC.Addr)
	assert.Equal(t, scoring.DefaultWeights, *cfg.Scoring)
}

func TestDefaults(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 500*time.Millisecond, cfg.Session.Debounce())
	assert.Equal(t, rules.DefaultRules(), cfg.Rules)
	assert.Equal(t, rules.DefaultOptions(), *cfg.Options)
	assert.False(t, cfg.Journal.Enabled)
	assert.Equal(t, config.DefaultGRPCAddr, cfg.GRPC.Addr)
}

func TestLoadYAMLRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"bad rule": `
rules:
  - id: broken
    name: Broken
    required_categories: [top]
    min_items: 3
    max_items: 1
`,
		"unknown category": `
rules:
  - id: r
    name: R
    required_categories: [cape]
    min_items: 1
    max_items: 1
`,
		"bad journal storage": `
journal:
  storage: tape
`,
		"bad log level": `
log_level: chatty
`,
		"negative cap": `
options:
  max_combinations: -1
`,
	}
	c := &config.ConfigImpl{}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := c.LoadYAML(writeFile(t, "config.yaml", content))
			assert.ErrorIs(t, err, types.ErrInvalidConfiguration)
		})
	}
}

func TestLoadYAMLMissingFile(t *testing.T) {
	c := &config.ConfigImpl{}
	_, err := c.LoadYAML(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRules(t *testing.T) {
	c := &config.ConfigImpl{}
	rs, err := c.LoadRules(writeFile(t, "rules.json", `[
  {"id": "gym", "name": "Gym", "required_categories": ["top", "shoes"], "min_items": 2, "max_items": 3}
]`))
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, []types.Category{types.CategoryTop, types.CategoryShoes}, rs[0].RequiredCategories)
}
