package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal/internal/checklist"
	"trade-journal/internal/errors"
	"trade-journal/internal/store"
)

func TestLoadCreatesTemplate(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	_, err = os.Stat(ConfigPath(dir))
	assert.NoError(t, err, "template should be written")

	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, filepath.Join(dir, "journal.db"), cfg.Storage.Path)
	assert.Equal(t, store.KeyPolicyEntry, cfg.KeyPolicy())
	assert.Equal(t, store.SortDateDesc, cfg.SortOrder())

	// The template must load cleanly on the next run.
	again, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg.Journal, again.Journal)
}

func TestLoadReadsFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[storage]
driver = "memory"

[journal]
emotional_key_scope = "pair"
default_sort = "pair-asc"

[logging]
level = "debug"
file = true
`
	require.NoError(t, os.WriteFile(ConfigPath(dir), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, store.KeyPolicyPair, cfg.KeyPolicy())
	assert.Equal(t, store.SortPairAsc, cfg.SortOrder())

	lc := cfg.LogConfig()
	assert.Equal(t, "debug", lc.Level)
	assert.True(t, lc.File)
	assert.Equal(t, 20, lc.MaxSize)
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TRADE_JOURNAL_DB", filepath.Join(dir, "other.db"))
	t.Setenv("TRADE_JOURNAL_KEY_POLICY", "pair")
	t.Setenv("TRADE_JOURNAL_LOG_LEVEL", "error")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "other.db"), cfg.Storage.Path)
	assert.Equal(t, store.KeyPolicyPair, cfg.KeyPolicy())
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown driver", func(c *Config) { c.Storage.Driver = "postgres" }},
		{"missing sqlite path", func(c *Config) { c.Storage.Path = " " }},
		{"unknown key scope", func(c *Config) { c.Journal.EmotionalKeyScope = "global" }},
		{"unknown sort", func(c *Config) { c.Journal.DefaultSort = "newest" }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "loud" }},
	}

	require.NoError(t, Default(t.TempDir()).Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default(t.TempDir())
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrConfigInvalid))
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()

	def := checklist.DefaultDefinition()
	def.Version = "custom/2"
	def.Steps[1].Label = "Asian range taken"
	data, err := json.Marshal(def)
	require.NoError(t, err)

	path := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cat, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, "custom/2", cat.Version())
	step, ok := cat.Step(2)
	require.True(t, ok)
	assert.Equal(t, "Asian range taken", step.Label)
	assert.Len(t, cat.Phase(checklist.PhaseDuring).Bad, 4)

	cfg := Default(dir)
	cfg.Catalog.Path = path
	resolved, err := cfg.ResolveCatalog()
	require.NoError(t, err)
	assert.Equal(t, "custom/2", resolved.Version())
}

func TestLoadCatalogRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	def := checklist.DefaultDefinition()
	def.Steps = def.Steps[1:]
	data, err := json.Marshal(def)
	require.NoError(t, err)

	path := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(path, data, 0644))

	_, err = LoadCatalog(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCatalogInvalid))

	_, err = LoadCatalog(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}
