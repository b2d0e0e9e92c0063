// Package config provides configuration management for the trading journal.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"trade-journal/internal/checklist"
	"trade-journal/internal/errors"
	"trade-journal/internal/logging"
	"trade-journal/internal/store"
)

// Config holds all application configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Journal JournalConfig `mapstructure:"journal"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Logging LoggingConfig `mapstructure:"logging"`
	UI      UIConfig      `mapstructure:"ui"`

	// Dir is the directory the configuration was loaded from.
	Dir string `mapstructure:"-"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // "sqlite", "memory"
	Path   string `mapstructure:"path"`
}

// JournalConfig holds journal behaviour settings.
type JournalConfig struct {
	EmotionalKeyScope string `mapstructure:"emotional_key_scope"` // "entry", "pair"
	DefaultSort       string `mapstructure:"default_sort"`
}

// CatalogConfig points at an optional catalog override file.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/trade-journal"
	}
	return filepath.Join(home, ".config", "trade-journal")
}

// Default returns the configuration used when no file sets a value.
func Default(configDir string) *Config {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	return &Config{
		Storage: StorageConfig{
			Driver: DriverSQLite,
			Path:   filepath.Join(configDir, "journal.db"),
		},
		Journal: JournalConfig{
			EmotionalKeyScope: string(store.KeyPolicyEntry),
			DefaultSort:       string(store.SortDateDesc),
		},
		Logging: LoggingConfig{
			Level:      "warn",
			Console:    true,
			File:       false,
			FilePath:   filepath.Join(configDir, "logs", "journal.log"),
			MaxSize:    20,
			MaxBackups: 5,
			MaxAge:     30,
		},
		UI: UIConfig{
			ColorEnabled: true,
			DateFormat:   "02-Jan-2006",
		},
		Dir: configDir,
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	_ = godotenv.Load()

	cfg := Default(configDir)

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}
	cfg.Dir = configDir

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target *Config) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v, target)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, create template
			return createTemplateConfig(configDir, name)
		}
		return err
	}

	return v.Unmarshal(target)
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("storage.driver", cfg.Storage.Driver)
	v.SetDefault("storage.path", cfg.Storage.Path)
	v.SetDefault("journal.emotional_key_scope", cfg.Journal.EmotionalKeyScope)
	v.SetDefault("journal.default_sort", cfg.Journal.DefaultSort)
	v.SetDefault("catalog.path", cfg.Catalog.Path)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.console", cfg.Logging.Console)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.file_path", cfg.Logging.FilePath)
	v.SetDefault("logging.max_size", cfg.Logging.MaxSize)
	v.SetDefault("logging.max_backups", cfg.Logging.MaxBackups)
	v.SetDefault("logging.max_age", cfg.Logging.MaxAge)
	v.SetDefault("ui.color_enabled", cfg.UI.ColorEnabled)
	v.SetDefault("ui.date_format", cfg.UI.DateFormat)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRADE_JOURNAL_DB"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("TRADE_JOURNAL_KEY_POLICY"); v != "" {
		cfg.Journal.EmotionalKeyScope = v
	}
	if v := os.Getenv("TRADE_JOURNAL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TRADE_JOURNAL_CATALOG"); v != "" {
		cfg.Catalog.Path = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite:
		if strings.TrimSpace(c.Storage.Path) == "" {
			return errors.Wrap(errors.ErrConfigInvalid, "storage.path is required for the sqlite driver")
		}
	case DriverMemory:
	default:
		return errors.Wrapf(errors.ErrConfigInvalid, "invalid storage driver: %s (must be 'sqlite' or 'memory')", c.Storage.Driver)
	}

	if _, err := store.ParseKeyPolicy(c.Journal.EmotionalKeyScope); err != nil {
		return errors.Wrapf(errors.ErrConfigInvalid, "invalid emotional_key_scope: %s (must be 'entry' or 'pair')", c.Journal.EmotionalKeyScope)
	}
	if _, err := store.ParseSortOrder(c.Journal.DefaultSort); err != nil {
		return errors.Wrapf(errors.ErrConfigInvalid, "invalid default_sort: %s", c.Journal.DefaultSort)
	}
	if c.Logging.Level != "" && !logging.ValidLevel(c.Logging.Level) {
		return errors.Wrapf(errors.ErrConfigInvalid, "invalid log level: %s", c.Logging.Level)
	}

	return nil
}

// KeyPolicy returns the configured emotional-journal key policy.
func (c *Config) KeyPolicy() store.KeyPolicy {
	p, err := store.ParseKeyPolicy(c.Journal.EmotionalKeyScope)
	if err != nil {
		return store.KeyPolicyEntry
	}
	return p
}

// SortOrder returns the configured default list order.
func (c *Config) SortOrder() store.SortOrder {
	s, err := store.ParseSortOrder(c.Journal.DefaultSort)
	if err != nil {
		return store.SortDateDesc
	}
	return s
}

// LogConfig converts the logging section for the logging package.
func (c *Config) LogConfig() logging.LogConfig {
	return logging.LogConfig{
		Level:      c.Logging.Level,
		Console:    c.Logging.Console,
		File:       c.Logging.File,
		FilePath:   c.Logging.FilePath,
		MaxSize:    c.Logging.MaxSize,
		MaxBackups: c.Logging.MaxBackups,
		MaxAge:     c.Logging.MaxAge,
	}
}

// ResolveCatalog returns the checklist catalog in effect: the override file
// when one is configured, the built-in catalog otherwise.
func (c *Config) ResolveCatalog() (*checklist.Catalog, error) {
	if c.Catalog.Path == "" {
		return checklist.Default(), nil
	}
	return LoadCatalog(c.Catalog.Path)
}

// LoadCatalog reads a catalog definition from a TOML, YAML or JSON file and
// validates it.
func LoadCatalog(path string) (*checklist.Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	var def checklist.Definition
	if err := v.Unmarshal(&def); err != nil {
		return nil, errors.Wrapf(errors.ErrCatalogInvalid, "decoding catalog %s: %v", path, err)
	}

	cat, err := checklist.New(def)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}
