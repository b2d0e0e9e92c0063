package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Trade Journal Configuration

[storage]
# Storage driver: "sqlite" or "memory"
driver = "sqlite"
# SQLite database file (defaults to journal.db next to this file)
# path = "~/.config/trade-journal/journal.db"

[journal]
# Scope of submitted emotional history: "entry" (one history per journal
# entry) or "pair" (one history shared by every entry on the same pair)
emotional_key_scope = "entry"
# Default list order: date-desc, date-asc, pair-asc, pair-desc
default_sort = "date-desc"

[catalog]
# Optional checklist catalog override (TOML, YAML or JSON)
path = ""

[logging]
# Log level: debug, info, warn, error
level = "warn"
# Log to the terminal (stderr)
console = true
# Log to a rotating file
file = false
# file_path = "~/.config/trade-journal/logs/journal.log"
# Maximum size in megabytes before rotation
max_size = 20
# Number of rotated files to keep
max_backups = 5
# Days to keep rotated files
max_age = 30

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"
`

// ConfigPath returns the path of the main config file in configDir.
func ConfigPath(configDir string) string {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	return filepath.Join(configDir, "config.toml")
}

// createTemplateConfig writes the commented template so the user has a file
// to edit. Loading continues with defaults.
func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
