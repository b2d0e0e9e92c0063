// Package cli provides the command-line interface for the trading journal.
package cli

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"trade-journal/internal/config"
	"trade-journal/internal/errors"
	"trade-journal/internal/journal"
	"trade-journal/internal/store"
)

// Version information
const (
	Version   = "0.3.0"
	BuildDate = "2024-06-01"
)

const commandTimeout = 30 * time.Second

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger

	kv      store.KV
	entries store.EntryRepository
	journal *journal.Service
}

// Execute builds the root command and runs it against os.Args.
func Execute(cfg *config.Config, logger zerolog.Logger) error {
	app := &App{Config: cfg, Logger: logger}
	return app.execute(newRootCmd(app))
}

// execute runs root and closes the stores afterwards. Cobra skips
// PersistentPostRunE when a command fails, so the close cannot live there.
func (a *App) execute(root *cobra.Command) (err error) {
	defer func() {
		if cerr := a.Close(); err == nil {
			err = cerr
		}
	}()
	return root.Execute()
}

func newRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "journal",
		Short: "Trade journal - NY session checklist and emotional scoring",
		Long: `Trade journal records trades and scores them against the NY-session
trade-plan checklist and the emotional-discipline checklist.

Each journal entry carries its own checklist selections. Evaluating the
trade plan yields a BUY/SELL decision with a 1-3% risk tier once every
mandatory step is satisfied. The emotional checklist is scored either as a
running good-minus-bad difference or as percentage submissions kept in a
per-entry history.

Use 'journal catalog show' to list checklist item ids.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if dir, _ := cmd.Flags().GetString("config"); dir != "" {
				cfg, err := config.Load(dir)
				if err != nil {
					return err
				}
				app.Config = cfg
			}
			if app.Config == nil {
				app.Config = config.Default("")
			}

			if !app.Config.UI.ColorEnabled {
				_ = cmd.Flags().Set("no-color", "true")
			}
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/trade-journal)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addEntryCommands(rootCmd, app)
	addChecklistCommands(rootCmd, app)
	addEmotionCommands(rootCmd, app)
	addArchiveCommands(rootCmd, app)
	addCatalogCommands(rootCmd, app)
	addHelpCommands(rootCmd, app)

	return rootCmd
}

// Service opens the configured stores on first use and returns the journal
// service over them.
func (a *App) Service() (*journal.Service, error) {
	if a.journal != nil {
		return a.journal, nil
	}
	if a.Config == nil {
		a.Config = config.Default("")
	}

	cat, err := a.Config.ResolveCatalog()
	if err != nil {
		return nil, err
	}

	switch a.Config.Storage.Driver {
	case config.DriverMemory:
		a.kv = store.NewMemoryKV()
		a.entries = store.NewMemoryEntries()
	case config.DriverSQLite, "":
		db, err := store.NewSQLiteStore(a.Config.Storage.Path, store.WithStoreLogger(a.Logger))
		if err != nil {
			return nil, err
		}
		a.kv = db
		a.entries = db
		a.Logger.Debug().Str("path", a.Config.Storage.Path).Msg("SQLite store initialized")
	default:
		return nil, errors.Wrapf(errors.ErrConfigInvalid, "unknown storage driver %q", a.Config.Storage.Driver)
	}

	a.journal = journal.NewService(cat, a.kv, a.entries, a.Config.KeyPolicy(), a.Logger)
	return a.journal, nil
}

// Close releases the stores opened by Service.
func (a *App) Close() error {
	if a.kv == nil {
		return nil
	}
	err := a.kv.Close()
	a.kv, a.entries, a.journal = nil, nil, nil
	return err
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, commandTimeout)
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			}
			output.Printf("Trade Journal v%s\n", Version)
			output.Dim("Build date: %s", BuildDate)
			return nil
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			path := config.ConfigPath(app.Config.Dir)
			if output.IsJSON() {
				return output.JSON(map[string]string{"path": path})
			}
			output.Println(path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			cat, err := app.Config.ResolveCatalog()
			if err != nil {
				output.Error("Catalog validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"valid": true, "catalog_version": cat.Version()})
			}
			output.Success("✓ Configuration is valid (catalog %s)", cat.Version())
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Storage")
	output.Printf("  Driver:              %s\n", cfg.Storage.Driver)
	output.Printf("  Path:                %s\n", cfg.Storage.Path)
	output.Println()

	output.Bold("Journal")
	output.Printf("  Emotional key scope: %s\n", cfg.KeyPolicy())
	output.Printf("  Default sort:        %s\n", cfg.SortOrder())
	catalog := cfg.Catalog.Path
	if catalog == "" {
		catalog = "(built-in)"
	}
	output.Printf("  Catalog:             %s\n", catalog)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:               %s\n", cfg.Logging.Level)
	output.Printf("  Console:             %v\n", cfg.Logging.Console)
	output.Printf("  File:                %v\n", cfg.Logging.File)
	if cfg.Logging.File {
		output.Printf("  File path:           %s\n", cfg.Logging.FilePath)
	}
}
