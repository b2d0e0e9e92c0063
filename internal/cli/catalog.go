package cli

import (
	"github.com/spf13/cobra"

	"trade-journal/internal/checklist"
	"trade-journal/internal/config"
)

// addCatalogCommands adds checklist catalog commands.
func addCatalogCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Checklist catalog",
		Long: `Show the checklist items and their ids.

The built-in catalog can be replaced by a JSON, YAML or TOML file set with
catalog.path in config.toml or TRADE_JOURNAL_CATALOG.`,
	}

	cmd.AddCommand(newCatalogShowCmd(app))
	cmd.AddCommand(newCatalogValidateCmd())

	rootCmd.AddCommand(cmd)
}

func newCatalogShowCmd(app *App) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "List checklist items",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			cat, err := app.Config.ResolveCatalog()
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(cat.Definition())
			}

			output.Bold("Catalog %s", cat.Version())
			output.Println()

			if kind == "" || kind == string(checklist.KindTradePlan) {
				output.Bold("Trade Plan")
				for _, step := range cat.Steps() {
					marker := ""
					if step.Mandatory {
						marker = output.Yellow(" *")
					}
					output.Printf("  %s%s\n", step.Label, marker)
					for _, it := range step.Items {
						output.Printf("    %s %s\n", output.Cyan(PadRight(string(it.ID), 26)), it.Label)
					}
				}
				output.Dim("  * mandatory")
				output.Println()
			}

			if kind == "" || kind == string(checklist.KindEmotional) {
				output.Bold("Emotional")
				for _, p := range checklist.Phases() {
					items := cat.Phase(p)
					output.Printf("  %s\n", phaseTitle(p))
					for _, it := range items.Good {
						output.Printf("    %s %s\n", output.Green(PadRight(string(it.ID), 26)), it.Label)
					}
					for _, it := range items.Bad {
						output.Printf("    %s %s\n", output.Red(PadRight(string(it.ID), 26)), it.Label)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "only show checklist or emotional items")
	return cmd
}

func newCatalogValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a catalog file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			cat, err := config.LoadCatalog(args[0])
			if err != nil {
				output.Error("Catalog validation failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"valid":   true,
					"version": cat.Version(),
					"steps":   len(cat.Steps()),
				})
			}
			output.Success("✓ Catalog %s is valid (%d steps)", cat.Version(), len(cat.Steps()))
			return nil
		},
	}
}
