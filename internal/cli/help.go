package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"trade-journal/internal/config"
)

// addHelpCommands adds help and documentation commands.
func addHelpCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newCommandsCmd())
	rootCmd.AddCommand(newExamplesCmd())
	rootCmd.AddCommand(newQuickstartCmd(app))
}

type commandHelp struct {
	cmd  string
	desc string
}

type commandCategory struct {
	name     string
	commands []commandHelp
}

var commandCategories = []commandCategory{
	{
		name: "Entries",
		commands: []commandHelp{
			{"entry add --pair <pair>", "Record a trade"},
			{"entry list", "List entries (filters: --pair --session --from --to)"},
			{"entry show <id>", "Entry with decision and emotional score"},
			{"entry rm <id>...", "Remove entries and their checklist state"},
		},
	},
	{
		name: "Trade Plan",
		commands: []commandHelp{
			{"checklist show <id>", "Show NY-session checklist"},
			{"checklist toggle <id> <item>...", "Tick or untick items"},
			{"checklist evaluate <id>", "BUY/SELL decision with risk tier"},
		},
	},
	{
		name: "Emotions",
		commands: []commandHelp{
			{"emotions show <id>", "Show live emotional checklist"},
			{"emotions toggle <id> <item>...", "Tick or untick items"},
			{"emotions evaluate <id>", "Good minus bad score"},
			{"emotions submit <id>", "Submit a before/during/after snapshot"},
			{"emotions history <id>", "List submitted snapshots"},
			{"emotions reset <id> <sub-id>", "Delete one snapshot"},
		},
	},
	{
		name: "Archive",
		commands: []commandHelp{
			{"archive list", "Evaluated entries with summary"},
			{"archive export <all|id> <file>", "Export as JSON"},
			{"archive clear --yes", "Remove all checklist state"},
		},
	},
	{
		name: "Setup",
		commands: []commandHelp{
			{"catalog show", "List checklist item ids"},
			{"config show", "Show configuration"},
			{"config path", "Show config file location"},
			{"config validate", "Validate configuration and catalog"},
			{"version", "Show version"},
			{"examples", "Common workflows"},
			{"quickstart", "New user guide"},
		},
	},
}

func newCommandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List all commands by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if output.IsJSON() {
				out := make(map[string][]string, len(commandCategories))
				for _, cat := range commandCategories {
					for _, c := range cat.commands {
						out[cat.name] = append(out[cat.name], c.cmd)
					}
				}
				return output.JSON(out)
			}

			output.Bold("Trade Journal Commands")
			output.Println()
			for _, cat := range commandCategories {
				output.Bold(cat.name)
				for _, c := range cat.commands {
					output.Printf("  %s %s\n", output.Cyan(PadRight(c.cmd, 34)), c.desc)
				}
				output.Println()
			}
			output.Dim("Use 'journal help <command>' for detailed help on any command")
			return nil
		},
	}
}

func newExamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "Show common workflow examples",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			output.Bold("Common Workflow Examples")
			output.Println()

			examples := []struct {
				title    string
				commands []string
			}{
				{
					title: "Plan a NY Session Trade",
					commands: []string{
						"journal entry add --pair EURUSD --session newyork  # Prints the entry id",
						"journal checklist toggle <id> step1.discount step2.asian_liquidity",
						"journal checklist toggle <id> step3.pdl,step4.london_grab,step5.ob_15m",
						"journal checklist toggle <id> step6.breaker step7.ny_continuation",
						"journal checklist toggle <id> step8.daily_open  # Raises risk to 2%",
						"journal checklist evaluate <id>                # BUY 2%",
					},
				},
				{
					title: "Track Emotions During a Trade",
					commands: []string{
						"journal emotions toggle <id> before.good.patient during.bad.panic",
						"journal emotions evaluate <id>  # Good minus bad",
					},
				},
				{
					title: "Review After the Trade",
					commands: []string{
						"journal emotions submit <id> --before before.good.followed_plan --after after.good.reviewed --outcome win",
						"journal emotions history <id>",
					},
				},
				{
					title: "Weekly Review",
					commands: []string{
						"journal archive list --from 2024-03-11 --to 2024-03-15",
						"journal archive list --pair XAUUSD --sort pair-asc",
						"journal archive export all week.json",
					},
				},
			}

			for _, ex := range examples {
				output.Bold(ex.title)
				for _, c := range ex.commands {
					parts := strings.SplitN(c, "#", 2)
					if len(parts) == 2 {
						output.Printf("  %s %s\n", output.Cyan(strings.TrimSpace(parts[0])), output.DimText(strings.TrimSpace(parts[1])))
					} else {
						output.Printf("  %s\n", output.Cyan(c))
					}
				}
				output.Println()
			}
			return nil
		},
	}
}

func newQuickstartCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "quickstart",
		Short: "New user guide",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			output.Bold("Trade Journal - Quick Start Guide")
			output.Println()

			steps := []struct {
				title string
				desc  string
				cmd   string
			}{
				{"Check Configuration", "A config.toml template is written on first run.", "journal config path"},
				{"Record a Trade", "Every checklist belongs to a journal entry.", "journal entry add --pair EURUSD"},
				{"Find Item Ids", "Checklist items are addressed by id.", "journal catalog show"},
				{"Work the Trade Plan", "Tick at least one item in each mandatory step.", "journal checklist toggle <id> step1.discount"},
				{"Get the Decision", "Direction comes from step 1, risk from the open levels.", "journal checklist evaluate <id>"},
				{"Score Your Emotions", "Submit what you felt before, during and after.", "journal emotions submit <id> --before ..."},
				{"Review", "See decisions and scores across entries.", "journal archive list"},
			}

			for i, s := range steps {
				output.Printf("%s Step %d: %s\n", output.Cyan("→"), i+1, output.BoldText(s.title))
				output.Printf("  %s\n", s.desc)
				output.Printf("  %s\n\n", output.DimText(s.cmd))
			}

			output.Bold("Storage")
			output.Println()
			output.Printf("  %s %s\n", output.Cyan(PadRight("config", 8)), config.ConfigPath(app.Config.Dir))
			output.Printf("  %s %s\n", output.Cyan(PadRight("data", 8)), app.Config.Storage.Path)
			output.Println()

			output.Printf("  %s Evaluations are cached per entry; toggling an item clears them\n", output.Yellow("⚠"))
			output.Printf("  %s 'archive clear' keeps entries but drops all checklist state\n", output.Yellow("⚠"))
			return nil
		},
	}
}
