package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trade-journal/internal/archive"
	"trade-journal/internal/errors"
	"trade-journal/internal/models"
	"trade-journal/internal/store"
)

// addArchiveCommands adds archive commands.
func addArchiveCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Review evaluated entries",
		Long:  "List, export and clear the evaluated checklist state of journal entries.",
	}

	cmd.AddCommand(newArchiveListCmd(app))
	cmd.AddCommand(newArchiveReportCmd(app))
	cmd.AddCommand(newArchiveExportCmd(app))
	cmd.AddCommand(newArchiveClearCmd(app))

	rootCmd.AddCommand(cmd)
}

func newArchiveListCmd(app *App) *cobra.Command {
	var filterFlags entryFilterFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List entries with their decision and emotional score",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.Service()
			if err != nil {
				return err
			}
			filter, err := filterFlags.build(app)
			if err != nil {
				return err
			}

			views, err := svc.Archive(ctx, filter)
			if err != nil {
				return err
			}
			summary := archive.Summarize(views)

			if output.IsJSON() {
				if views == nil {
					views = []models.ArchivedView{}
				}
				return output.JSON(map[string]interface{}{
					"summary": summary,
					"entries": views,
				})
			}

			if len(views) == 0 {
				output.Info("Archive is empty.")
				return nil
			}

			output.Bold("Archive: %d entries", summary.Entries)
			output.Printf("  BUY %d  SELL %d  no direction %d  incomplete %d  unevaluated %d\n",
				summary.Buy, summary.Sell, summary.NoDirection, summary.Incomplete, summary.Unevaluated)
			output.Printf("  stable %d  neutral %d  unstable %d  unscored %d  submissions %d\n",
				summary.Stable, summary.Neutral, summary.Unstable, summary.Unscored, summary.Submissions)
			output.Println()

			table := NewTable(output, "ID", "Date", "Pair", "Decision", "Emotions", "Last Score")
			for _, v := range views {
				last := "-"
				if n := len(v.History); n > 0 {
					last = output.ScoreText(v.History[n-1].Score)
				}
				table.AddRow(
					v.Entry.ID,
					FormatDate(v.Entry.Date, app.Config.UI.DateFormat),
					v.Entry.Pair,
					output.ShortDecision(v.Decision),
					output.StabilityText(v.EmotionalScore),
					last,
				)
			}
			table.Render()
			return nil
		},
	}

	filterFlags.register(cmd)
	return cmd
}

func newArchiveReportCmd(app *App) *cobra.Command {
	var period, pair string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Relate emotional scores to trade outcomes",
		Long:  "Group emotional submissions by score band and entries by pair for a period.",
		Example: `  journal archive report --period weekly
  journal archive report --period all --pair XAUUSD`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.Service()
			if err != nil {
				return err
			}

			now := time.Now()
			var periodLabel string
			var startDate time.Time
			switch period {
			case "daily":
				periodLabel = "Daily"
				startDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
			case "weekly":
				periodLabel = "Weekly"
				startDate = now.AddDate(0, 0, -7)
			case "monthly":
				periodLabel = "Monthly"
				startDate = now.AddDate(0, -1, 0)
			case "all", "":
				periodLabel = "All-time"
			default:
				return errors.NewValidationError("period", period, "must be daily, weekly, monthly or all")
			}

			views, err := svc.Archive(ctx, store.EntryFilter{Pair: pair, StartDate: startDate})
			if err != nil {
				return err
			}
			report := archive.BuildReport(views)

			if output.IsJSON() {
				return output.JSON(report)
			}

			output.Bold("%s Discipline Report", periodLabel)
			if !startDate.IsZero() {
				output.Printf("  %s to %s\n", FormatDate(startDate, app.Config.UI.DateFormat), FormatDate(now, app.Config.UI.DateFormat))
			}
			output.Println()

			if report.Summary.Submissions == 0 {
				output.Info("No emotional submissions for this period.")
				return nil
			}

			output.Printf("  Entries:      %d\n", report.Summary.Entries)
			output.Printf("  Submissions:  %d\n", report.Summary.Submissions)
			output.Printf("  Avg score:    %.1f%%\n", report.AvgScore)
			output.Printf("  Win rate:     %.1f%%\n", report.WinRate)
			output.Println()

			output.Bold("By Score Band")
			bands := NewTable(output, "Band", "Submissions", "Wins", "Losses", "Break-even", "Win Rate")
			for _, b := range report.ByBand {
				bands.AddRow(string(b.Band), fmt.Sprint(b.Submissions), fmt.Sprint(b.Wins), fmt.Sprint(b.Losses),
					fmt.Sprint(b.BreakEven), fmt.Sprintf("%.1f%%", b.WinRate))
			}
			bands.Render()
			output.Println()

			output.Bold("By Pair")
			pairs := NewTable(output, "Pair", "Entries", "BUY", "SELL", "Submissions", "Avg Score")
			for _, p := range report.ByPair {
				pairs.AddRow(p.Pair, fmt.Sprint(p.Entries), fmt.Sprint(p.Buy), fmt.Sprint(p.Sell),
					fmt.Sprint(p.Submissions), fmt.Sprintf("%.1f%%", p.AvgScore))
			}
			pairs.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&period, "period", "all", "report period: daily, weekly, monthly, all")
	cmd.Flags().StringVar(&pair, "pair", "", "filter by pair")
	return cmd
}

func newArchiveExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export <all|entry-id> <file>",
		Short: "Export archived entries as JSON",
		Example: `  journal archive export all journal.json
  journal archive export 01HV... trade.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.Service()
			if err != nil {
				return err
			}

			if err := svc.Exporter(app.Config.SortOrder()).Export(ctx, args[0], args[1]); err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]string{"surface": args[0], "file": args[1]})
			}
			output.Success("✓ Exported %s to %s", args[0], args[1])
			return nil
		},
	}
}

func newArchiveClearCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all stored checklist state",
		Long:  "Remove every stored selection, decision and emotional history. Journal entries are kept.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !yes {
				output.Warning("This removes all checklist state. Re-run with --yes to confirm.")
				return errors.NewValidationError("yes", false, "confirmation required")
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.Service()
			if err != nil {
				return err
			}

			n, err := svc.ClearArchive(ctx)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]int{"removed_keys": n})
			}
			output.Success("✓ Cleared %d stored key(s)", n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm removal")
	return cmd
}
