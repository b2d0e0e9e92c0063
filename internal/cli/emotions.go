package cli

import (
	"github.com/spf13/cobra"

	"trade-journal/internal/checklist"
	"trade-journal/internal/journal"
	"trade-journal/internal/models"
	"trade-journal/internal/scoring"
)

// addEmotionCommands adds emotional checklist commands.
func addEmotionCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:     "emotions",
		Aliases: []string{"emotion"},
		Short:   "Emotional discipline checklist",
		Long: `Score emotional discipline before, during and after a trade.

toggle/evaluate keep a live selection per entry and score it as good minus
bad. submit scores one before/during/after snapshot as a percentage of good
items and appends it to the entry's history.`,
	}

	cmd.AddCommand(newEmotionsShowCmd(app))
	cmd.AddCommand(newEmotionsToggleCmd(app))
	cmd.AddCommand(newEmotionsEvaluateCmd(app))
	cmd.AddCommand(newEmotionsSubmitCmd(app))
	cmd.AddCommand(newEmotionsHistoryCmd(app))
	cmd.AddCommand(newEmotionsResetCmd(app))

	rootCmd.AddCommand(cmd)
}

func newEmotionsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <entry-id>",
		Short: "Show the live emotional checklist of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.Service()
			if err != nil {
				return err
			}

			rec, err := svc.Emotions(ctx, args[0])
			if err != nil {
				return err
			}
			cat := svc.Catalog()

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"entry_id": args[0],
					"selected": nonNilIDs(rec.Checked.Selected()),
					"phases":   scoring.CountPhases(cat, rec.Checked),
					"score":    rec.EmotionalScore,
				})
			}

			for _, pc := range scoring.CountPhases(cat, rec.Checked) {
				items := cat.Phase(pc.Phase)
				output.Bold("%s  (good %d / bad %d)", phaseTitle(pc.Phase), pc.Good, pc.Bad)
				for _, it := range items.Good {
					output.Printf("  %s %s %s\n", output.Check(rec.Checked.IsSelected(it.ID)), output.Green(it.Label), output.DimText("("+string(it.ID)+")"))
				}
				for _, it := range items.Bad {
					output.Printf("  %s %s %s\n", output.Check(rec.Checked.IsSelected(it.ID)), output.Red(it.Label), output.DimText("("+string(it.ID)+")"))
				}
			}
			output.Println()
			output.Printf("Score: %s\n", output.StabilityText(rec.EmotionalScore))
			return nil
		},
	}
}

func newEmotionsToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <entry-id> <item-id>...",
		Short: "Toggle items in the live emotional checklist",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.Service()
			if err != nil {
				return err
			}

			var sel checklist.Selection
			for _, id := range journal.ParseItems(args[1:]) {
				sel, err = svc.ToggleEmotionalItem(ctx, args[0], id)
				if err != nil {
					return err
				}
				if !output.IsJSON() {
					output.Printf("%s %s\n", output.Check(sel.IsSelected(id)), svc.Catalog().Label(id))
				}
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"entry_id": args[0],
					"selected": nonNilIDs(sel.Selected()),
				})
			}
			return nil
		},
	}
}

func newEmotionsEvaluateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate <entry-id>",
		Short: "Score the live emotional checklist (good minus bad)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.Service()
			if err != nil {
				return err
			}

			score, err := svc.EvaluateEmotions(ctx, args[0])
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"entry_id":  args[0],
					"score":     score,
					"stability": score.Stability(),
				})
			}
			output.Bold("Emotional Score")
			output.Println(output.StabilityText(&score))
			return nil
		},
	}
}

func newEmotionsSubmitCmd(app *App) *cobra.Command {
	var before, during, after []string
	var outcome string

	cmd := &cobra.Command{
		Use:   "submit <entry-id>",
		Short: "Submit a before/during/after emotional snapshot",
		Example: `  journal emotions submit 01HV... \
    --before before.good.followed_plan,before.good.patient \
    --during during.bad.panic --after after.good.reviewed --outcome win`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.Service()
			if err != nil {
				return err
			}

			oc, err := models.ParseOutcome(outcome)
			if err != nil {
				return err
			}
			draft := models.EmotionalDraft{
				Before:  journal.ParseItems(before),
				During:  journal.ParseItems(during),
				After:   journal.ParseItems(after),
				Outcome: oc,
			}

			sub, err := svc.Submit(ctx, args[0], draft)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(sub)
			}
			output.Success("✓ Submission %s recorded", sub.ID)
			output.Printf("Score: %s\n", output.ScoreText(sub.Score))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&before, "before", nil, "items ticked before the trade")
	cmd.Flags().StringSliceVar(&during, "during", nil, "items ticked during the trade")
	cmd.Flags().StringSliceVar(&after, "after", nil, "items ticked after the trade")
	cmd.Flags().StringVar(&outcome, "outcome", "", "trade outcome: win, loss, break-even")

	return cmd
}

func newEmotionsHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history <entry-id>",
		Short: "List submitted emotional snapshots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.Service()
			if err != nil {
				return err
			}

			subs, err := svc.History(ctx, args[0])
			if err != nil {
				return err
			}

			if output.IsJSON() {
				if subs == nil {
					subs = []models.EmotionalSubmission{}
				}
				return output.JSON(subs)
			}

			if len(subs) == 0 {
				output.Info("No emotional submissions yet.")
				return nil
			}

			cat := svc.Catalog()
			table := NewTable(output, "ID", "Submitted", "Before", "During", "After", "Outcome", "Score")
			for _, sub := range subs {
				table.AddRow(
					sub.ID,
					FormatDateTime(sub.SubmittedAt),
					labels(cat, sub.Before),
					labels(cat, sub.During),
					labels(cat, sub.After),
					outcomeText(sub.Outcome),
					output.ScoreText(sub.Score),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newEmotionsResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <entry-id> <submission-id>",
		Short: "Delete one emotional submission",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.Service()
			if err != nil {
				return err
			}

			if err := svc.RemoveSubmission(ctx, args[0], args[1]); err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]string{"removed": args[1]})
			}
			output.Success("✓ Submission %s removed", args[1])
			return nil
		},
	}
}

func phaseTitle(p checklist.Phase) string {
	switch p {
	case checklist.PhaseBefore:
		return "Before Trade"
	case checklist.PhaseDuring:
		return "During Trade"
	case checklist.PhaseAfter:
		return "After Trade"
	}
	return string(p)
}

func labels(cat *checklist.Catalog, ids []checklist.ItemID) string {
	if len(ids) == 0 {
		return "-"
	}
	return TruncateString(joinLabels(cat, ids), 40)
}

func joinLabels(cat *checklist.Catalog, ids []checklist.ItemID) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += "; "
		}
		out += cat.Label(id)
	}
	return out
}

func outcomeText(o models.Outcome) string {
	if o == models.OutcomeNone {
		return "-"
	}
	return string(o)
}
