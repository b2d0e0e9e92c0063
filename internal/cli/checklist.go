package cli

import (
	"github.com/spf13/cobra"

	"trade-journal/internal/checklist"
	"trade-journal/internal/journal"
	"trade-journal/internal/models"
	"trade-journal/internal/scoring"
)

// addChecklistCommands adds trade-plan checklist commands.
func addChecklistCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "checklist",
		Short: "Trade-plan checklist",
		Long: `Tick NY-session trade-plan items for an entry and evaluate the decision.

Steps 1-7 marked mandatory must each have at least one item ticked. Step 1
decides direction (discount zone = BUY, premium zone = SELL). Daily Open
raises risk to 2%, Weekly or Monthly Open to 3%.`,
	}

	cmd.AddCommand(newChecklistShowCmd(app))
	cmd.AddCommand(newChecklistToggleCmd(app))
	cmd.AddCommand(newChecklistEvaluateCmd(app))

	rootCmd.AddCommand(cmd)
}

type checklistStatus struct {
	EntryID     string             `json:"entry_id"`
	Selected    []checklist.ItemID `json:"selected"`
	Unsatisfied []int              `json:"unsatisfied_steps"`
	Decision    *models.Decision   `json:"decision,omitempty"`
	Steps       []checklist.Step   `json:"steps,omitempty"`
}

func newChecklistShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <entry-id>",
		Short: "Show the trade-plan checklist of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.Service()
			if err != nil {
				return err
			}

			rec, err := svc.TradePlan(ctx, args[0])
			if err != nil {
				return err
			}

			cat := svc.Catalog()
			status := checklistStatus{
				EntryID:     args[0],
				Selected:    nonNilIDs(rec.Checked.Selected()),
				Unsatisfied: nonNilInts(scoring.UnsatisfiedSteps(cat, rec.Checked)),
				Decision:    rec.FinalDecision,
				Steps:       cat.Steps(),
			}

			if output.IsJSON() {
				return output.JSON(status)
			}

			renderTradePlan(output, cat, rec.Checked)
			output.Println()
			if len(status.Unsatisfied) > 0 {
				output.Warning("Missing mandatory steps: %s", FormatSteps(status.Unsatisfied))
			}
			output.Printf("Decision: %s\n", output.DecisionText(rec.FinalDecision))
			return nil
		},
	}
}

func newChecklistToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <entry-id> <item-id>...",
		Short: "Toggle trade-plan items",
		Long:  "Flip one or more trade-plan items. Ids may also be comma separated.",
		Example: `  journal checklist toggle 01HV... step1.discount step2.asian_liquidity
  journal checklist toggle 01HV... step3.pdl,step4.london_grab`,
		Args: cobra.MinimumNArgs(2),
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
				sel, err = svc.ToggleTradeItem(ctx, args[0], id)
				if err != nil {
					return err
				}
				if !output.IsJSON() {
					output.Printf("%s %s\n", output.Check(sel.IsSelected(id)), svc.Catalog().Label(id))
				}
			}

			if output.IsJSON() {
				return output.JSON(checklistStatus{
					EntryID:     args[0],
					Selected:    nonNilIDs(sel.Selected()),
					Unsatisfied: nonNilInts(scoring.UnsatisfiedSteps(svc.Catalog(), sel)),
				})
			}
			return nil
		},
	}
}

func newChecklistEvaluateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate <entry-id>",
		Short: "Evaluate the trade decision of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.Service()
			if err != nil {
				return err
			}

			d, err := svc.EvaluateDecision(ctx, args[0])
			if err != nil {
				return err
			}
			rec, err := svc.TradePlan(ctx, args[0])
			if err != nil {
				return err
			}
			missing := nonNilInts(scoring.UnsatisfiedSteps(svc.Catalog(), rec.Checked))

			if output.IsJSON() {
				return output.JSON(checklistStatus{
					EntryID:     args[0],
					Selected:    nonNilIDs(rec.Checked.Selected()),
					Unsatisfied: missing,
					Decision:    &d,
				})
			}

			output.Bold("Final Decision")
			output.Println(output.DecisionText(&d))
			if d.Kind == models.DecisionIncomplete && len(missing) > 0 {
				output.Dim("Missing mandatory steps: %s", FormatSteps(missing))
			}
			return nil
		},
	}
}

func renderTradePlan(output *Output, cat *checklist.Catalog, sel checklist.Selection) {
	for _, step := range cat.Steps() {
		output.Bold("%s", step.Label)
		for _, it := range step.Items {
			output.Printf("  %s %s %s\n", output.Check(sel.IsSelected(it.ID)), it.Label, output.DimText("("+string(it.ID)+")"))
		}
	}
}

func nonNilIDs(ids []checklist.ItemID) []checklist.ItemID {
	if ids == nil {
		return []checklist.ItemID{}
	}
	return ids
}

func nonNilInts(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}
