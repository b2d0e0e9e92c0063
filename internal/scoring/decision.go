// Package scoring turns checklist selections into trade decisions and
// emotional scores.
package scoring

import (
	"trade-journal/internal/checklist"
	"trade-journal/internal/models"
)

// GatingOrdinalLimit is the last step that can gate a decision. Steps after
// it only adjust the risk tier.
const GatingOrdinalLimit = 7

// GatingSteps returns the mandatory steps with ordinal <= GatingOrdinalLimit.
func GatingSteps(cat *checklist.Catalog) []checklist.Step {
	var gating []checklist.Step
	for _, s := range cat.Steps() {
		if s.Mandatory && s.Ordinal <= GatingOrdinalLimit {
			gating = append(gating, s)
		}
	}
	return gating
}

// UnsatisfiedSteps returns the ordinals of gating steps with no selected item.
func UnsatisfiedSteps(cat *checklist.Catalog, sel checklist.Selection) []int {
	var missing []int
	for _, s := range GatingSteps(cat) {
		if !sel.AnySelected(s.Items) {
			missing = append(missing, s.Ordinal)
		}
	}
	return missing
}

// EvaluateDecision derives a Decision from a trade-plan selection.
//
// Gating is checked first: any unsatisfied gating step yields Incomplete
// whatever else is selected. Step 1 then decides the direction; neither or
// both directions yield NoDirection. The risk tier starts at 1, Daily Open
// raises it to 2, and Weekly or Monthly Open sets it to 3 regardless of
// Daily Open.
func EvaluateDecision(cat *checklist.Catalog, sel checklist.Selection) models.Decision {
	if len(UnsatisfiedSteps(cat, sel)) > 0 {
		return models.Incomplete()
	}

	buy := sel.IsSelected(checklist.ItemBuyZone)
	sell := sel.IsSelected(checklist.ItemSellZone)
	if buy == sell {
		return models.NoDirection()
	}

	risk := RiskTier(sel)
	if buy {
		return models.Buy(risk)
	}
	return models.Sell(risk)
}

// RiskTier computes the risk percent implied by the optional open-level items.
func RiskTier(sel checklist.Selection) int {
	risk := models.RiskBase
	if sel.IsSelected(checklist.ItemDailyOpen) {
		risk = models.RiskElevated
	}
	if sel.IsSelected(checklist.ItemWeeklyOpen) || sel.IsSelected(checklist.ItemMonthlyOpen) {
		risk = models.RiskMax
	}
	return risk
}
