package models

import (
	"fmt"

	"trade-journal/internal/errors"
)

// DecisionKind tags the variant of a Decision.
type DecisionKind string

const (
	DecisionIncomplete  DecisionKind = "INCOMPLETE"
	DecisionNoDirection DecisionKind = "NO_DIRECTION"
	DecisionBuy         DecisionKind = "BUY"
	DecisionSell        DecisionKind = "SELL"
)

// Risk tiers in percent of account.
const (
	RiskBase     = 1
	RiskElevated = 2
	RiskMax      = 3
)

// Decision is the outcome of evaluating a trade-plan checklist. RiskPercent
// is set only for BUY and SELL.
type Decision struct {
	Kind        DecisionKind `json:"kind"`
	RiskPercent int          `json:"risk_percent,omitempty"`
}

// Incomplete is returned when a gating step has no selected item.
func Incomplete() Decision { return Decision{Kind: DecisionIncomplete} }

// NoDirection is returned when step 1 selects neither or both directions.
func NoDirection() Decision { return Decision{Kind: DecisionNoDirection} }

// Buy returns a buy decision with the given risk tier.
func Buy(risk int) Decision { return Decision{Kind: DecisionBuy, RiskPercent: risk} }

// Sell returns a sell decision with the given risk tier.
func Sell(risk int) Decision { return Decision{Kind: DecisionSell, RiskPercent: risk} }

// IsDirectional reports whether the decision is BUY or SELL.
func (d Decision) IsDirectional() bool {
	return d.Kind == DecisionBuy || d.Kind == DecisionSell
}

// Side returns the order side of a directional decision.
func (d Decision) Side() (OrderSide, bool) {
	switch d.Kind {
	case DecisionBuy:
		return OrderSideBuy, true
	case DecisionSell:
		return OrderSideSell, true
	}
	return "", false
}

// Validate checks that the decision is one of the four well-formed variants.
func (d Decision) Validate() error {
	switch d.Kind {
	case DecisionIncomplete, DecisionNoDirection:
		if d.RiskPercent != 0 {
			return errors.NewValidationError("risk_percent", d.RiskPercent, fmt.Sprintf("must be empty for %s", d.Kind))
		}
		return nil
	case DecisionBuy, DecisionSell:
		if d.RiskPercent < RiskBase || d.RiskPercent > RiskMax {
			return errors.NewValidationError("risk_percent", d.RiskPercent, "must be 1, 2 or 3")
		}
		return nil
	}
	return errors.NewValidationError("kind", d.Kind, "unknown decision kind")
}

// String returns the message shown to the trader.
func (d Decision) String() string {
	switch d.Kind {
	case DecisionIncomplete:
		return "Not all mandatory steps completed"
	case DecisionNoDirection:
		return "No clear direction from Step 1"
	case DecisionBuy, DecisionSell:
		return fmt.Sprintf("Enter %s with %d%% risk", d.Kind, d.RiskPercent)
	}
	return string(d.Kind)
}
