package models

import (
	"strings"
	"time"

	"trade-journal/internal/checklist"
	"trade-journal/internal/errors"
)

// DifferenceScore is good-minus-bad over a live emotional selection. It is
// not clamped.
type DifferenceScore int

// Stability classifies a DifferenceScore for display.
type Stability string

const (
	StabilityStable   Stability = "STABLE"
	StabilityNeutral  Stability = "NEUTRAL"
	StabilityUnstable Stability = "UNSTABLE"
)

// Stability returns STABLE above zero, NEUTRAL at zero and UNSTABLE below.
func (s DifferenceScore) Stability() Stability {
	switch {
	case s > 0:
		return StabilityStable
	case s < 0:
		return StabilityUnstable
	}
	return StabilityNeutral
}

// Label returns the display text for a stability class.
func (s Stability) Label() string {
	switch s {
	case StabilityStable:
		return "Emotionally Stable"
	case StabilityUnstable:
		return "Emotionally Unstable"
	}
	return "Neutral"
}

// PercentScore is good/(good+bad)*100 for one submitted emotional entry, in
// [0, 100].
type PercentScore int

// ScoreBand buckets a PercentScore.
type ScoreBand string

const (
	BandHigh   ScoreBand = "HIGH"
	BandMedium ScoreBand = "MEDIUM"
	BandLow    ScoreBand = "LOW"
)

// Band returns HIGH from 70, MEDIUM from 40 and LOW below.
func (p PercentScore) Band() ScoreBand {
	switch {
	case p >= 70:
		return BandHigh
	case p >= 40:
		return BandMedium
	}
	return BandLow
}

// Outcome is the trader's own verdict attached to an emotional submission.
type Outcome string

const (
	OutcomeNone      Outcome = ""
	OutcomeWin       Outcome = "WIN"
	OutcomeLoss      Outcome = "LOSS"
	OutcomeBreakEven Outcome = "BREAK_EVEN"
)

// ParseOutcome accepts win, loss and break-even in any case.
func ParseOutcome(s string) (Outcome, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	switch norm {
	case "":
		return OutcomeNone, nil
	case "WIN":
		return OutcomeWin, nil
	case "LOSS":
		return OutcomeLoss, nil
	case "BREAK_EVEN", "BREAKEVEN", "BE":
		return OutcomeBreakEven, nil
	}
	return "", errors.NewValidationError("outcome", s, "must be win, loss or break-even")
}

// EmotionalDraft is a before/during/after selection that has not been
// submitted yet.
type EmotionalDraft struct {
	Before  []checklist.ItemID `json:"before"`
	During  []checklist.ItemID `json:"during"`
	After   []checklist.ItemID `json:"after"`
	Outcome Outcome            `json:"outcome,omitempty"`
}

// Items returns the items selected for phase.
func (d EmotionalDraft) Items(phase checklist.Phase) []checklist.ItemID {
	switch phase {
	case checklist.PhaseBefore:
		return d.Before
	case checklist.PhaseDuring:
		return d.During
	case checklist.PhaseAfter:
		return d.After
	}
	return nil
}

// EmotionalSubmission is a submitted draft with its score frozen at
// submission time. Submissions are appended, never edited.
type EmotionalSubmission struct {
	ID          string       `json:"id"`
	SubmittedAt time.Time    `json:"submitted_at"`
	Score       PercentScore `json:"score"`
	EmotionalDraft
}
