package models

import "trade-journal/internal/checklist"

// ArchivedView joins a journal entry with its stored evaluation results and
// emotional history. It is built for display and never persisted.
type ArchivedView struct {
	Entry          JournalEntry          `json:"entry"`
	Decision       *Decision             `json:"decision,omitempty"`
	EmotionalScore *DifferenceScore      `json:"emotional_score,omitempty"`
	TradePlan      checklist.Selection   `json:"trade_plan"`
	Emotional      checklist.Selection   `json:"emotional"`
	History        []EmotionalSubmission `json:"history"`
	// HistoryKey is the emotional-journal key History was read from. Entries
	// on one pair share it under the pair key policy.
	HistoryKey     string                `json:"history_key,omitempty"`
}
