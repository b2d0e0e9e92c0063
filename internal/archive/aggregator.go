// Package archive joins journal entries with their stored checklist state
// for review, and removes that state when entries go away.
package archive

import (
	"context"

	"github.com/rs/zerolog"

	"trade-journal/internal/errors"
	"trade-journal/internal/logging"
	"trade-journal/internal/models"
	"trade-journal/internal/store"
)

// Aggregator builds archived views and purges per-entry state.
type Aggregator struct {
	kv         store.KV
	selections *store.SelectionStore
	journal    *store.EmotionalJournal
	keys       store.Keys
	logger     zerolog.Logger
}

// NewAggregator creates an aggregator over the given stores.
func NewAggregator(kv store.KV, selections *store.SelectionStore, journal *store.EmotionalJournal, keys store.Keys, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		kv:         kv,
		selections: selections,
		journal:    journal,
		keys:       keys,
		logger:     logger.With().Str("component", "archive").Logger(),
	}
}

// Build returns one view per entry, in the order given. Missing or malformed
// state leaves the corresponding fields empty.
func (a *Aggregator) Build(ctx context.Context, entries []models.JournalEntry) []models.ArchivedView {
	views := make([]models.ArchivedView, 0, len(entries))
	for _, e := range entries {
		views = append(views, a.View(ctx, e))
	}
	return views
}

// View builds the archived view of a single entry.
func (a *Aggregator) View(ctx context.Context, e models.JournalEntry) models.ArchivedView {
	trade := a.selections.LoadRecord(ctx, a.keys.TradePlan(e.ID))
	emotional := a.selections.LoadRecord(ctx, a.keys.Emotional(e.ID))

	historyKey := a.keys.EmotionalJournal(e)
	history := a.journal.List(ctx, historyKey)
	if history == nil {
		history = []models.EmotionalSubmission{}
	}

	return models.ArchivedView{
		Entry:          e,
		Decision:       trade.FinalDecision,
		EmotionalScore: emotional.EmotionalScore,
		TradePlan:      trade.Checked,
		Emotional:      emotional.Checked,
		History:        history,
		HistoryKey:     historyKey,
	}
}

// Purge removes the stored state of a deleted entry. remaining is the set of
// entries still in the journal; under the pair key policy the shared
// emotional history is kept while any of them is on the same pair.
func (a *Aggregator) Purge(ctx context.Context, removed models.JournalEntry, remaining []models.JournalEntry) error {
	keys := []string{a.keys.TradePlan(removed.ID), a.keys.Emotional(removed.ID)}

	journalKey := a.keys.EmotionalJournal(removed)
	shared := false
	for _, other := range remaining {
		if other.ID != removed.ID && a.keys.SharesEmotionalJournal(removed, other) {
			shared = true
			break
		}
	}
	if !shared {
		keys = append(keys, journalKey)
	} else {
		a.logger.Debug().Str("key", journalKey).Msg("Keeping emotional history shared with another entry")
	}

	var errs []error
	for _, key := range keys {
		if err := a.kv.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return errors.Wrapf(err, "purging entry %s", removed.ID)
	}

	logging.LogPurge(a.logger, removed.ID, keys)
	return nil
}

// ClearAll removes every checklist, emotional and emotional-journal record
// and returns how many keys were deleted.
func (a *Aggregator) ClearAll(ctx context.Context) (int, error) {
	var deleted int
	for _, prefix := range a.keys.Prefixes() {
		keys, err := a.kv.Keys(ctx, prefix)
		if err != nil {
			return deleted, errors.Wrap(err, "listing archived state")
		}
		for _, key := range keys {
			if err := a.kv.Delete(ctx, key); err != nil {
				return deleted, errors.Wrap(err, "clearing archived state")
			}
			deleted++
		}
	}

	a.logger.Info().Int("deleted", deleted).Msg("Archived checklist state cleared")
	return deleted, nil
}

// Summary counts decisions and emotional stability across views.
type Summary struct {
	Entries     int `json:"entries"`
	Buy         int `json:"buy"`
	Sell        int `json:"sell"`
	NoDirection int `json:"no_direction"`
	Incomplete  int `json:"incomplete"`
	Unevaluated int `json:"unevaluated"`

	Stable   int `json:"stable"`
	Neutral  int `json:"neutral"`
	Unstable int `json:"unstable"`
	Unscored int `json:"unscored"`

	Submissions int `json:"submissions"`
}

// Summarize tallies views for the archive header. A history shared by
// several views is counted once.
func Summarize(views []models.ArchivedView) Summary {
	var s Summary
	s.Entries = len(views)
	seen := map[string]bool{}

	for _, v := range views {
		if v.Decision == nil {
			s.Unevaluated++
		} else {
			switch v.Decision.Kind {
			case models.DecisionBuy:
				s.Buy++
			case models.DecisionSell:
				s.Sell++
			case models.DecisionNoDirection:
				s.NoDirection++
			case models.DecisionIncomplete:
				s.Incomplete++
			}
		}

		if v.EmotionalScore == nil {
			s.Unscored++
		} else {
			switch v.EmotionalScore.Stability() {
			case models.StabilityStable:
				s.Stable++
			case models.StabilityUnstable:
				s.Unstable++
			default:
				s.Neutral++
			}
		}

		s.Submissions += len(ownHistory(v, seen))
	}

	return s
}

// ownHistory returns the history of v unless a view read from the same
// emotional-journal key was already seen.
func ownHistory(v models.ArchivedView, seen map[string]bool) []models.EmotionalSubmission {
	if v.HistoryKey == "" {
		return v.History
	}
	if seen[v.HistoryKey] {
		return nil
	}
	seen[v.HistoryKey] = true
	return v.History
}
