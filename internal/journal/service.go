// Package journal implements the checklist and emotional-scoring flows of
// the trading journal over injected stores.
package journal

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"trade-journal/internal/archive"
	"trade-journal/internal/checklist"
	"trade-journal/internal/errors"
	"trade-journal/internal/logging"
	"trade-journal/internal/models"
	"trade-journal/internal/scoring"
	"trade-journal/internal/store"
)

// Service runs journal operations. It holds no per-entry state of its own;
// everything is read from and written back to the stores on each call.
type Service struct {
	catalog    *checklist.Catalog
	selections *store.SelectionStore
	history    *store.EmotionalJournal
	entries    store.EntryRepository
	keys       store.Keys
	archive    *archive.Aggregator
	logger     zerolog.Logger

	now func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now for submission timestamps and ids.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a journal service.
func NewService(cat *checklist.Catalog, kv store.KV, entries store.EntryRepository, policy store.KeyPolicy, logger zerolog.Logger, opts ...Option) *Service {
	keys := store.NewKeys(policy)
	selections := store.NewSelectionStore(kv, logger)
	history := store.NewEmotionalJournal(kv, logger)

	s := &Service{
		catalog:    cat,
		selections: selections,
		history:    history,
		entries:    entries,
		keys:       keys,
		archive:    archive.NewAggregator(kv, selections, history, keys, logger),
		logger:     logger.With().Str("component", "journal").Logger(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the catalog the service evaluates against.
func (s *Service) Catalog() *checklist.Catalog { return s.catalog }

// Keys returns the key builder in use.
func (s *Service) Keys() store.Keys { return s.keys }

// Aggregator returns the archive aggregator.
func (s *Service) Aggregator() *archive.Aggregator { return s.archive }

// ============================================================================
// Entries
// ============================================================================

// AddEntry validates and stores a new journal entry. An id is assigned when
// none is given.
func (s *Service) AddEntry(ctx context.Context, entry *models.JournalEntry) error {
	entry.Pair = models.NormalizePair(entry.Pair)
	if entry.Pair == "" {
		return errors.NewValidationError("pair", entry.Pair, "pair is required")
	}
	now := s.now()
	if entry.ID == "" {
		entry.ID = store.NewID(now)
	}
	if entry.Date.IsZero() {
		entry.Date = now
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}

	if err := s.entries.SaveEntry(ctx, entry); err != nil {
		return errors.Wrap(err, "saving entry")
	}
	logger := logging.WithEntry(s.logger, entry.ID)
	logger.Info().Str("pair", entry.Pair).Msg("Entry added")
	return nil
}

// GetEntry returns a stored entry.
func (s *Service) GetEntry(ctx context.Context, id string) (*models.JournalEntry, error) {
	return s.entries.GetEntry(ctx, id)
}

// ListEntries returns entries matching filter.
func (s *Service) ListEntries(ctx context.Context, filter store.EntryFilter) ([]models.JournalEntry, error) {
	filter.Pair = models.NormalizePair(filter.Pair)
	return s.entries.ListEntries(ctx, filter)
}

// DeleteEntry removes an entry and purges its checklist state.
func (s *Service) DeleteEntry(ctx context.Context, id string) error {
	entry, err := s.entries.GetEntry(ctx, id)
	if err != nil {
		return err
	}

	// Purge before removing the entry so a failed purge leaves nothing
	// orphaned and the delete can be retried.
	all, err := s.entries.ListEntries(ctx, store.EntryFilter{})
	if err != nil {
		return errors.Wrap(err, "listing remaining entries")
	}
	if err := s.archive.Purge(ctx, *entry, all); err != nil {
		return err
	}
	return s.entries.DeleteEntry(ctx, id)
}

// ============================================================================
// Trade-plan checklist
// ============================================================================

// TradePlan returns the stored trade-plan record of an entry.
func (s *Service) TradePlan(ctx context.Context, entryID string) (store.ChecklistRecord, error) {
	if _, err := s.entries.GetEntry(ctx, entryID); err != nil {
		return store.ChecklistRecord{}, err
	}
	return s.selections.LoadRecord(ctx, s.keys.TradePlan(entryID)), nil
}

// ToggleTradeItem flips one trade-plan item and persists the selection. The
// cached decision is dropped since it no longer matches.
func (s *Service) ToggleTradeItem(ctx context.Context, entryID string, item checklist.ItemID) (checklist.Selection, error) {
	if err := s.checkKind(item, checklist.KindTradePlan); err != nil {
		return nil, err
	}
	if _, err := s.entries.GetEntry(ctx, entryID); err != nil {
		return nil, err
	}

	key := s.keys.TradePlan(entryID)
	rec := s.selections.LoadRecord(ctx, key)
	rec.Checked = rec.Checked.Toggle(item)
	rec.FinalDecision = nil

	if err := s.selections.SaveRecord(ctx, key, rec); err != nil {
		return nil, errors.Wrap(err, "saving trade plan")
	}
	logger := logging.WithEntry(s.logger, entryID)
	logger.Debug().
		Str("item", string(item)).
		Bool("selected", rec.Checked.IsSelected(item)).
		Msg("Trade-plan item toggled")
	return rec.Checked.Clone(), nil
}

// EvaluateDecision evaluates the stored trade-plan selection and caches the
// result alongside it.
func (s *Service) EvaluateDecision(ctx context.Context, entryID string) (models.Decision, error) {
	if _, err := s.entries.GetEntry(ctx, entryID); err != nil {
		return models.Decision{}, err
	}

	key := s.keys.TradePlan(entryID)
	rec := s.selections.LoadRecord(ctx, key)
	d := scoring.EvaluateDecision(s.catalog, rec.Checked)
	rec.FinalDecision = &d

	if err := s.selections.SaveRecord(ctx, key, rec); err != nil {
		return d, errors.Wrap(err, "saving decision")
	}
	logging.LogDecision(logging.WithOperation(s.logger, "evaluate"), entryID, d, scoring.UnsatisfiedSteps(s.catalog, rec.Checked))
	return d, nil
}

// ============================================================================
// Emotional checklist
// ============================================================================

// Emotions returns the stored live emotional record of an entry.
func (s *Service) Emotions(ctx context.Context, entryID string) (store.ChecklistRecord, error) {
	if _, err := s.entries.GetEntry(ctx, entryID); err != nil {
		return store.ChecklistRecord{}, err
	}
	return s.selections.LoadRecord(ctx, s.keys.Emotional(entryID)), nil
}

// ToggleEmotionalItem flips one emotional item in the live selection.
func (s *Service) ToggleEmotionalItem(ctx context.Context, entryID string, item checklist.ItemID) (checklist.Selection, error) {
	if err := s.checkKind(item, checklist.KindEmotional); err != nil {
		return nil, err
	}
	if _, err := s.entries.GetEntry(ctx, entryID); err != nil {
		return nil, err
	}

	key := s.keys.Emotional(entryID)
	rec := s.selections.LoadRecord(ctx, key)
	rec.Checked = rec.Checked.Toggle(item)
	rec.EmotionalScore = nil

	if err := s.selections.SaveRecord(ctx, key, rec); err != nil {
		return nil, errors.Wrap(err, "saving emotional selection")
	}
	return rec.Checked.Clone(), nil
}

// EvaluateEmotions computes the difference score of the live selection and
// caches it.
func (s *Service) EvaluateEmotions(ctx context.Context, entryID string) (models.DifferenceScore, error) {
	if _, err := s.entries.GetEntry(ctx, entryID); err != nil {
		return 0, err
	}

	key := s.keys.Emotional(entryID)
	rec := s.selections.LoadRecord(ctx, key)
	score := scoring.DifferenceScore(s.catalog, rec.Checked)
	rec.EmotionalScore = &score

	if err := s.selections.SaveRecord(ctx, key, rec); err != nil {
		return score, errors.Wrap(err, "saving emotional score")
	}
	logging.LogEmotionalScore(s.logger, entryID, "difference", int(score))
	return score, nil
}

// Submit scores a before/during/after draft and appends it to the entry's
// emotional history.
func (s *Service) Submit(ctx context.Context, entryID string, draft models.EmotionalDraft) (models.EmotionalSubmission, error) {
	entry, err := s.entries.GetEntry(ctx, entryID)
	if err != nil {
		return models.EmotionalSubmission{}, err
	}
	if err := s.checkDraft(draft); err != nil {
		return models.EmotionalSubmission{}, err
	}

	now := s.now()
	sub := models.EmotionalSubmission{
		ID:             store.NewID(now),
		SubmittedAt:    now.UTC(),
		Score:          scoring.PercentageScore(s.catalog, draft),
		EmotionalDraft: draft,
	}

	if err := s.history.Append(ctx, s.keys.EmotionalJournal(*entry), sub); err != nil {
		return models.EmotionalSubmission{}, errors.Wrap(err, "saving submission")
	}
	logging.LogEmotionalScore(s.logger, entryID, "percentage", int(sub.Score))
	return sub, nil
}

// History returns the submitted emotional history visible from an entry.
func (s *Service) History(ctx context.Context, entryID string) ([]models.EmotionalSubmission, error) {
	entry, err := s.entries.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	return s.history.List(ctx, s.keys.EmotionalJournal(*entry)), nil
}

// RemoveSubmission deletes one submission from the history visible from an
// entry.
func (s *Service) RemoveSubmission(ctx context.Context, entryID, submissionID string) error {
	entry, err := s.entries.GetEntry(ctx, entryID)
	if err != nil {
		return err
	}
	return s.history.Remove(ctx, s.keys.EmotionalJournal(*entry), submissionID)
}

// ============================================================================
// Archive
// ============================================================================

// Archive lists entries matching filter and joins them with stored state.
func (s *Service) Archive(ctx context.Context, filter store.EntryFilter) ([]models.ArchivedView, error) {
	entries, err := s.ListEntries(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.archive.Build(ctx, entries), nil
}

// ClearArchive removes all stored checklist state. Entries are kept.
func (s *Service) ClearArchive(ctx context.Context) (int, error) {
	return s.archive.ClearAll(ctx)
}

// Exporter returns a JSON exporter over this journal.
func (s *Service) Exporter(sort store.SortOrder) archive.Exporter {
	return &archive.JSONExporter{
		Entries:        s.entries,
		Aggregator:     s.archive,
		CatalogVersion: s.catalog.Version(),
		Sort:           sort,
	}
}

func (s *Service) checkKind(item checklist.ItemID, want checklist.Kind) error {
	kind, ok := s.catalog.Kind(item)
	if !ok {
		return errors.NewItemError(string(item), string(want), errors.ErrUnknownItem)
	}
	if kind != want {
		return errors.NewItemError(string(item), string(want), errors.ErrWrongChecklist)
	}
	return nil
}

func (s *Service) checkDraft(draft models.EmotionalDraft) error {
	for _, p := range checklist.Phases() {
		for _, id := range draft.Items(p) {
			phase, _, ok := s.catalog.PhaseOf(id)
			if !ok {
				if _, known := s.catalog.Item(id); known {
					return errors.NewItemError(string(id), string(p), errors.ErrWrongChecklist)
				}
				return errors.NewItemError(string(id), string(p), errors.ErrUnknownItem)
			}
			if phase != p {
				return errors.NewItemError(string(id), string(p), errors.ErrWrongChecklist)
			}
		}
	}
	return nil
}

// ParseItems splits comma separated item ids.
func ParseItems(values []string) []checklist.ItemID {
	var ids []checklist.ItemID
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				ids = append(ids, checklist.ItemID(part))
			}
		}
	}
	return ids
}
