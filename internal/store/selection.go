package store

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"trade-journal/internal/checklist"
	"trade-journal/internal/models"
)

// LoadStatus reports what a Lookup found under a key.
type LoadStatus int

const (
	StatusAbsent LoadStatus = iota
	StatusFound
	StatusMalformed
)

func (s LoadStatus) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusMalformed:
		return "malformed"
	}
	return "absent"
}

// ChecklistRecord is the stored payload of one selection key. The cached
// evaluation fields are written by the journal service and read back by the
// archive view.
type ChecklistRecord struct {
	Checked        checklist.Selection     `json:"checked"`
	FinalDecision  *models.Decision        `json:"finalDecision,omitempty"`
	EmotionalScore *models.DifferenceScore `json:"emotionalScore,omitempty"`
}

// LoadResult is the outcome of SelectionStore.Lookup.
type LoadResult struct {
	Record ChecklistRecord
	Status LoadStatus
}

// Selection returns the stored selection, never nil.
func (r LoadResult) Selection() checklist.Selection {
	return r.Record.Checked.Clone()
}

// SelectionStore persists per-entry checklist selections over a KV.
type SelectionStore struct {
	kv     KV
	logger zerolog.Logger
}

// NewSelectionStore creates a selection store backed by kv.
func NewSelectionStore(kv KV, logger zerolog.Logger) *SelectionStore {
	return &SelectionStore{
		kv:     kv,
		logger: logger.With().Str("component", "selections").Logger(),
	}
}

// Lookup reads the record under key. Read failures are logged and reported
// as absent; undecodable payloads are reported as malformed.
func (s *SelectionStore) Lookup(ctx context.Context, key string) LoadResult {
	data, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Failed to read selection, treating as absent")
		return emptyResult(StatusAbsent)
	}
	if !ok {
		return emptyResult(StatusAbsent)
	}

	rec, status := s.decode(key, data)
	return LoadResult{Record: rec, Status: status}
}

// Load returns the selection under key, or an empty one when nothing usable
// is stored.
func (s *SelectionStore) Load(ctx context.Context, key string) checklist.Selection {
	return s.Lookup(ctx, key).Selection()
}

// LoadRecord returns the full record under key. Absent and malformed state
// yield an empty record.
func (s *SelectionStore) LoadRecord(ctx context.Context, key string) ChecklistRecord {
	return s.Lookup(ctx, key).Record
}

// Save replaces the selection under key and keeps any cached evaluation.
func (s *SelectionStore) Save(ctx context.Context, key string, sel checklist.Selection) error {
	rec := s.LoadRecord(ctx, key)
	rec.Checked = sel
	return s.SaveRecord(ctx, key, rec)
}

// SaveRecord replaces the record under key.
func (s *SelectionStore) SaveRecord(ctx context.Context, key string, rec ChecklistRecord) error {
	if rec.Checked == nil {
		rec.Checked = checklist.Selection{}
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.kv.Put(ctx, key, data)
}

// Delete removes the record under key.
func (s *SelectionStore) Delete(ctx context.Context, key string) error {
	return s.kv.Delete(ctx, key)
}

func (s *SelectionStore) decode(key string, data []byte) (ChecklistRecord, LoadStatus) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ChecklistRecord{Checked: checklist.Selection{}}, StatusAbsent
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Malformed selection state")
		return ChecklistRecord{Checked: checklist.Selection{}}, StatusMalformed
	}

	// Older payloads stored the bare item map without the record wrapper.
	if _, wrapped := fields["checked"]; !wrapped {
		var sel checklist.Selection
		if err := json.Unmarshal(trimmed, &sel); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Malformed selection state")
			return ChecklistRecord{Checked: checklist.Selection{}}, StatusMalformed
		}
		return ChecklistRecord{Checked: sel.Clone()}, StatusFound
	}

	var rec ChecklistRecord
	if err := json.Unmarshal(fields["checked"], &rec.Checked); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Malformed selection state")
		return ChecklistRecord{Checked: checklist.Selection{}}, StatusMalformed
	}
	rec.Checked = rec.Checked.Clone()

	if raw, ok := fields["finalDecision"]; ok && !isNull(raw) {
		var d models.Decision
		if err := json.Unmarshal(raw, &d); err != nil || d.Validate() != nil {
			s.logger.Warn().Str("key", key).Msg("Dropping invalid cached decision")
		} else {
			rec.FinalDecision = &d
		}
	}
	if raw, ok := fields["emotionalScore"]; ok && !isNull(raw) {
		var score models.DifferenceScore
		if err := json.Unmarshal(raw, &score); err != nil {
			s.logger.Warn().Str("key", key).Msg("Dropping invalid cached emotional score")
		} else {
			rec.EmotionalScore = &score
		}
	}

	return rec, StatusFound
}

func emptyResult(status LoadStatus) LoadResult {
	return LoadResult{Record: ChecklistRecord{Checked: checklist.Selection{}}, Status: status}
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
