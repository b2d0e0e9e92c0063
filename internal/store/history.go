package store

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"trade-journal/internal/errors"
	"trade-journal/internal/models"
)

// EmotionalJournal stores submitted emotional entries as an append-only list
// per key.
type EmotionalJournal struct {
	kv     KV
	logger zerolog.Logger
}

// NewEmotionalJournal creates an emotional journal backed by kv.
func NewEmotionalJournal(kv KV, logger zerolog.Logger) *EmotionalJournal {
	return &EmotionalJournal{
		kv:     kv,
		logger: logger.With().Str("component", "emotional_journal").Logger(),
	}
}

// Lookup returns the submissions under key in submission order together with
// the load status.
func (j *EmotionalJournal) Lookup(ctx context.Context, key string) ([]models.EmotionalSubmission, LoadStatus) {
	data, ok, err := j.kv.Get(ctx, key)
	if err != nil {
		j.logger.Warn().Err(err).Str("key", key).Msg("Failed to read emotional journal, treating as absent")
		return nil, StatusAbsent
	}
	if !ok || len(data) == 0 || isNull(data) {
		return nil, StatusAbsent
	}

	var subs []models.EmotionalSubmission
	if err := json.Unmarshal(data, &subs); err != nil {
		j.logger.Warn().Err(err).Str("key", key).Msg("Malformed emotional journal")
		return nil, StatusMalformed
	}
	return subs, StatusFound
}

// List returns the submissions under key. Missing or malformed history is
// empty.
func (j *EmotionalJournal) List(ctx context.Context, key string) []models.EmotionalSubmission {
	subs, _ := j.Lookup(ctx, key)
	return subs
}

// Append adds sub to the end of the history under key. Malformed history is
// replaced.
func (j *EmotionalJournal) Append(ctx context.Context, key string, sub models.EmotionalSubmission) error {
	subs := j.List(ctx, key)
	subs = append(subs, sub)
	return j.write(ctx, key, subs)
}

// Remove deletes the submission with id from the history under key.
func (j *EmotionalJournal) Remove(ctx context.Context, key, id string) error {
	subs := j.List(ctx, key)
	for i, sub := range subs {
		if sub.ID != id {
			continue
		}
		subs = append(subs[:i], subs[i+1:]...)
		if len(subs) == 0 {
			return j.kv.Delete(ctx, key)
		}
		return j.write(ctx, key, subs)
	}
	return errors.Wrapf(errors.ErrSubmissionNotFound, "submission %s", id)
}

// Delete removes the whole history under key.
func (j *EmotionalJournal) Delete(ctx context.Context, key string) error {
	return j.kv.Delete(ctx, key)
}

func (j *EmotionalJournal) write(ctx context.Context, key string, subs []models.EmotionalSubmission) error {
	data, err := json.Marshal(subs)
	if err != nil {
		return err
	}
	return j.kv.Put(ctx, key, data)
}
