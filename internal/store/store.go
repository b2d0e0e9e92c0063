// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"trade-journal/internal/errors"
	"trade-journal/internal/models"
)

// KV is the keyed persistence transport. Values are opaque bytes; Put
// replaces the whole value so a later Get never observes a partial write.
type KV interface {
	// Get returns the value stored under key. ok is false when nothing is stored.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists stored keys starting with prefix, in ascending order.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// EntryRepository stores the journal entries the engine reports on. Entries
// are owned by the journal front end; the engine only reads them.
type EntryRepository interface {
	SaveEntry(ctx context.Context, entry *models.JournalEntry) error
	GetEntry(ctx context.Context, id string) (*models.JournalEntry, error)
	ListEntries(ctx context.Context, filter EntryFilter) ([]models.JournalEntry, error)
	DeleteEntry(ctx context.Context, id string) error
}

// SortOrder controls the order of ListEntries.
type SortOrder string

const (
	SortDateDesc SortOrder = "date-desc"
	SortDateAsc  SortOrder = "date-asc"
	SortPairAsc  SortOrder = "pair-asc"
	SortPairDesc SortOrder = "pair-desc"
)

// ParseSortOrder validates a sort option. An empty string means date-desc.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case "":
		return SortDateDesc, nil
	case SortDateDesc, SortDateAsc, SortPairAsc, SortPairDesc:
		return SortOrder(s), nil
	}
	return "", errors.NewValidationError("sort", s, "must be date-desc, date-asc, pair-asc or pair-desc")
}

// EntryFilter represents filters for querying journal entries.
type EntryFilter struct {
	Pair      string
	Session   models.Session
	StartDate time.Time
	EndDate   time.Time
	Sort      SortOrder
	Limit     int
}

// NewID returns a new lexically sortable identifier for entries and
// emotional submissions.
func NewID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), ulid.DefaultEntropy()).String()
}
