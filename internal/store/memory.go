package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"trade-journal/internal/errors"
	"trade-journal/internal/models"
)

// MemoryKV is an in-process KV. It is used for tests and the memory storage
// driver.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryKV creates an empty in-memory KV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemoryKV) Put(_ context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)

	m.mu.Lock()
	m.data[key] = v
	m.mu.Unlock()
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryKV) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MemoryKV) Close() error { return nil }

// MemoryEntries is an in-process EntryRepository.
type MemoryEntries struct {
	mu      sync.RWMutex
	entries map[string]models.JournalEntry
}

// NewMemoryEntries creates an empty entry repository.
func NewMemoryEntries() *MemoryEntries {
	return &MemoryEntries{entries: make(map[string]models.JournalEntry)}
}

func (m *MemoryEntries) SaveEntry(_ context.Context, entry *models.JournalEntry) error {
	if entry.ID == "" {
		return errors.NewValidationError("id", entry.ID, "entry id is required")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	m.mu.Lock()
	m.entries[entry.ID] = *entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryEntries) GetEntry(_ context.Context, id string) (*models.JournalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrEntryNotFound, "entry %s", id)
	}
	return &e, nil
}

func (m *MemoryEntries) ListEntries(_ context.Context, filter EntryFilter) ([]models.JournalEntry, error) {
	m.mu.RLock()
	var out []models.JournalEntry
	for _, e := range m.entries {
		if filter.Pair != "" && e.Pair != filter.Pair {
			continue
		}
		if filter.Session != "" && e.Session != filter.Session {
			continue
		}
		if !filter.StartDate.IsZero() && e.Date.Before(filter.StartDate) {
			continue
		}
		if !filter.EndDate.IsZero() && e.Date.After(filter.EndDate) {
			continue
		}
		out = append(out, e)
	}
	m.mu.RUnlock()

	SortEntries(out, filter.Sort)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *MemoryEntries) DeleteEntry(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[id]; !ok {
		return errors.Wrapf(errors.ErrEntryNotFound, "entry %s", id)
	}
	delete(m.entries, id)
	return nil
}

// SortEntries orders entries in place the same way SQLiteStore.ListEntries
// does.
func SortEntries(entries []models.JournalEntry, order SortOrder) {
	byDateDesc := func(a, b models.JournalEntry) bool {
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.ID > b.ID
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch order {
		case SortDateAsc:
			if !a.Date.Equal(b.Date) {
				return a.Date.Before(b.Date)
			}
			return a.ID < b.ID
		case SortPairAsc:
			if a.Pair != b.Pair {
				return a.Pair < b.Pair
			}
			return byDateDesc(a, b)
		case SortPairDesc:
			if a.Pair != b.Pair {
				return a.Pair > b.Pair
			}
			return byDateDesc(a, b)
		}
		return byDateDesc(a, b)
	})
}
