package store

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal/internal/checklist"
	"trade-journal/internal/errors"
	"trade-journal/internal/models"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := NewSQLiteStore(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// backends runs fn against every KV implementation.
func backends(t *testing.T, fn func(t *testing.T, kv KV)) {
	t.Run("memory", func(t *testing.T) { fn(t, NewMemoryKV()) })
	t.Run("sqlite", func(t *testing.T) { fn(t, newTestSQLite(t)) })
}

func TestKV(t *testing.T) {
	backends(t, func(t *testing.T, kv KV) {
		ctx := context.Background()

		_, ok, err := kv.Get(ctx, "checklist:1")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, kv.Put(ctx, "checklist:1", []byte(`{"a":true}`)))
		require.NoError(t, kv.Put(ctx, "checklist:2", []byte(`{}`)))
		require.NoError(t, kv.Put(ctx, "emotional:1", []byte(`{}`)))
		require.NoError(t, kv.Put(ctx, "checklist:1", []byte(`{"b":true}`)))

		v, ok, err := kv.Get(ctx, "checklist:1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"b":true}`, string(v))

		keys, err := kv.Keys(ctx, "checklist:")
		require.NoError(t, err)
		assert.Equal(t, []string{"checklist:1", "checklist:2"}, keys)

		require.NoError(t, kv.Delete(ctx, "checklist:1"))
		require.NoError(t, kv.Delete(ctx, "missing"))
		_, ok, _ = kv.Get(ctx, "checklist:1")
		assert.False(t, ok)
	})
}

func TestSelectionStoreLookup(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := NewSelectionStore(kv, zerolog.Nop())

	tests := []struct {
		name    string
		payload string
		status  LoadStatus
		want    checklist.Selection
	}{
		{"record", `{"checked":{"step1.discount":true,"step2.asian_liquidity":false}}`, StatusFound,
			checklist.Selection{checklist.ItemBuyZone: true, "step2.asian_liquidity": false}},
		{"legacy bare map", `{"step1.premium":true}`, StatusFound,
			checklist.Selection{checklist.ItemSellZone: true}},
		{"null", `null`, StatusAbsent, checklist.Selection{}},
		{"not json", `{not json`, StatusMalformed, checklist.Selection{}},
		{"wrong shape", `["step1.discount"]`, StatusMalformed, checklist.Selection{}},
		{"wrong value type", `{"checked":{"step1.discount":"yes"}}`, StatusMalformed, checklist.Selection{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, kv.Put(ctx, "checklist:x", []byte(tt.payload)))
			res := s.Lookup(ctx, "checklist:x")
			assert.Equal(t, tt.status, res.Status)
			assert.True(t, res.Selection().Equal(tt.want), "got %v", res.Selection())
		})
	}

	t.Run("absent", func(t *testing.T) {
		res := s.Lookup(ctx, "checklist:none")
		assert.Equal(t, StatusAbsent, res.Status)
		assert.NotNil(t, s.Load(ctx, "checklist:none"))
		assert.Empty(t, s.Load(ctx, "checklist:none"))
	})
}

func TestSelectionStoreDropsInvalidCachedDecision(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := NewSelectionStore(kv, zerolog.Nop())

	require.NoError(t, kv.Put(ctx, "checklist:1",
		[]byte(`{"checked":{"step1.discount":true},"finalDecision":{"kind":"BUY","risk_percent":9},"emotionalScore":3}`)))

	rec := s.LoadRecord(ctx, "checklist:1")
	assert.Nil(t, rec.FinalDecision)
	require.NotNil(t, rec.EmotionalScore)
	assert.Equal(t, models.DifferenceScore(3), *rec.EmotionalScore)
	assert.True(t, rec.Checked.IsSelected(checklist.ItemBuyZone))
}

func TestSelectionStoreRecordFormat(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := NewSelectionStore(kv, zerolog.Nop())

	d := models.Sell(3)
	require.NoError(t, s.SaveRecord(ctx, "checklist:1", ChecklistRecord{
		Checked:       checklist.NewSelection(checklist.ItemSellZone),
		FinalDecision: &d,
	}))

	raw, ok, err := kv.Get(ctx, "checklist:1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"checked":{"step1.premium":true},"finalDecision":{"kind":"SELL","risk_percent":3}}`, string(raw))

	require.NoError(t, s.Delete(ctx, "checklist:1"))
	assert.Equal(t, StatusAbsent, s.Lookup(ctx, "checklist:1").Status)
}

func TestEmotionalJournal(t *testing.T) {
	backends(t, func(t *testing.T, kv KV) {
		ctx := context.Background()
		j := NewEmotionalJournal(kv, zerolog.Nop())
		key := EntryScoped(KindEmotionalJournal, "e1")

		assert.Empty(t, j.List(ctx, key))

		for i, score := range []models.PercentScore{75, 20, 50} {
			sub := models.EmotionalSubmission{
				ID:          NewID(time.Now()),
				SubmittedAt: time.Now().Add(time.Duration(i) * time.Second),
				Score:       score,
			}
			require.NoError(t, j.Append(ctx, key, sub))
		}

		subs := j.List(ctx, key)
		require.Len(t, subs, 3)
		assert.Equal(t, models.PercentScore(75), subs[0].Score)
		assert.Equal(t, models.PercentScore(50), subs[2].Score)

		require.NoError(t, j.Remove(ctx, key, subs[1].ID))
		left := j.List(ctx, key)
		require.Len(t, left, 2)
		assert.Equal(t, subs[0].ID, left[0].ID)
		assert.Equal(t, subs[2].ID, left[1].ID)

		err := j.Remove(ctx, key, "nope")
		assert.True(t, errors.Is(err, errors.ErrSubmissionNotFound))

		require.NoError(t, j.Delete(ctx, key))
		_, status := j.Lookup(ctx, key)
		assert.Equal(t, StatusAbsent, status)
	})
}

func TestEmotionalJournalMalformed(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	j := NewEmotionalJournal(kv, zerolog.Nop())

	require.NoError(t, kv.Put(ctx, "emotional-journal:e1", []byte(`{"before":[]}`)))
	subs, status := j.Lookup(ctx, "emotional-journal:e1")
	assert.Nil(t, subs)
	assert.Equal(t, StatusMalformed, status)

	require.NoError(t, j.Append(ctx, "emotional-journal:e1", models.EmotionalSubmission{ID: "a", Score: 10}))
	assert.Len(t, j.List(ctx, "emotional-journal:e1"), 1)
}

func TestKeys(t *testing.T) {
	a := models.JournalEntry{ID: "a", Pair: "EURUSD"}
	b := models.JournalEntry{ID: "b", Pair: "eur/usd"}
	c := models.JournalEntry{ID: "c", Pair: "GBPJPY"}

	entry := NewKeys("")
	assert.Equal(t, KeyPolicyEntry, entry.Policy)
	assert.Equal(t, "checklist:a", entry.TradePlan("a"))
	assert.Equal(t, "emotional:a", entry.Emotional("a"))
	assert.Equal(t, "emotional-journal:a", entry.EmotionalJournal(a))
	assert.False(t, entry.SharesEmotionalJournal(a, b))

	pair := NewKeys(KeyPolicyPair)
	assert.Equal(t, "checklist:a", pair.TradePlan("a"))
	assert.Equal(t, "emotional-journal:EURUSD", pair.EmotionalJournal(a))
	assert.True(t, pair.SharesEmotionalJournal(a, b))
	assert.False(t, pair.SharesEmotionalJournal(a, c))

	_, err := ParseKeyPolicy("global")
	assert.True(t, errors.Is(err, errors.ErrInputValidation))
	p, err := ParseKeyPolicy(" Pair ")
	require.NoError(t, err)
	assert.Equal(t, KeyPolicyPair, p)
}

func entryRepos(t *testing.T, fn func(t *testing.T, repo EntryRepository)) {
	t.Run("memory", func(t *testing.T) { fn(t, NewMemoryEntries()) })
	t.Run("sqlite", func(t *testing.T) { fn(t, newTestSQLite(t)) })
}

func TestEntryRepository(t *testing.T) {
	entryRepos(t, func(t *testing.T, repo EntryRepository) {
		ctx := context.Background()
		day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }

		entries := []models.JournalEntry{
			{ID: "1", Pair: "GBPUSD", Date: day(3), Session: models.SessionLondon},
			{ID: "2", Pair: "EURUSD", Date: day(1), Session: models.SessionNewYork, Images: map[string]string{"m15": "a.png"}},
			{ID: "3", Pair: "XAUUSD", Date: day(2), Session: models.SessionNewYork, Notes: "sweep"},
		}
		for i := range entries {
			require.NoError(t, repo.SaveEntry(ctx, &entries[i]))
		}

		got, err := repo.GetEntry(ctx, "2")
		require.NoError(t, err)
		assert.Equal(t, "EURUSD", got.Pair)
		assert.True(t, got.Date.Equal(day(1)))
		assert.Equal(t, "a.png", got.Images["m15"])

		ids := func(filter EntryFilter) []string {
			list, err := repo.ListEntries(ctx, filter)
			require.NoError(t, err)
			var out []string
			for _, e := range list {
				out = append(out, e.ID)
			}
			return out
		}

		assert.Equal(t, []string{"1", "3", "2"}, ids(EntryFilter{}))
		assert.Equal(t, []string{"2", "3", "1"}, ids(EntryFilter{Sort: SortDateAsc}))
		assert.Equal(t, []string{"2", "1", "3"}, ids(EntryFilter{Sort: SortPairAsc}))
		assert.Equal(t, []string{"3", "1", "2"}, ids(EntryFilter{Sort: SortPairDesc}))
		assert.Equal(t, []string{"3", "2"}, ids(EntryFilter{Session: models.SessionNewYork}))
		assert.Equal(t, []string{"1"}, ids(EntryFilter{Limit: 1}))
		assert.Equal(t, []string{"3"}, ids(EntryFilter{Pair: "XAUUSD"}))

		require.NoError(t, repo.DeleteEntry(ctx, "1"))
		_, err = repo.GetEntry(ctx, "1")
		assert.True(t, errors.Is(err, errors.ErrEntryNotFound))
		assert.True(t, errors.Is(repo.DeleteEntry(ctx, "1"), errors.ErrEntryNotFound))

		assert.True(t, errors.Is(repo.SaveEntry(ctx, &models.JournalEntry{}), errors.ErrInputValidation))
	})
}

func TestSQLiteMalformedImages(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	db, err := NewSQLiteStore(filepath.Join(t.TempDir(), "journal.db"), WithStoreLogger(zerolog.New(&logs)))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	entry := &models.JournalEntry{
		ID:     "e1",
		Pair:   "EURUSD",
		Date:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Images: map[string]string{"entry": "chart.png"},
	}
	require.NoError(t, db.SaveEntry(ctx, entry))

	got, err := db.GetEntry(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "chart.png", got.Images["entry"])

	_, err = db.db.ExecContext(ctx, `UPDATE entries SET images = '{not json' WHERE id = ?`, "e1")
	require.NoError(t, err)

	got, err = db.GetEntry(ctx, "e1")
	require.NoError(t, err, "a corrupt images column does not hide the entry")
	assert.Nil(t, got.Images)
	assert.Contains(t, logs.String(), "Malformed images column")
	assert.Contains(t, logs.String(), `"entry_id":"e1"`)
}

func TestParseSortOrder(t *testing.T) {
	s, err := ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, SortDateDesc, s)

	s, err = ParseSortOrder("pair-desc")
	require.NoError(t, err)
	assert.Equal(t, SortPairDesc, s)

	_, err = ParseSortOrder("random")
	assert.Error(t, err)
}

func TestNewIDIsSortable(t *testing.T) {
	a := NewID(time.Unix(1000, 0))
	b := NewID(time.Unix(2000, 0))
	assert.Len(t, a, 26)
	assert.Less(t, a, b)
}
