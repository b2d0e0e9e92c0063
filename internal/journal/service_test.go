package journal

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal/internal/checklist"
	"trade-journal/internal/errors"
	"trade-journal/internal/models"
	"trade-journal/internal/store"
)

type fixture struct {
	svc     *Service
	kv      *store.MemoryKV
	entries *store.MemoryEntries
}

func newFixture(t *testing.T, policy store.KeyPolicy) *fixture {
	t.Helper()
	kv := store.NewMemoryKV()
	entries := store.NewMemoryEntries()
	clock := time.Date(2024, 5, 1, 13, 30, 0, 0, time.UTC)
	svc := NewService(checklist.Default(), kv, entries, policy, zerolog.Nop(), WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))
	return &fixture{svc: svc, kv: kv, entries: entries}
}

func (f *fixture) addEntry(t *testing.T, id, pair string) models.JournalEntry {
	t.Helper()
	e := models.JournalEntry{ID: id, Pair: pair, Session: models.SessionNewYork}
	require.NoError(t, f.svc.AddEntry(context.Background(), &e))
	return e
}

func (f *fixture) toggle(t *testing.T, entryID string, ids ...checklist.ItemID) {
	t.Helper()
	for _, id := range ids {
		_, err := f.svc.ToggleTradeItem(context.Background(), entryID, id)
		require.NoError(t, err)
	}
}

// gatingItems ticks one item of every gating step except step 1.
var gatingItems = []checklist.ItemID{
	"step2.asian_liquidity",
	"step3.pdl",
	"step4.london_grab",
	"step5.ob_15m",
	"step6.breaker",
	"step7.ny_continuation",
}

func TestEvaluateDecisionFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, store.KeyPolicyEntry)
	f.addEntry(t, "e1", "eurusd")

	d, err := f.svc.EvaluateDecision(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, models.Incomplete(), d)

	f.toggle(t, "e1", gatingItems...)
	d, err = f.svc.EvaluateDecision(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, models.Incomplete(), d, "step 1 is still unsatisfied")

	f.toggle(t, "e1", checklist.ItemBuyZone)
	d, err = f.svc.EvaluateDecision(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, models.Buy(1), d)

	f.toggle(t, "e1", checklist.ItemDailyOpen, checklist.ItemMonthlyOpen)
	d, err = f.svc.EvaluateDecision(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, models.Buy(3), d)
	assert.Equal(t, "Enter BUY with 3% risk", d.String())

	rec, err := f.svc.TradePlan(ctx, "e1")
	require.NoError(t, err)
	require.NotNil(t, rec.FinalDecision)
	assert.Equal(t, models.Buy(3), *rec.FinalDecision)

	f.toggle(t, "e1", checklist.ItemSellZone)
	rec, err = f.svc.TradePlan(ctx, "e1")
	require.NoError(t, err)
	assert.Nil(t, rec.FinalDecision, "toggling drops the cached decision")

	d, err = f.svc.EvaluateDecision(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, models.NoDirection(), d)
}

func TestToggleValidatesItems(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, store.KeyPolicyEntry)
	f.addEntry(t, "e1", "EURUSD")

	_, err := f.svc.ToggleTradeItem(ctx, "e1", "step99.nothing")
	assert.True(t, errors.Is(err, errors.ErrUnknownItem))

	_, err = f.svc.ToggleTradeItem(ctx, "e1", "before.good.patient")
	assert.True(t, errors.Is(err, errors.ErrWrongChecklist))

	_, err = f.svc.ToggleEmotionalItem(ctx, "e1", checklist.ItemBuyZone)
	assert.True(t, errors.Is(err, errors.ErrWrongChecklist))

	_, err = f.svc.ToggleTradeItem(ctx, "missing", checklist.ItemBuyZone)
	assert.True(t, errors.Is(err, errors.ErrEntryNotFound))

	sel, err := f.svc.ToggleTradeItem(ctx, "e1", checklist.ItemBuyZone)
	require.NoError(t, err)
	assert.True(t, sel.IsSelected(checklist.ItemBuyZone))
	sel, err = f.svc.ToggleTradeItem(ctx, "e1", checklist.ItemBuyZone)
	require.NoError(t, err)
	assert.False(t, sel.IsSelected(checklist.ItemBuyZone))
}

func TestEmotionalDifferenceFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, store.KeyPolicyEntry)
	f.addEntry(t, "e1", "XAUUSD")

	for _, id := range []checklist.ItemID{"before.good.followed_plan", "during.good.calm", "after.good.reviewed", "during.bad.panic"} {
		_, err := f.svc.ToggleEmotionalItem(ctx, "e1", id)
		require.NoError(t, err)
	}

	score, err := f.svc.EvaluateEmotions(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, models.DifferenceScore(2), score)
	assert.Equal(t, models.StabilityStable, score.Stability())

	rec, err := f.svc.Emotions(ctx, "e1")
	require.NoError(t, err)
	require.NotNil(t, rec.EmotionalScore)
	assert.Equal(t, models.DifferenceScore(2), *rec.EmotionalScore)

	// Trade-plan state is untouched.
	plan, err := f.svc.TradePlan(ctx, "e1")
	require.NoError(t, err)
	assert.Empty(t, plan.Checked)
}

func TestSubmitAndHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, store.KeyPolicyEntry)
	f.addEntry(t, "e1", "EURUSD")

	sub, err := f.svc.Submit(ctx, "e1", models.EmotionalDraft{
		Before:  []checklist.ItemID{"before.good.followed_plan"},
		During:  []checklist.ItemID{"during.good.calm", "during.bad.panic"},
		After:   []checklist.ItemID{"after.good.reviewed"},
		Outcome: models.OutcomeWin,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PercentScore(75), sub.Score)
	assert.NotEmpty(t, sub.ID)

	second, err := f.svc.Submit(ctx, "e1", models.EmotionalDraft{})
	require.NoError(t, err)
	assert.Equal(t, models.PercentScore(0), second.Score)

	history, err := f.svc.History(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, sub.ID, history[0].ID)
	assert.Equal(t, models.OutcomeWin, history[0].Outcome)

	require.NoError(t, f.svc.RemoveSubmission(ctx, "e1", sub.ID))
	history, err = f.svc.History(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, second.ID, history[0].ID)

	err = f.svc.RemoveSubmission(ctx, "e1", sub.ID)
	assert.True(t, errors.Is(err, errors.ErrSubmissionNotFound))
}

func TestSubmitRejectsMisplacedItems(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, store.KeyPolicyEntry)
	f.addEntry(t, "e1", "EURUSD")

	_, err := f.svc.Submit(ctx, "e1", models.EmotionalDraft{Before: []checklist.ItemID{"after.good.reviewed"}})
	assert.True(t, errors.Is(err, errors.ErrWrongChecklist))

	_, err = f.svc.Submit(ctx, "e1", models.EmotionalDraft{During: []checklist.ItemID{checklist.ItemBuyZone}})
	assert.True(t, errors.Is(err, errors.ErrWrongChecklist))

	_, err = f.svc.Submit(ctx, "e1", models.EmotionalDraft{After: []checklist.ItemID{"after.good.nonsense"}})
	assert.True(t, errors.Is(err, errors.ErrUnknownItem))

	history, err := f.svc.History(ctx, "e1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestDeleteEntryPurgesState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, store.KeyPolicyEntry)
	f.addEntry(t, "e1", "EURUSD")
	f.addEntry(t, "e2", "EURUSD")

	for _, id := range []string{"e1", "e2"} {
		f.toggle(t, id, checklist.ItemBuyZone)
		_, err := f.svc.EvaluateDecision(ctx, id)
		require.NoError(t, err)
		_, err = f.svc.ToggleEmotionalItem(ctx, id, "before.bad.fomo")
		require.NoError(t, err)
		_, err = f.svc.Submit(ctx, id, models.EmotionalDraft{Before: []checklist.ItemID{"before.good.patient"}})
		require.NoError(t, err)
	}

	require.NoError(t, f.svc.DeleteEntry(ctx, "e1"))

	for _, key := range []string{"checklist:e1", "emotional:e1", "emotional-journal:e1"} {
		_, ok, err := f.kv.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, "%s should be purged", key)
	}

	views, err := f.svc.Archive(ctx, store.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "e2", views[0].Entry.ID)
	assert.True(t, views[0].Evaluated())
	assert.Len(t, views[0].History, 1)

	assert.True(t, errors.Is(f.svc.DeleteEntry(ctx, "e1"), errors.ErrEntryNotFound))
}

// deleteFailingKV refuses every delete.
type deleteFailingKV struct {
	*store.MemoryKV
}

func (deleteFailingKV) Delete(context.Context, string) error {
	return errors.NewStoreError("delete", "", errors.ErrDatabaseError)
}

func TestDeleteEntryKeepsEntryWhenPurgeFails(t *testing.T) {
	ctx := context.Background()
	kv := deleteFailingKV{store.NewMemoryKV()}
	entries := store.NewMemoryEntries()
	svc := NewService(checklist.Default(), kv, entries, store.KeyPolicyEntry, zerolog.Nop())

	e := models.JournalEntry{ID: "e1", Pair: "EURUSD"}
	require.NoError(t, svc.AddEntry(ctx, &e))
	_, err := svc.ToggleTradeItem(ctx, "e1", checklist.ItemBuyZone)
	require.NoError(t, err)

	assert.Error(t, svc.DeleteEntry(ctx, "e1"))

	_, err = svc.GetEntry(ctx, "e1")
	assert.NoError(t, err, "entry stays until its state is purged")
}

func TestPairPolicySharesHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, store.KeyPolicyPair)
	f.addEntry(t, "e1", "EUR/USD")
	f.addEntry(t, "e2", "eurusd")
	f.addEntry(t, "e3", "GBPUSD")

	_, err := f.svc.Submit(ctx, "e1", models.EmotionalDraft{Before: []checklist.ItemID{"before.good.patient"}})
	require.NoError(t, err)

	shared, err := f.svc.History(ctx, "e2")
	require.NoError(t, err)
	assert.Len(t, shared, 1, "entries on the same pair share history")

	other, err := f.svc.History(ctx, "e3")
	require.NoError(t, err)
	assert.Empty(t, other)

	// Deleting one of two entries on the pair keeps the shared history.
	require.NoError(t, f.svc.DeleteEntry(ctx, "e1"))
	shared, err = f.svc.History(ctx, "e2")
	require.NoError(t, err)
	assert.Len(t, shared, 1)

	// Deleting the last one removes it.
	require.NoError(t, f.svc.DeleteEntry(ctx, "e2"))
	_, ok, err := f.kv.Get(ctx, "emotional-journal:EURUSD")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEntryPolicyIsolatesHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, store.KeyPolicyEntry)
	f.addEntry(t, "e1", "EURUSD")
	f.addEntry(t, "e2", "EURUSD")

	_, err := f.svc.Submit(ctx, "e1", models.EmotionalDraft{Before: []checklist.ItemID{"before.good.patient"}})
	require.NoError(t, err)

	history, err := f.svc.History(ctx, "e2")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAddEntryValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, store.KeyPolicyEntry)

	err := f.svc.AddEntry(ctx, &models.JournalEntry{Pair: " / "})
	assert.True(t, errors.Is(err, errors.ErrInputValidation))

	e := models.JournalEntry{Pair: "gbp-jpy"}
	require.NoError(t, f.svc.AddEntry(ctx, &e))
	assert.Len(t, e.ID, 26)
	assert.Equal(t, "GBPJPY", e.Pair)
	assert.False(t, e.Date.IsZero())

	list, err := f.svc.ListEntries(ctx, store.EntryFilter{Pair: "gbp/jpy"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestClearArchive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, store.KeyPolicyEntry)
	f.addEntry(t, "e1", "EURUSD")
	f.toggle(t, "e1", checklist.ItemBuyZone)
	_, err := f.svc.ToggleEmotionalItem(ctx, "e1", "before.good.patient")
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, "e1", models.EmotionalDraft{})
	require.NoError(t, err)
	require.NoError(t, f.kv.Put(ctx, "unrelated", []byte("x")))

	n, err := f.svc.ClearArchive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, ok, _ := f.kv.Get(ctx, "unrelated")
	assert.True(t, ok)

	// Entries survive.
	_, err = f.svc.GetEntry(ctx, "e1")
	assert.NoError(t, err)
}

func TestParseItems(t *testing.T) {
	got := ParseItems([]string{"a, b", "", "c"})
	assert.Equal(t, []checklist.ItemID{"a", "b", "c"}, got)
}
