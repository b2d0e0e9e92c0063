package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal/internal/models"
)

func submission(score int, outcome models.Outcome) models.EmotionalSubmission {
	return models.EmotionalSubmission{
		Score:          models.PercentScore(score),
		EmotionalDraft: models.EmotionalDraft{Outcome: outcome},
	}
}

func TestBuildReport(t *testing.T) {
	buy := models.Buy(2)
	sell := models.Sell(1)
	views := []models.ArchivedView{
		{
			Entry:    models.JournalEntry{ID: "a", Pair: "EURUSD"},
			Decision: &buy,
			History: []models.EmotionalSubmission{
				submission(80, models.OutcomeWin),
				submission(75, models.OutcomeLoss),
				submission(50, models.OutcomeBreakEven),
			},
		},
		{
			Entry:    models.JournalEntry{ID: "b", Pair: "EURUSD"},
			Decision: &sell,
			History:  []models.EmotionalSubmission{submission(20, models.OutcomeLoss)},
		},
		{
			Entry: models.JournalEntry{ID: "c", Pair: "AUDUSD"},
		},
	}

	r := BuildReport(views)
	assert.Equal(t, 3, r.Summary.Entries)
	assert.InDelta(t, 56.25, r.AvgScore, 0.001)
	assert.InDelta(t, 100.0/3, r.WinRate, 0.001)

	require.Len(t, r.ByBand, 3)
	high, medium, low := r.ByBand[0], r.ByBand[1], r.ByBand[2]
	assert.Equal(t, models.BandHigh, high.Band)
	assert.Equal(t, 2, high.Submissions)
	assert.InDelta(t, 50.0, high.WinRate, 0.001)
	assert.Equal(t, 1, medium.BreakEven)
	assert.Zero(t, medium.WinRate, "break-even is not a decided outcome")
	assert.Equal(t, 1, low.Losses)

	require.Len(t, r.ByPair, 2)
	assert.Equal(t, "EURUSD", r.ByPair[0].Pair)
	assert.Equal(t, 2, r.ByPair[0].Entries)
	assert.Equal(t, 1, r.ByPair[0].Buy)
	assert.Equal(t, 1, r.ByPair[0].Sell)
	assert.InDelta(t, 56.25, r.ByPair[0].AvgScore, 0.001)
	assert.Equal(t, "AUDUSD", r.ByPair[1].Pair)
	assert.Zero(t, r.ByPair[1].AvgScore)
}

func TestBuildReportSharedHistory(t *testing.T) {
	shared := []models.EmotionalSubmission{submission(90, models.OutcomeWin)}
	views := []models.ArchivedView{
		{Entry: models.JournalEntry{ID: "a", Pair: "EURUSD"}, History: shared, HistoryKey: "emotional-journal:EURUSD"},
		{Entry: models.JournalEntry{ID: "b", Pair: "EURUSD"}, History: shared, HistoryKey: "emotional-journal:EURUSD"},
		{Entry: models.JournalEntry{ID: "c", Pair: "EURUSD"}, History: shared, HistoryKey: "emotional-journal:EURUSD"},
	}

	r := BuildReport(views)
	assert.Equal(t, 3, r.Summary.Entries)
	assert.Equal(t, 1, r.Summary.Submissions)
	assert.InDelta(t, 90.0, r.AvgScore, 0.001)
	assert.InDelta(t, 100.0, r.WinRate, 0.001)

	high := r.ByBand[0]
	assert.Equal(t, 1, high.Submissions)
	assert.Equal(t, 1, high.Wins)

	require.Len(t, r.ByPair, 1)
	assert.Equal(t, 3, r.ByPair[0].Entries)
	assert.Equal(t, 1, r.ByPair[0].Submissions)
	assert.InDelta(t, 90.0, r.ByPair[0].AvgScore, 0.001)
}

func TestBuildReportEmpty(t *testing.T) {
	r := BuildReport(nil)
	assert.Zero(t, r.WinRate)
	assert.Len(t, r.ByBand, 3)
	assert.Empty(t, r.ByPair)
}
