package scoring

import (
	"math"

	"trade-journal/internal/checklist"
	"trade-journal/internal/models"
)

// PhaseCount holds the number of selected good and bad items in one phase.
type PhaseCount struct {
	Phase checklist.Phase
	Good  int
	Bad   int
}

// CountPhases counts selected good and bad items per phase of a live
// emotional selection. Items outside the phase lists are ignored.
func CountPhases(cat *checklist.Catalog, sel checklist.Selection) []PhaseCount {
	counts := make([]PhaseCount, 0, 3)
	for _, p := range checklist.Phases() {
		items := cat.Phase(p)
		pc := PhaseCount{Phase: p}
		for _, it := range items.Good {
			if sel.IsSelected(it.ID) {
				pc.Good++
			}
		}
		for _, it := range items.Bad {
			if sel.IsSelected(it.ID) {
				pc.Bad++
			}
		}
		counts = append(counts, pc)
	}
	return counts
}

// DifferenceScore scores a live emotional selection: +1 for each selected
// good item and -1 for each selected bad item across all phases.
func DifferenceScore(cat *checklist.Catalog, sel checklist.Selection) models.DifferenceScore {
	var score int
	for _, pc := range CountPhases(cat, sel) {
		score += pc.Good - pc.Bad
	}
	return models.DifferenceScore(score)
}

// PercentageScore scores one emotional draft as good/(good+bad)*100, rounded
// half up. A draft with nothing selected scores 0. An item only counts when
// it belongs to the phase it was submitted under.
func PercentageScore(cat *checklist.Catalog, draft models.EmotionalDraft) models.PercentScore {
	var good, bad int
	for _, p := range checklist.Phases() {
		items := cat.Phase(p)
		seen := make(map[checklist.ItemID]bool)
		for _, id := range draft.Items(p) {
			if seen[id] {
				continue
			}
			seen[id] = true
			if contains(items.Good, id) {
				good++
			}
			if contains(items.Bad, id) {
				bad++
			}
		}
	}

	total := good + bad
	if total == 0 {
		return 0
	}
	return models.PercentScore(math.Floor(float64(good)/float64(total)*100 + 0.5))
}

// ScoreSubmissions returns the frozen score of every submission, in order.
// Scores are never recomputed against the current catalog.
func ScoreSubmissions(subs []models.EmotionalSubmission) []models.PercentScore {
	scores := make([]models.PercentScore, len(subs))
	for i, s := range subs {
		scores[i] = s.Score
	}
	return scores
}

func contains(items []checklist.CheckItem, id checklist.ItemID) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}
