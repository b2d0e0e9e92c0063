package archive

import (
	"sort"

	"trade-journal/internal/models"
)

// BandStats tallies submission outcomes inside one score band.
type BandStats struct {
	Band        models.ScoreBand `json:"band"`
	Submissions int              `json:"submissions"`
	Wins        int              `json:"wins"`
	Losses      int              `json:"losses"`
	BreakEven   int              `json:"break_even"`
	WinRate     float64          `json:"win_rate"`
}

// PairStats aggregates decisions and emotional scores per instrument.
type PairStats struct {
	Pair        string  `json:"pair"`
	Entries     int     `json:"entries"`
	Buy         int     `json:"buy"`
	Sell        int     `json:"sell"`
	Submissions int     `json:"submissions"`
	AvgScore    float64 `json:"avg_score"`

	scoreSum int
}

// Report relates emotional discipline to trade outcomes.
type Report struct {
	Summary  Summary      `json:"summary"`
	AvgScore float64      `json:"avg_score"`
	WinRate  float64      `json:"win_rate"`
	ByBand   []*BandStats `json:"by_band"`
	ByPair   []*PairStats `json:"by_pair"`
}

// BuildReport groups submissions by score band and entries by pair. Win
// rates only count submissions with a WIN or LOSS outcome. A history shared
// by several entries is tallied once.
func BuildReport(views []models.ArchivedView) Report {
	r := Report{Summary: Summarize(views)}

	bands := map[models.ScoreBand]*BandStats{}
	for _, b := range []models.ScoreBand{models.BandHigh, models.BandMedium, models.BandLow} {
		bands[b] = &BandStats{Band: b}
		r.ByBand = append(r.ByBand, bands[b])
	}
	pairs := map[string]*PairStats{}
	seen := map[string]bool{}

	var scoreSum, scored, wins, decided int
	for _, v := range views {
		ps, ok := pairs[v.Entry.Pair]
		if !ok {
			ps = &PairStats{Pair: v.Entry.Pair}
			pairs[v.Entry.Pair] = ps
			r.ByPair = append(r.ByPair, ps)
		}
		ps.Entries++
		if v.Decision != nil {
			switch v.Decision.Kind {
			case models.DecisionBuy:
				ps.Buy++
			case models.DecisionSell:
				ps.Sell++
			}
		}

		for _, sub := range ownHistory(v, seen) {
			bs := bands[sub.Score.Band()]
			bs.Submissions++
			switch sub.Outcome {
			case models.OutcomeWin:
				bs.Wins++
				wins++
				decided++
			case models.OutcomeLoss:
				bs.Losses++
				decided++
			case models.OutcomeBreakEven:
				bs.BreakEven++
			}

			ps.Submissions++
			ps.scoreSum += int(sub.Score)
			scoreSum += int(sub.Score)
			scored++
		}
	}

	for _, bs := range r.ByBand {
		bs.WinRate = rate(bs.Wins, bs.Wins+bs.Losses)
	}
	for _, ps := range r.ByPair {
		ps.AvgScore = average(ps.scoreSum, ps.Submissions)
	}
	sort.Slice(r.ByPair, func(i, j int) bool {
		if r.ByPair[i].Entries != r.ByPair[j].Entries {
			return r.ByPair[i].Entries > r.ByPair[j].Entries
		}
		return r.ByPair[i].Pair < r.ByPair[j].Pair
	})

	r.AvgScore = average(scoreSum, scored)
	r.WinRate = rate(wins, decided)
	return r
}

func rate(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func average(sum, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}
