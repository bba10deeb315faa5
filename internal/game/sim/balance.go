package sim

import (
	"fmt"
	"sort"
	"strings"
)

// Range is an inclusive [min, max] target band.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) outside(v float64) bool { return v < r.Min || v > r.Max }

// Targets are the per-game bands a healthy rule set should land in.
type Targets struct {
	TDsPerGame       Range `json:"tdsPerGame"`
	INTsPerGame      Range `json:"intsPerGame"`
	FumblesPerGame   Range `json:"fumblesPerGame"`
	AvgPointsPerGame Range `json:"avgPointsPerGame"`
	AvgPlaysPerGame  Range `json:"avgPlaysPerGame"`
	SuccessRate      Range `json:"successRate"`
	AvgYardsPerPlay  Range `json:"avgYardsPerPlay"`
}

// DefaultTargets returns the tuned target bands for the current rule set.
func DefaultTargets() Targets {
	return Targets{
		TDsPerGame:       Range{1.5, 3.5},
		INTsPerGame:      Range{0.8, 2.5},
		FumblesPerGame:   Range{1.0, 3.0},
		AvgPointsPerGame: Range{14, 28},
		AvgPlaysPerGame:  Range{55, 85},
		SuccessRate:      Range{0.4, 0.6},
		AvgYardsPerPlay:  Range{3.5, 5.5},
	}
}

// Advice lists detected balance issues and candidate rule tweaks.
type Advice struct {
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

// RecommendTweaks inspects a report's aggregate rates against the target
// bands and suggests concrete rule adjustments for anything out of band.
func RecommendTweaks(report *Report, targets Targets) Advice {
	var advice Advice
	agg := report.Aggregate

	if targets.INTsPerGame.outside(agg.INTsPerGame) {
		delta := agg.INTsPerGame - targets.INTsPerGame.Max
		advice.Issues = append(advice.Issues, fmt.Sprintf("INTs too high by %.2f/game", delta))
		advice.Recommendations = append(advice.Recommendations,
			"Interceptions only on failed passes.",
			"Interceptions only at Pressure High.",
			"Increase INT threshold to require >=3 ones.",
			"Use defense strategy 'guessy' to reduce perfect counters.")
	}
	if targets.FumblesPerGame.outside(agg.FumblesPerGame) {
		delta := agg.FumblesPerGame - targets.FumblesPerGame.Max
		advice.Issues = append(advice.Issues, fmt.Sprintf("Fumbles too high by %.2f/game", delta))
		advice.Recommendations = append(advice.Recommendations,
			"Gate fumbles to gains of 6+ yards.",
			"Change fumble recovery from 50% to 33% (offense keeps more).",
			"Increase fumble threshold to require >=3 sixes.")
	}
	if targets.AvgPointsPerGame.outside(agg.AvgPointsPerGame) || targets.TDsPerGame.outside(agg.TDsPerGame) {
		advice.Issues = append(advice.Issues, "Scoring outside target range.")
		advice.Recommendations = append(advice.Recommendations,
			"Increase mid-tier yard values by +1 on lowest-performing cards.",
			"Raise Deep Shell downgrade from +12 to +15 yards.",
			fmt.Sprintf("Adjust target sets/success odds for: %s", strings.Join(lowestPerformers(report, 6), ", ")))
	}
	if targets.AvgPlaysPerGame.outside(agg.AvgPlaysPerGame) {
		dir := "Increase"
		if agg.AvgPlaysPerGame > targets.AvgPlaysPerGame.Max {
			dir = "Reduce"
		}
		advice.Recommendations = append(advice.Recommendations,
			fmt.Sprintf("%s per-play time costs by ~5 seconds.", dir))
	}
	if targets.SuccessRate.outside(agg.SuccessRate) {
		advice.Issues = append(advice.Issues, "Success rate outside target.")
		advice.Recommendations = append(advice.Recommendations,
			"Adjust card targets to shift success odds slightly (+/- easiest target).")
	}
	if targets.AvgYardsPerPlay.outside(agg.AvgYardsPerPlay) {
		advice.Issues = append(advice.Issues, "Yards/play outside target.")
		advice.Recommendations = append(advice.Recommendations,
			"Tweak mid-tier yard rewards (+/-1) on balanced plays.")
	}

	return advice
}

// lowestPerformers names the n cards with the worst yards-per-play.
func lowestPerformers(report *Report, n int) []string {
	cards := make([]CardReport, len(report.Cards))
	copy(cards, report.Cards)
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].YardsPerPlay < cards[j].YardsPerPlay
	})
	names := make([]string, 0, n)
	for _, c := range cards {
		if len(names) == n {
			break
		}
		names = append(names, c.Name)
	}
	return names
}
