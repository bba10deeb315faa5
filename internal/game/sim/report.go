package sim

import (
	"time"

	"github.com/cory-johannsen/drivecontrol/internal/game/deck"
	"github.com/cory-johannsen/drivecontrol/internal/game/rules"
)

// Meta records the run configuration so reports stay comparable.
type Meta struct {
	Games            int             `json:"games"`
	Seed             uint64          `json:"seed"`
	Quarters         int             `json:"quarters"`
	QuarterLengthSec int             `json:"quarterLengthSec"`
	PaceMultiplier   float64         `json:"paceMultiplier"`
	OffenseStrategy  OffenseStrategy `json:"offenseStrategy"`
	DefenseStrategy  DefenseStrategy `json:"defenseStrategy"`
	RulesVersion     string          `json:"rulesVersion"`
	Timestamp        time.Time       `json:"timestamp"`
}

// Aggregate holds run-wide per-game and per-play rates.
type Aggregate struct {
	AvgPointsPerGame   float64 `json:"avgPointsPerGame"`
	AvgPointsTeamA     float64 `json:"avgPointsTeamA"`
	AvgPointsTeamB     float64 `json:"avgPointsTeamB"`
	AvgPlaysPerGame    float64 `json:"avgPlaysPerGame"`
	SuccessRate        float64 `json:"successRate"`
	AvgYardsPerPlay    float64 `json:"avgYardsPerPlay"`
	TDsPerGame         float64 `json:"tdsPerGame"`
	INTsPerGame        float64 `json:"intsPerGame"`
	FumblesPerGame     float64 `json:"fumblesPerGame"`
	FumbleTurnoverRate float64 `json:"fumbleTurnoverRate"`
	TurnoversPerGame   float64 `json:"turnoversPerGame"`
}

// TypeReport is the per-play-type rate summary.
type TypeReport struct {
	Plays       int     `json:"plays"`
	SuccessRate float64 `json:"successRate"`
	YardsPerPlay float64 `json:"yardsPerPlay"`
	TDRate      float64 `json:"tdRate"`
	INTRate     float64 `json:"intRate"`
	FumbleRate  float64 `json:"fumbleRate"`
}

// CardReport is the per-card rate summary.
type CardReport struct {
	ID                int           `json:"id"`
	Name              string        `json:"name"`
	Type              deck.PlayType `json:"type"`
	Plays             int           `json:"plays"`
	SuccessRate       float64       `json:"successRate"`
	AvgYardsOnSuccess float64       `json:"avgYardsOnSuccess"`
	YardsPerPlay      float64       `json:"yardsPerPlay"`
	TDRate            float64       `json:"tdRate"`
	INTRate           float64       `json:"intRate"`
	FumbleRate        float64       `json:"fumbleRate"`
}

// Distribution buckets final scores (team A, nearest touchdown, capped at 28)
// and game lengths in plays.
type Distribution struct {
	PointsHistogram map[int]int `json:"pointsHistogram"`
	PlaysHistogram  map[int]int `json:"playsHistogram"`
}

// GameSummary is the trimmed per-game line kept when Options.IncludeGames is
// set.
type GameSummary struct {
	FinalScore Score `json:"finalScore"`
	Plays      int   `json:"plays"`
	TDs        int   `json:"tds"`
	INTs       int   `json:"ints"`
	Fumbles    int   `json:"fumbles"`
	Turnovers  int   `json:"turnovers"`
}

// Report is the full simulation output.
type Report struct {
	Meta         Meta                        `json:"meta"`
	Aggregate    Aggregate                   `json:"aggregate"`
	ByPlayType   map[deck.PlayType]TypeReport `json:"byPlayType"`
	Cards        []CardReport                `json:"cards"`
	Distribution Distribution                `json:"distribution"`
	Games        []GameSummary               `json:"games,omitempty"`
}

var playBuckets = []int{40, 50, 60, 70, 80, 90}

func buildReport(cat *deck.Catalog, opts Options, games []*GameResult) *Report {
	agg := struct {
		pointsA, pointsB                                        int
		plays, tds, ints, fumbles, turnovers, successes, yards int
	}{}
	byType := map[deck.PlayType]*TypeStats{
		deck.Run: {}, deck.Short: {}, deck.Deep: {}, deck.Trick: {},
	}
	byCard := make(map[int]*TypeStats, cat.Size())
	for _, c := range cat.Cards() {
		byCard[c.ID] = &TypeStats{}
	}
	points := map[int]int{0: 0, 7: 0, 14: 0, 21: 0, 28: 0}
	plays := map[int]int{40: 0, 50: 0, 60: 0, 70: 0, 80: 0, 90: 0}

	for _, g := range games {
		agg.pointsA += g.FinalScore.A
		agg.pointsB += g.FinalScore.B
		agg.plays += g.Plays
		agg.tds += g.TDs
		agg.ints += g.INTs
		agg.fumbles += g.Fumbles
		agg.turnovers += g.Turnovers
		agg.successes += g.SuccessPlays
		agg.yards += g.Yards

		keyPoints := min(28, (g.FinalScore.A+6)/7*7)
		if _, ok := points[keyPoints]; ok {
			points[keyPoints]++
		}
		bucket := playBuckets[len(playBuckets)-1]
		for _, b := range playBuckets {
			if g.Plays <= b {
				bucket = b
				break
			}
		}
		plays[bucket]++

		for t, s := range g.ByPlayType {
			byType[t].add(s)
		}
		for id, s := range g.Cards {
			byCard[id].add(s)
		}
	}

	n := float64(len(games))
	perPlay := func(v int) float64 {
		if agg.plays == 0 {
			return 0
		}
		return float64(v) / float64(agg.plays)
	}

	report := &Report{
		Meta: Meta{
			Games:            len(games),
			Seed:             opts.Seed,
			Quarters:         opts.QuartersTotal,
			QuarterLengthSec: opts.QuarterLengthSeconds,
			PaceMultiplier:   opts.PaceMultiplier,
			OffenseStrategy:  opts.OffenseStrategy,
			DefenseStrategy:  opts.DefenseStrategy,
			RulesVersion:     rules.Version,
			Timestamp:        time.Now().UTC(),
		},
		Aggregate: Aggregate{
			AvgPointsPerGame:   float64(agg.pointsA+agg.pointsB) / n,
			AvgPointsTeamA:     float64(agg.pointsA) / n,
			AvgPointsTeamB:     float64(agg.pointsB) / n,
			AvgPlaysPerGame:    float64(agg.plays) / n,
			SuccessRate:        perPlay(agg.successes),
			AvgYardsPerPlay:    perPlay(agg.yards),
			TDsPerGame:         float64(agg.tds) / n,
			INTsPerGame:        float64(agg.ints) / n,
			FumblesPerGame:     float64(agg.fumbles) / n,
			FumbleTurnoverRate: perPlay(agg.fumbles),
			TurnoversPerGame:   float64(agg.turnovers) / n,
		},
		ByPlayType: make(map[deck.PlayType]TypeReport, len(byType)),
		Distribution: Distribution{
			PointsHistogram: points,
			PlaysHistogram:  plays,
		},
	}

	for t, s := range byType {
		tr := TypeReport{Plays: s.Plays}
		if s.Plays > 0 {
			tr.SuccessRate = float64(s.Success) / float64(s.Plays)
			tr.YardsPerPlay = float64(s.Yards) / float64(s.Plays)
			tr.TDRate = float64(s.TD) / float64(s.Plays)
			tr.INTRate = float64(s.INT) / float64(s.Plays)
			tr.FumbleRate = float64(s.Fumbles) / float64(s.Plays)
		}
		report.ByPlayType[t] = tr
	}

	for _, c := range cat.Cards() {
		s := byCard[c.ID]
		cr := CardReport{ID: c.ID, Name: c.Name, Type: c.Type, Plays: s.Plays}
		if s.Plays > 0 {
			cr.SuccessRate = float64(s.Success) / float64(s.Plays)
			cr.YardsPerPlay = float64(s.Yards) / float64(s.Plays)
			cr.TDRate = float64(s.TD) / float64(s.Plays)
			cr.INTRate = float64(s.INT) / float64(s.Plays)
			cr.FumbleRate = float64(s.Fumbles) / float64(s.Plays)
		}
		if s.Success > 0 {
			cr.AvgYardsOnSuccess = float64(s.Yards) / float64(s.Success)
		}
		report.Cards = append(report.Cards, cr)
	}

	if opts.IncludeGames {
		for _, g := range games {
			report.Games = append(report.Games, GameSummary{
				FinalScore: g.FinalScore,
				Plays:      g.Plays,
				TDs:        g.TDs,
				INTs:       g.INTs,
				Fumbles:    g.Fumbles,
				Turnovers:  g.Turnovers,
			})
		}
	}
	return report
}
