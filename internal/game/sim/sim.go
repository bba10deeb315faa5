// Package sim runs complete games headlessly against the same resolution
// engine the live match uses, aggregating per-play and per-card statistics for
// rules-balance tuning. Simulated games use a simplified single-player state:
// no cash-outs, no field goals, no audibles, no turnover cancels.
package sim

import (
	"context"

	"go.uber.org/zap"

	"github.com/cory-johannsen/drivecontrol/internal/game/deck"
	"github.com/cory-johannsen/drivecontrol/internal/game/dice"
)

// OffenseStrategy selects how the simulated offense picks a card each down.
type OffenseStrategy string

const (
	// GreedyEV simulates three rolls per candidate card and plays the best.
	GreedyEV OffenseStrategy = "greedyEV"
	// RandomCard picks uniformly from the hand.
	RandomCard OffenseStrategy = "randomCard"
	// SafeBias prefers RUN and SHORT cards when any are in hand.
	SafeBias OffenseStrategy = "safeBias"
	// DeepBias prefers DEEP cards when any are in hand.
	DeepBias OffenseStrategy = "deepBias"
)

func (s OffenseStrategy) Valid() bool {
	switch s {
	case GreedyEV, RandomCard, SafeBias, DeepBias:
		return true
	}
	return false
}

// DefenseStrategy selects how the simulated defense calls each down.
type DefenseStrategy string

const (
	// TypeCounter always calls the canonical counter for the chosen card's
	// type. It sees the offense's card, which no real defense can; it exists
	// to stress-test worst-case balance.
	TypeCounter DefenseStrategy = "typeCounter"
	// RandomCall picks uniformly among the three calls.
	RandomCall DefenseStrategy = "randomCall"
	// Guessy pre-commits to a call before seeing the offense's card. The
	// offense's greedy evaluation reuses the same pre-guess.
	Guessy DefenseStrategy = "guessy"
)

func (s DefenseStrategy) Valid() bool {
	switch s {
	case TypeCounter, RandomCall, Guessy:
		return true
	}
	return false
}

// Options configures a simulation run.
type Options struct {
	Games                int
	Seed                 uint64
	QuartersTotal        int
	QuarterLengthSeconds int
	PaceMultiplier       float64
	OffenseStrategy      OffenseStrategy
	DefenseStrategy      DefenseStrategy
	// IncludeGames keeps per-game summaries in the report.
	IncludeGames bool
	// ChunkSize bounds how many games run between cancellation checks.
	ChunkSize int
}

const defaultChunkSize = 20

func (o Options) withDefaults() Options {
	if o.Games <= 0 {
		o.Games = 100
	}
	if o.Seed == 0 {
		o.Seed = 42
	}
	if o.QuartersTotal <= 0 {
		o.QuartersTotal = 4
	}
	if o.QuarterLengthSeconds <= 0 {
		o.QuarterLengthSeconds = 360
	}
	if o.PaceMultiplier <= 0 {
		o.PaceMultiplier = 1
	}
	if o.OffenseStrategy == "" {
		o.OffenseStrategy = GreedyEV
	}
	if o.DefenseStrategy == "" {
		o.DefenseStrategy = Guessy
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = defaultChunkSize
	}
	return o
}

// Run simulates opts.Games complete games in bounded chunks, invoking
// progress (when non-nil) with the completed fraction after each chunk.
// Cancellation is cooperative: ctx is checked only between chunks, so an
// in-flight chunk always finishes.
//
// Postcondition: On success the report covers exactly opts.Games games; on
// cancellation returns ctx's error and no report.
func Run(ctx context.Context, cat *deck.Catalog, opts Options, logger *zap.Logger, progress func(fraction float64)) (*Report, error) {
	opts = opts.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	src := dice.NewSeededSource(opts.Seed)

	games := make([]*GameResult, 0, opts.Games)
	for len(games) < opts.Games {
		if err := ctx.Err(); err != nil {
			logger.Info("simulation cancelled",
				zap.Int("completed", len(games)),
				zap.Int("requested", opts.Games))
			return nil, err
		}
		chunk := min(opts.ChunkSize, opts.Games-len(games))
		for i := 0; i < chunk; i++ {
			games = append(games, simulateGame(cat, opts, src))
		}
		if progress != nil {
			progress(float64(len(games)) / float64(opts.Games))
		}
		logger.Debug("simulation chunk complete",
			zap.Int("completed", len(games)),
			zap.Int("requested", opts.Games))
	}

	return buildReport(cat, opts, games), nil
}
