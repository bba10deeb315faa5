// Package main provides the headless balance simulator binary. It runs a
// batch of complete games and writes a JSON statistics report plus tuning
// recommendations.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/drivecontrol/internal/config"
	"github.com/cory-johannsen/drivecontrol/internal/game/deck"
	"github.com/cory-johannsen/drivecontrol/internal/game/sim"
	"github.com/cory-johannsen/drivecontrol/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty = built-in defaults")
	games := flag.Int("games", 0, "number of games to simulate (overrides config)")
	seed := flag.Uint64("seed", 0, "deterministic RNG seed (overrides config)")
	offense := flag.String("offense", "", "offense strategy: greedyEV, randomCard, safeBias, deepBias (overrides config)")
	defense := flag.String("defense", "", "defense strategy: typeCounter, randomCall, guessy (overrides config)")
	includeGames := flag.Bool("include-games", false, "keep per-game summaries in the report")
	outPath := flag.String("out", "", "report output path; empty = stdout")
	flag.Parse()

	cfg := config.Defaults()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	opts := sim.Options{
		Games:                cfg.Sim.Games,
		Seed:                 cfg.Sim.Seed,
		QuartersTotal:        cfg.Sim.QuartersTotal,
		QuarterLengthSeconds: cfg.Sim.QuarterLengthSeconds,
		PaceMultiplier:       cfg.Sim.PaceMultiplier,
		OffenseStrategy:      sim.OffenseStrategy(cfg.Sim.OffenseStrategy),
		DefenseStrategy:      sim.DefenseStrategy(cfg.Sim.DefenseStrategy),
		IncludeGames:         cfg.Sim.IncludeGames,
		ChunkSize:            cfg.Sim.ChunkSize,
	}
	if *games > 0 {
		opts.Games = *games
	}
	if *seed > 0 {
		opts.Seed = *seed
	}
	if *offense != "" {
		opts.OffenseStrategy = sim.OffenseStrategy(*offense)
	}
	if *defense != "" {
		opts.DefenseStrategy = sim.DefenseStrategy(*defense)
	}
	if *includeGames {
		opts.IncludeGames = true
	}
	if !opts.OffenseStrategy.Valid() {
		log.Fatalf("invalid offense strategy %q", opts.OffenseStrategy)
	}
	if !opts.DefenseStrategy.Valid() {
		log.Fatalf("invalid defense strategy %q", opts.DefenseStrategy)
	}

	catalog, err := deck.DefaultCatalog()
	if err != nil {
		log.Fatalf("loading card catalog: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("simulation starting",
		zap.Int("games", opts.Games),
		zap.Uint64("seed", opts.Seed),
		zap.String("offense", string(opts.OffenseStrategy)),
		zap.String("defense", string(opts.DefenseStrategy)))

	report, err := sim.Run(ctx, catalog, opts, logger, func(fraction float64) {
		logger.Info("simulation progress", zap.Int("percent", int(fraction*100)))
	})
	if err != nil {
		logger.Fatal("simulation aborted", zap.Error(err))
	}

	advice := sim.RecommendTweaks(report, sim.DefaultTargets())
	for _, issue := range advice.Issues {
		logger.Warn("balance issue", zap.String("issue", issue))
	}
	for _, rec := range advice.Recommendations {
		logger.Info("balance recommendation", zap.String("recommendation", rec))
	}

	out := struct {
		Report *sim.Report `json:"report"`
		Advice sim.Advice  `json:"advice"`
	}{report, advice}

	payload, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		logger.Fatal("encoding report", zap.Error(err))
	}
	if *outPath == "" {
		fmt.Println(string(payload))
	} else {
		if err := os.WriteFile(*outPath, payload, 0o644); err != nil {
			logger.Fatal("writing report", zap.Error(err))
		}
		logger.Info("report written", zap.String("path", *outPath))
	}

	logger.Info("simulation complete",
		zap.Int("games", report.Meta.Games),
		zap.Float64("avg_points_per_game", report.Aggregate.AvgPointsPerGame),
		zap.Duration("elapsed", time.Since(start)))
}
