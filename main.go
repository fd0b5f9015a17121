package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/darwinio/config"
	"github.com/pthm-cable/darwinio/game"
	"github.com/pthm-cable/darwinio/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output window stats and bookmarks via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config and hall of fame")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stopOnExtinction := flag.Bool("stop-on-extinction", true, "Stop when the population reaches zero")
	progress := flag.Int("progress", 0, "Log a progress line every N ticks (0 = never)")
	hallOfFame := flag.String("hall-of-fame", "", "hall_of_fame.json from a previous run to seed organisms from")
	seedCount := flag.Int("seed-count", 20, "Organisms to seed from -hall-of-fame")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(rngSeed))

	w, err := game.NewWorld(cfg, rng)
	if err != nil {
		slog.Error("failed to create world", "error", err)
		os.Exit(1)
	}
	w.SetLogStats(*logStats)

	if *hallOfFame != "" {
		hof, err := telemetry.LoadHallOfFameFromFile(*hallOfFame, cfg.Telemetry.HallOfFame, rng)
		if err != nil {
			slog.Error("failed to load hall of fame", "path", *hallOfFame, "error", err)
			os.Exit(1)
		}
		placed := w.SeedGenomes(*seedCount, hof.Sample)
		slog.Info("seeded from hall of fame", "path", *hallOfFame, "entries", hof.Size(), "placed", placed)
	}

	om, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "path", *outputDir, "error", err)
		os.Exit(1)
	}
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}
	w.SetOutputManager(om)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting simulation",
		"seed", rngSeed,
		"rows", cfg.World.Rows,
		"cols", cfg.World.Cols,
		"population", w.Population(),
		"max_ticks", *maxTicks,
	)

	game.Run(ctx, w, game.Options{
		MaxTicks:         int32(*maxTicks),
		StopOnExtinction: *stopOnExtinction,
		ProgressEvery:    int32(*progress),
	})

	if err := om.WriteHallOfFame(w.HallOfFame()); err != nil {
		slog.Error("failed to write hall of fame", "error", err)
	}
	if err := om.Close(); err != nil {
		slog.Error("failed to close output files", "error", err)
	}
}
