package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flocklab/murmur/config"
	"github.com/flocklab/murmur/sim"
	"github.com/flocklab/murmur/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	steps := flag.Int("steps", -1, "Batch mode: run exactly N steps and exit (-1 = use config)")
	boids := flag.Int("boids", -1, "Agent count override (-1 = use config)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	framesOut := flag.Bool("frames", false, "Batch mode: write frames.json to the output directory")
	emit := flag.Bool("telemetry", false, "Live mode: write telemetry payloads as JSON lines to stdout")
	tickMs := flag.Int("tick-ms", 16, "Live mode: milliseconds between steps")
	duration := flag.Duration("duration", 0, "Live mode: stop after this long (0 = until interrupted)")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in steps (0 = default)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")

	flag.Parse()

	// Set up slog (JSON to stderr, keeping stdout clean for telemetry)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *steps >= 0 {
		cfg.Steps = *steps
	}
	if *boids >= 0 {
		cfg.NumBoids = *boids
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}
	if *tickMs <= 0 {
		slog.Error("tick-ms must be positive", "tick_ms", *tickMs)
		os.Exit(1)
	}

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
		os.Exit(1)
	}
	defer output.Close()

	opts := sim.Options{
		Seed:        rngSeed,
		Output:      output,
		StatsWindow: *statsWindow,
		LogStats:    *logStats,
	}
	if *emit {
		opts.Sink = telemetry.NewJSONLineSink(os.Stdout)
	}

	if cfg.Steps > 0 {
		runBatch(cfg, opts, output, *framesOut)
		return
	}
	runLive(cfg, opts, time.Duration(*tickMs)*time.Millisecond, *duration)
}

// runBatch executes a fixed-step run and optionally dumps the frames.
func runBatch(cfg config.Config, opts sim.Options, output *telemetry.OutputManager, framesOut bool) {
	slog.Info("starting batch run", "seed", opts.Seed, "steps", cfg.Steps, "boids", cfg.NumBoids)

	start := time.Now()
	res, err := sim.Run(cfg, opts)
	if err != nil {
		slog.Error("batch run failed", "error", err)
		os.Exit(1)
	}

	slog.Info("batch run complete",
		"run_id", res.RunID,
		"steps", res.StepCount,
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)

	if framesOut {
		if err := output.WriteJSON("frames.json", res); err != nil {
			slog.Error("failed to write frames", "error", err)
			os.Exit(1)
		}
	}
}

// runLive paces the simulation from a wall-clock ticker until the
// duration elapses or an interrupt arrives.
func runLive(cfg config.Config, opts sim.Options, tick, duration time.Duration) {
	s, err := sim.New(cfg, opts)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	slog.Info("starting live run",
		"run_id", s.RunID(),
		"seed", opts.Seed,
		"boids", cfg.NumBoids,
		"tick", tick.String(),
		"tele_throttle_hz", cfg.TeleThrottle,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	var deadline <-chan time.Time
	if duration > 0 {
		deadline = time.After(duration)
	}

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	s.Start()
	for {
		select {
		case <-ticker.C:
			s.Tick()
		case <-sigCh:
			s.Stop()
			slog.Info("interrupted", "steps", s.StepCount())
			return
		case <-deadline:
			s.Stop()
			slog.Info("duration reached", "steps", s.StepCount())
			return
		}
	}
}
