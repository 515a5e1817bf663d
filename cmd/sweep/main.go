// Sweep runs batches of headless simulations across a grid of force
// parameters and summarizes the resulting order parameters per grid
// point. The output is a single sweep.csv suitable for plotting phase
// diagrams (polarization or rotation order against the swept factors).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/flocklab/murmur/config"
	"github.com/flocklab/murmur/sim"
)

func main() {
	configPath := flag.String("config", "", "Path to base configuration file (empty = embedded defaults)")
	factors := flag.String("factors", "", "Comma-separated factors to sweep (empty = all: attractiveFactor,alignmentFactor,avoidFactor,visualRange)")
	mode := flag.String("mode", "ofat", "Sweep mode: ofat, pairwise or full")
	granularity := flag.Int("granularity", 5, "Grid points per factor")
	spread := flag.Float64("spread", 0.5, "Relative span around each factor's base value")
	steps := flag.Int("steps", 400, "Steps per run")
	boids := flag.Int("boids", 100, "Agents per run")
	seed := flag.Int64("seed", 42, "Base RNG seed (replicates use seed+index)")
	replicates := flag.Int("seeds", 3, "Replicate runs per grid point")
	tail := flag.Int("tail", 100, "Trailing steps summarized per run")
	outputDir := flag.String("output", "", "Output directory for sweep.csv (required)")
	saveResults := flag.Bool("save-results", false, "Also write every run's frames to results.json (large)")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if *replicates < 1 {
		log.Fatalf("--seeds must be >= 1, got %d", *replicates)
	}
	if *tail < 1 || *tail > *steps {
		log.Fatalf("--tail must be in 1..steps, got %d (steps %d)", *tail, *steps)
	}

	base, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	base.Steps = *steps
	base.NumBoids = *boids
	base.DrawTrail = false
	if err := base.Validate(); err != nil {
		log.Fatalf("Invalid base config: %v", err)
	}

	specs, err := selectFactors(*factors)
	if err != nil {
		log.Fatalf("Failed to select factors: %v", err)
	}
	grid, err := buildGrid(base, specs, *mode, *granularity, *spread)
	if err != nil {
		log.Fatalf("Failed to build grid: %v", err)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}
	if err := base.WriteYAML(filepath.Join(*outputDir, "base_config.yaml")); err != nil {
		log.Fatalf("Failed to write base config: %v", err)
	}

	// One batch entry per grid point per replicate. RunAll assigns
	// seed+index, so replicates of the same point land on distinct
	// seeds.
	cfgs := make([]config.Config, 0, len(grid)*(*replicates))
	for _, cfg := range grid {
		for r := 0; r < *replicates; r++ {
			cfgs = append(cfgs, cfg)
		}
	}

	fmt.Printf("Sweeping %d factors (%s), %d grid points x %d replicates = %d runs\n",
		len(specs), *mode, len(grid), *replicates, len(cfgs))
	fmt.Printf("Each run: %d agents, %d steps, tail window %d\n", *boids, *steps, *tail)

	start := time.Now()
	results, err := sim.RunAll(cfgs, sim.Options{Seed: *seed})
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}
	fmt.Printf("Completed %d runs in %s\n", len(results), time.Since(start).Round(time.Millisecond))

	rows := make([]SweepRow, len(grid))
	for i, cfg := range grid {
		rows[i] = summarize(i, cfg, results[i*(*replicates):(i+1)*(*replicates)], *tail)
	}

	outPath := filepath.Join(*outputDir, "sweep.csv")
	f, err := os.Create(outPath)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", outPath, err)
	}
	defer f.Close()
	if err := gocsv.Marshal(rows, f); err != nil {
		log.Fatalf("Failed to write sweep summary: %v", err)
	}
	fmt.Printf("Sweep summary saved to: %s\n", outPath)

	if *saveResults {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			log.Fatalf("Failed to marshal results: %v", err)
		}
		resPath := filepath.Join(*outputDir, "results.json")
		if err := os.WriteFile(resPath, data, 0644); err != nil {
			log.Fatalf("Failed to write %s: %v", resPath, err)
		}
		fmt.Printf("Full results saved to: %s\n", resPath)
	}
}
