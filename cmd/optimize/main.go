// Optimize searches force-parameter space with CMA-ES for
// configurations that maximize flock order. The objective is the mean
// tail-window polarization (or rotation order) across several seeded
// headless runs.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/flocklab/murmur/config"
)

// formatDuration formats a duration as h/m/s for progress output.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = embedded defaults)")
	steps := flag.Int("steps", 1200, "Steps per run")
	boids := flag.Int("boids", 100, "Agents per run")
	tail := flag.Int("tail", 300, "Trailing steps scored per run")
	seed := flag.Int64("seed", 42, "Base RNG seed for evaluation runs")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	objective := flag.String("objective", "polarization", "Order parameter to maximize: polarization or rotation")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if *objective != "polarization" && *objective != "rotation" {
		log.Fatalf("unknown objective %q", *objective)
	}
	if *tail < 1 || *tail > *steps {
		log.Fatalf("--tail must be in 1..steps, got %d (steps %d)", *tail, *steps)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg.Steps = *steps
	baseCfg.NumBoids = *boids
	baseCfg.DrawTrail = false
	if err := baseCfg.Validate(); err != nil {
		log.Fatalf("invalid base config: %v", err)
	}

	params := NewParamVector()

	// The same seeds are reused for every evaluation so fitness stays
	// comparable across the search.
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000) + *seed
	}

	evaluator := NewFitnessEvaluator(params, evalSeeds, baseCfg, *tail, *objective)

	dim := params.Dim()
	initX := params.Normalize(params.DefaultVector())

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Denormalize(x)
			return evaluator.Evaluate(raw)
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // each evaluation already fans out across seeds
	}

	popSize := *population
	if popSize == 0 {
		// Standard CMA-ES sizing: 4 + floor(3 ln n).
		popSize = 4 + int(3.0*math.Log(float64(dim)))
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	logPath := filepath.Join(*outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()

	header := []string{"eval", "fitness"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	logWriter.Write(header)

	evalCount := 0
	bestFitness := math.Inf(1)
	var bestParams []float64
	startTime := time.Now()

	// Wrap the objective to log and track every evaluation.
	originalFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		fitness := originalFunc(x)
		evalCount++

		// Log clamped values, since those are what the runs used.
		raw := params.Denormalize(x)
		clamped := params.Clamp(raw)
		if fitness < bestFitness {
			bestFitness = fitness
			bestParams = make([]float64, len(clamped))
			copy(bestParams, clamped)
		}

		row := []string{strconv.Itoa(evalCount), fmt.Sprintf("%.6f", fitness)}
		for _, v := range clamped {
			row = append(row, fmt.Sprintf("%.6f", v))
		}
		logWriter.Write(row)
		logWriter.Flush()

		elapsed := time.Since(startTime)
		avgPerEval := elapsed / time.Duration(evalCount)
		remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

		m := evaluator.LastMetrics()
		fmt.Printf("Eval %d/%d: pol=%.3f sd=%.3f rot=%.3f (best=%.4f) | elapsed: %s, ETA: %s\n",
			evalCount, *maxEvals, m.MeanPolarization, m.StdPolarization, m.MeanRotation,
			bestFitness, formatDuration(elapsed), formatDuration(remaining))

		return fitness
	}

	fmt.Printf("Starting CMA-ES over %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Objective: %s | seeds per evaluation: %d, steps per run: %d, tail: %d\n",
		*objective, *seeds, *steps, *tail)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	// Best params may come from any evaluation, not just the final one.
	if bestParams == nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}

	totalTime := time.Since(startTime)
	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(totalTime))
	fmt.Printf("Best fitness: %.4f\n", bestFitness)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Name, bestParams[i])
	}

	bestCfg := baseCfg
	params.ApplyToConfig(&bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}

	// Save tail metrics from the best evaluation alongside the config.
	best := struct {
		Fitness   float64            `json:"fitness"`
		Objective string             `json:"objective"`
		Metrics   runMetrics         `json:"metrics"`
		Params    map[string]float64 `json:"params"`
	}{
		Fitness:   bestFitness,
		Objective: *objective,
		Metrics:   evaluator.BestMetrics(),
		Params:    make(map[string]float64, len(params.Specs)),
	}
	for i, spec := range params.Specs {
		best.Params[spec.Name] = bestParams[i]
	}

	metricsPath := filepath.Join(*outputDir, "best_metrics.json")
	data, err := json.MarshalIndent(best, "", "  ")
	if err != nil {
		log.Printf("failed to marshal best metrics: %v", err)
	} else if err := os.WriteFile(metricsPath, data, 0644); err != nil {
		log.Printf("failed to write best metrics: %v", err)
	} else {
		fmt.Printf("Best metrics saved to: %s\n", metricsPath)
	}
}
