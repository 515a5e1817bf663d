package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/flocklab/murmur/components"
	"github.com/flocklab/murmur/config"
	"github.com/flocklab/murmur/sim"
	"github.com/flocklab/murmur/systems"
	"github.com/flocklab/murmur/telemetry"
)

// stabilityPenalty discounts configurations whose order parameter
// oscillates across the tail window. Mean order dominates; the penalty
// just separates steady flocks from ones that keep falling apart.
const stabilityPenalty = 0.25

// runMetrics summarizes the trailing window of one run.
type runMetrics struct {
	MeanPolarization float64 `json:"meanPolarization"`
	StdPolarization  float64 `json:"stdPolarization"`
	MeanRotation     float64 `json:"meanRotation"`
	StdRotation      float64 `json:"stdRotation"`
	MeanVelocity     float64 `json:"meanVelocity"`
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	metrics runMetrics
}

// FitnessEvaluator runs headless batches and scores parameter vectors.
type FitnessEvaluator struct {
	params     *ParamVector
	seeds      []int64
	baseConfig config.Config
	tail       int
	objective  string // "polarization" or "rotation"

	mu          sync.Mutex
	bestFitness float64
	bestMetrics runMetrics
	lastMetrics runMetrics
}

// NewFitnessEvaluator creates a new evaluator. The same seeds are used
// for every evaluation so fitness values stay comparable across the
// search.
func NewFitnessEvaluator(params *ParamVector, seeds []int64, baseCfg config.Config, tail int, objective string) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		seeds:       seeds,
		baseConfig:  baseCfg,
		tail:        tail,
		objective:   objective,
		bestFitness: math.Inf(1),
	}
}

// BestMetrics returns the tail metrics from the best evaluation so far.
func (fe *FitnessEvaluator) BestMetrics() runMetrics {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestMetrics
}

// LastMetrics returns the tail metrics from the most recent evaluation.
func (fe *FitnessEvaluator) LastMetrics() runMetrics {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastMetrics
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the negated order score averaged across seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig
	fe.params.ApplyToConfig(&cfg, x)

	// Run all seeds in parallel.
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			res, err := sim.Run(cfg, sim.Options{Seed: s})
			if err != nil {
				results[idx] = seedResult{fitness: math.Inf(1)}
				return
			}
			m := computeRunMetrics(res, fe.tail)
			results[idx] = seedResult{fitness: -fe.score(m), metrics: m}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness float64
	var avg runMetrics
	for _, r := range results {
		totalFitness += r.fitness
		avg.MeanPolarization += r.metrics.MeanPolarization
		avg.StdPolarization += r.metrics.StdPolarization
		avg.MeanRotation += r.metrics.MeanRotation
		avg.StdRotation += r.metrics.StdRotation
		avg.MeanVelocity += r.metrics.MeanVelocity
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n
	avg.MeanPolarization /= n
	avg.StdPolarization /= n
	avg.MeanRotation /= n
	avg.StdRotation /= n
	avg.MeanVelocity /= n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestMetrics = avg
	}
	fe.lastMetrics = avg
	fe.mu.Unlock()

	return avgFitness
}

// score turns tail metrics into the scalar being maximized.
func (fe *FitnessEvaluator) score(m runMetrics) float64 {
	switch fe.objective {
	case "rotation":
		return m.MeanRotation - stabilityPenalty*m.StdRotation
	default:
		return m.MeanPolarization - stabilityPenalty*m.StdPolarization
	}
}

// computeRunMetrics recomputes order parameters over the trailing
// frames of a finished run and summarizes them.
func computeRunMetrics(res *sim.Result, tail int) runMetrics {
	frames := res.Frames
	if tail < len(frames) {
		frames = frames[len(frames)-tail:]
	}

	pol := make([]float64, 0, len(frames))
	rot := make([]float64, 0, len(frames))
	vel := make([]float64, 0, len(frames))
	boids := make([]systems.Boid, 0)

	for _, f := range frames {
		boids = boids[:0]
		for _, a := range f {
			boids = append(boids, systems.Boid{
				Pos: components.Position{X: a.X, Y: a.Y},
				Vel: components.Velocity{DX: a.DX, DY: a.DY},
			})
		}
		op := telemetry.ComputeOrderParameters(boids)
		pol = append(pol, op.Polarization)
		rot = append(rot, op.RotationOrder)
		vel = append(vel, op.Velocity)
	}

	if len(pol) == 0 {
		return runMetrics{}
	}

	m := runMetrics{
		MeanPolarization: stat.Mean(pol, nil),
		MeanRotation:     stat.Mean(rot, nil),
		MeanVelocity:     stat.Mean(vel, nil),
	}
	if len(pol) >= 2 {
		m.StdPolarization = stat.StdDev(pol, nil)
		m.StdRotation = stat.StdDev(rot, nil)
	}
	return m
}
