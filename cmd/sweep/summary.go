package main

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/flocklab/murmur/components"
	"github.com/flocklab/murmur/config"
	"github.com/flocklab/murmur/sim"
	"github.com/flocklab/murmur/systems"
	"github.com/flocklab/murmur/telemetry"
)

// SweepRow is one grid point's summary line in sweep.csv.
type SweepRow struct {
	Point            int     `csv:"point"`
	AttractiveFactor float64 `csv:"attractive_factor"`
	AlignmentFactor  float64 `csv:"alignment_factor"`
	AvoidFactor      float64 `csv:"avoid_factor"`
	VisualRange      float64 `csv:"visual_range"`
	Boids            int     `csv:"boids"`
	Steps            int     `csv:"steps"`
	Tail             int     `csv:"tail"`
	Replicates       int     `csv:"replicates"`

	MeanPolarization float64 `csv:"mean_polarization"`
	StdPolarization  float64 `csv:"std_polarization"`
	P10Polarization  float64 `csv:"p10_polarization"`
	P50Polarization  float64 `csv:"p50_polarization"`
	P90Polarization  float64 `csv:"p90_polarization"`

	MeanRotation float64 `csv:"mean_rotation"`
	StdRotation  float64 `csv:"std_rotation"`

	MeanVelocity float64 `csv:"mean_velocity"`
}

// summarize recomputes order parameters over the trailing frames of
// each replicate and aggregates them into one row. Pooling the tail
// samples across replicates keeps the quantiles meaningful at small
// replicate counts.
func summarize(point int, cfg config.Config, runs []*sim.Result, tail int) SweepRow {
	var pol, rot, vel []float64
	for _, res := range runs {
		frames := res.Frames
		if tail < len(frames) {
			frames = frames[len(frames)-tail:]
		}
		for _, f := range frames {
			op := telemetry.ComputeOrderParameters(toBoids(f))
			pol = append(pol, op.Polarization)
			rot = append(rot, op.RotationOrder)
			vel = append(vel, op.Velocity)
		}
	}

	sort.Float64s(pol)

	return SweepRow{
		Point:            point,
		AttractiveFactor: cfg.AttractiveFactor,
		AlignmentFactor:  cfg.AlignmentFactor,
		AvoidFactor:      cfg.AvoidFactor,
		VisualRange:      cfg.VisualRange,
		Boids:            cfg.NumBoids,
		Steps:            cfg.Steps,
		Tail:             tail,
		Replicates:       len(runs),

		MeanPolarization: stat.Mean(pol, nil),
		StdPolarization:  stat.StdDev(pol, nil),
		P10Polarization:  stat.Quantile(0.1, stat.Empirical, pol, nil),
		P50Polarization:  stat.Quantile(0.5, stat.Empirical, pol, nil),
		P90Polarization:  stat.Quantile(0.9, stat.Empirical, pol, nil),

		MeanRotation: stat.Mean(rot, nil),
		StdRotation:  stat.StdDev(rot, nil),

		MeanVelocity: stat.Mean(vel, nil),
	}
}

// toBoids converts an exported frame back into rule-space state so the
// order parameters can be recomputed offline.
func toBoids(f sim.Frame) []systems.Boid {
	out := make([]systems.Boid, len(f))
	for i, a := range f {
		out[i] = systems.Boid{
			Pos: components.Position{X: a.X, Y: a.Y},
			Vel: components.Velocity{DX: a.DX, DY: a.DY},
		}
	}
	return out
}
