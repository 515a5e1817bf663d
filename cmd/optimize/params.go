package main

import (
	"github.com/flocklab/murmur/config"
)

// ParamSpec defines a single tunable force parameter.
type ParamSpec struct {
	Name    string  // wire name, as echoed in telemetry params
	Min     float64 // lower bound
	Max     float64 // upper bound
	Default float64 // starting value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable force parameters.
// Bounds bracket the defaults wide enough to reach both the polarized
// and the milling regimes without letting the rules blow up.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "attractiveFactor", Min: 0.0005, Max: 0.03, Default: 0.005},
			{Name: "alignmentFactor", Min: 0.005, Max: 0.25, Default: 0.05},
			{Name: "avoidFactor", Min: 0.005, Max: 0.25, Default: 0.05},
			{Name: "visualRange", Min: 20, Max: 150, Default: 75},
			{Name: "minDistance", Min: 5, Max: 40, Default: 20},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies clamped parameter values to a config.
// Field order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.AttractiveFactor = clamped[0]
	cfg.AlignmentFactor = clamped[1]
	cfg.AvoidFactor = clamped[2]
	cfg.VisualRange = clamped[3]
	cfg.MinDistance = clamped[4]
}
