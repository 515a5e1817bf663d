package main

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/flocklab/murmur/config"
)

// FactorSpec defines a single sweepable force parameter.
type FactorSpec struct {
	Name string // wire name, as echoed in telemetry params
	Get  func(config.Config) float64
	Set  func(*config.Config, float64)
}

// sweepableFactors are the force parameters a grid may vary. Everything
// else stays at its base value for the whole sweep.
var sweepableFactors = []FactorSpec{
	{
		Name: "attractiveFactor",
		Get:  func(c config.Config) float64 { return c.AttractiveFactor },
		Set:  func(c *config.Config, v float64) { c.AttractiveFactor = v },
	},
	{
		Name: "alignmentFactor",
		Get:  func(c config.Config) float64 { return c.AlignmentFactor },
		Set:  func(c *config.Config, v float64) { c.AlignmentFactor = v },
	},
	{
		Name: "avoidFactor",
		Get:  func(c config.Config) float64 { return c.AvoidFactor },
		Set:  func(c *config.Config, v float64) { c.AvoidFactor = v },
	},
	{
		Name: "visualRange",
		Get:  func(c config.Config) float64 { return c.VisualRange },
		Set:  func(c *config.Config, v float64) { c.VisualRange = v },
	},
}

// selectFactors resolves a comma-separated factor list against the
// sweepable set. An empty list selects every factor.
func selectFactors(names string) ([]FactorSpec, error) {
	if strings.TrimSpace(names) == "" {
		return sweepableFactors, nil
	}

	var specs []FactorSpec
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		found := false
		for _, spec := range sweepableFactors {
			if spec.Name == name {
				specs = append(specs, spec)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown factor %q", name)
		}
	}
	return specs, nil
}

// buildGrid expands the selected factors into one configuration per
// grid point. Each factor's values span base*(1-spread) to
// base*(1+spread) in granularity even steps.
//
// Modes:
//   - ofat: vary one factor at a time, all others at base
//   - pairwise: full grid over every factor pair, others at base
//   - full: Cartesian product over all selected factors
func buildGrid(base config.Config, specs []FactorSpec, mode string, granularity int, spread float64) ([]config.Config, error) {
	if granularity < 2 {
		return nil, fmt.Errorf("granularity must be >= 2, got %d", granularity)
	}
	if spread <= 0 {
		return nil, fmt.Errorf("spread must be positive, got %v", spread)
	}

	spans := make([][]float64, len(specs))
	for i, spec := range specs {
		b := spec.Get(base)
		spans[i] = floats.Span(make([]float64, granularity), b*(1-spread), b*(1+spread))
	}

	var grid []config.Config
	switch mode {
	case "ofat":
		for i, spec := range specs {
			for _, v := range spans[i] {
				cfg := base
				spec.Set(&cfg, v)
				grid = append(grid, cfg)
			}
		}

	case "pairwise":
		if len(specs) < 2 {
			return nil, fmt.Errorf("pairwise mode needs at least 2 factors, got %d", len(specs))
		}
		for i := 0; i < len(specs); i++ {
			for j := i + 1; j < len(specs); j++ {
				for _, idx := range combin.Cartesian([]int{granularity, granularity}) {
					cfg := base
					specs[i].Set(&cfg, spans[i][idx[0]])
					specs[j].Set(&cfg, spans[j][idx[1]])
					grid = append(grid, cfg)
				}
			}
		}

	case "full":
		lens := make([]int, len(specs))
		for i := range lens {
			lens[i] = granularity
		}
		for _, idx := range combin.Cartesian(lens) {
			cfg := base
			for i, spec := range specs {
				spec.Set(&cfg, spans[i][idx[i]])
			}
			grid = append(grid, cfg)
		}

	default:
		return nil, fmt.Errorf("unknown sweep mode %q", mode)
	}

	return grid, nil
}
