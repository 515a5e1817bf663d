// Package config provides configuration loading, validation and override
// application for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation parameters for one run. A Config is
// immutable for the duration of a run; With produces a new validated
// value from overrides.
//
// YAML tags name the on-disk config file keys, JSON tags the wire schema
// hosting front ends use.
type Config struct {
	// AttractiveFactor scales the cohesion pull toward the mean position
	// of visible agents.
	AttractiveFactor float64 `yaml:"attractive_factor" json:"attractiveFactor"`
	// AlignmentFactor scales velocity matching with visible agents.
	AlignmentFactor float64 `yaml:"alignment_factor" json:"alignmentFactor"`
	// AvoidFactor scales the separation push away from agents closer
	// than MinDistance.
	AvoidFactor float64 `yaml:"avoid_factor" json:"avoidFactor"`

	// VisualRange is the perception radius for cohesion and alignment.
	VisualRange float64 `yaml:"visual_range" json:"visualRange"`
	// MinDistance is the protected radius for separation.
	MinDistance float64 `yaml:"min_distance" json:"minDistance"`

	// SpeedLimit bounds every agent's post-step speed.
	SpeedLimit float64 `yaml:"speed_limit" json:"speedLimit"`

	// Margin is the width of the soft containment band along each edge;
	// TurnFactor is the per-step velocity kick applied inside it.
	Margin     float64 `yaml:"margin" json:"margin"`
	TurnFactor float64 `yaml:"turn_factor" json:"turnFactor"`

	// NumBoids is the agent count, fixed for the duration of a run.
	NumBoids int     `yaml:"num_boids" json:"numBoids"`
	Width    float64 `yaml:"width" json:"width"`
	Height   float64 `yaml:"height" json:"height"`

	// Steps selects batch mode when positive: the run executes exactly
	// Steps steps and captures a frame per step. Zero means live mode.
	Steps int `yaml:"steps" json:"steps"`

	// TeleThrottle is the live telemetry rate ceiling in Hz. Zero
	// disables periodic telemetry.
	TeleThrottle float64 `yaml:"tele_throttle" json:"teleThrottle"`

	// DrawTrail records a bounded trail of recent positions per agent.
	DrawTrail bool `yaml:"draw_trail" json:"drawTrail"`
}

var defaults = mustParseDefaults()

func mustParseDefaults() Config {
	var c Config
	if err := yaml.Unmarshal(defaultsYAML, &c); err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return c
}

// Default returns the embedded baseline configuration.
func Default() Config {
	return defaults
}

// Load reads a YAML file and merges it over the embedded defaults, so a
// file only needs the keys it changes. An empty path returns the
// defaults unchanged. The result is validated.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// WriteYAML writes the configuration to path. Runs that produce output
// artifacts store their effective configuration this way so results stay
// reproducible.
func (c Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Validate checks every field and reports the first offending one by its
// wire name. Out-of-range values are rejected, never clamped.
func (c Config) Validate() error {
	finite := []struct {
		name string
		val  float64
	}{
		{"attractiveFactor", c.AttractiveFactor},
		{"alignmentFactor", c.AlignmentFactor},
		{"avoidFactor", c.AvoidFactor},
		{"visualRange", c.VisualRange},
		{"minDistance", c.MinDistance},
		{"speedLimit", c.SpeedLimit},
		{"margin", c.Margin},
		{"turnFactor", c.TurnFactor},
		{"width", c.Width},
		{"height", c.Height},
		{"teleThrottle", c.TeleThrottle},
	}
	for _, f := range finite {
		if math.IsNaN(f.val) || math.IsInf(f.val, 0) {
			return fmt.Errorf("config: %s must be finite, got %v", f.name, f.val)
		}
	}

	if c.NumBoids < 0 {
		return fmt.Errorf("config: numBoids must be >= 0, got %d", c.NumBoids)
	}
	if c.Width <= 0 {
		return fmt.Errorf("config: width must be > 0, got %v", c.Width)
	}
	if c.Height <= 0 {
		return fmt.Errorf("config: height must be > 0, got %v", c.Height)
	}
	if c.Steps < 0 {
		return fmt.Errorf("config: steps must be >= 0, got %d", c.Steps)
	}
	if c.VisualRange < 0 {
		return fmt.Errorf("config: visualRange must be >= 0, got %v", c.VisualRange)
	}
	if c.MinDistance < 0 {
		return fmt.Errorf("config: minDistance must be >= 0, got %v", c.MinDistance)
	}
	if c.SpeedLimit < 0 {
		return fmt.Errorf("config: speedLimit must be >= 0, got %v", c.SpeedLimit)
	}
	if c.TeleThrottle < 0 {
		return fmt.Errorf("config: teleThrottle must be >= 0, got %v", c.TeleThrottle)
	}
	return nil
}

// Overrides is a partial configuration: nil fields keep their current
// value. It is the payload of the live set-params operation and of sweep
// specs, so its tags mirror Config's.
type Overrides struct {
	AttractiveFactor *float64 `yaml:"attractive_factor,omitempty" json:"attractiveFactor,omitempty"`
	AlignmentFactor  *float64 `yaml:"alignment_factor,omitempty" json:"alignmentFactor,omitempty"`
	AvoidFactor      *float64 `yaml:"avoid_factor,omitempty" json:"avoidFactor,omitempty"`
	VisualRange      *float64 `yaml:"visual_range,omitempty" json:"visualRange,omitempty"`
	MinDistance      *float64 `yaml:"min_distance,omitempty" json:"minDistance,omitempty"`
	SpeedLimit       *float64 `yaml:"speed_limit,omitempty" json:"speedLimit,omitempty"`
	Margin           *float64 `yaml:"margin,omitempty" json:"margin,omitempty"`
	TurnFactor       *float64 `yaml:"turn_factor,omitempty" json:"turnFactor,omitempty"`
	NumBoids         *int     `yaml:"num_boids,omitempty" json:"numBoids,omitempty"`
	Width            *float64 `yaml:"width,omitempty" json:"width,omitempty"`
	Height           *float64 `yaml:"height,omitempty" json:"height,omitempty"`
	Steps            *int     `yaml:"steps,omitempty" json:"steps,omitempty"`
	TeleThrottle     *float64 `yaml:"tele_throttle,omitempty" json:"teleThrottle,omitempty"`
	DrawTrail        *bool    `yaml:"draw_trail,omitempty" json:"drawTrail,omitempty"`
}

// With returns a copy of c with every non-nil override applied, then
// validates the result. On error the original configuration stays in
// effect.
func (c Config) With(o Overrides) (Config, error) {
	if o.AttractiveFactor != nil {
		c.AttractiveFactor = *o.AttractiveFactor
	}
	if o.AlignmentFactor != nil {
		c.AlignmentFactor = *o.AlignmentFactor
	}
	if o.AvoidFactor != nil {
		c.AvoidFactor = *o.AvoidFactor
	}
	if o.VisualRange != nil {
		c.VisualRange = *o.VisualRange
	}
	if o.MinDistance != nil {
		c.MinDistance = *o.MinDistance
	}
	if o.SpeedLimit != nil {
		c.SpeedLimit = *o.SpeedLimit
	}
	if o.Margin != nil {
		c.Margin = *o.Margin
	}
	if o.TurnFactor != nil {
		c.TurnFactor = *o.TurnFactor
	}
	if o.NumBoids != nil {
		c.NumBoids = *o.NumBoids
	}
	if o.Width != nil {
		c.Width = *o.Width
	}
	if o.Height != nil {
		c.Height = *o.Height
	}
	if o.Steps != nil {
		c.Steps = *o.Steps
	}
	if o.TeleThrottle != nil {
		c.TeleThrottle = *o.TeleThrottle
	}
	if o.DrawTrail != nil {
		c.DrawTrail = *o.DrawTrail
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
