package telemetry

import "github.com/flocklab/murmur/config"

// Params is the configuration subset echoed in every payload: the active
// force and containment knobs, enough for a consumer to label what it is
// looking at without a side channel.
type Params struct {
	AttractiveFactor float64 `json:"attractiveFactor"`
	AlignmentFactor  float64 `json:"alignmentFactor"`
	AvoidFactor      float64 `json:"avoidFactor"`
	VisualRange      float64 `json:"visualRange"`
	MinDistance      float64 `json:"minDistance"`
	SpeedLimit       float64 `json:"speedLimit"`
	Margin           float64 `json:"margin"`
	TurnFactor       float64 `json:"turnFactor"`
}

// ParamsFrom extracts the echoed subset from a configuration.
func ParamsFrom(c config.Config) Params {
	return Params{
		AttractiveFactor: c.AttractiveFactor,
		AlignmentFactor:  c.AlignmentFactor,
		AvoidFactor:      c.AvoidFactor,
		VisualRange:      c.VisualRange,
		MinDistance:      c.MinDistance,
		SpeedLimit:       c.SpeedLimit,
		Margin:           c.Margin,
		TurnFactor:       c.TurnFactor,
	}
}

// Payload is one telemetry emission. Format selects between a
// metadata-only payload (FormatMeta) and one that additionally carries
// the quantized position blob (FormatU16XY) in Data.
type Payload struct {
	// TMs is elapsed wall-clock milliseconds since run start.
	TMs       int64   `json:"tMs"`
	StepCount int     `json:"stepCount"`
	N         int     `json:"n"`
	W         float64 `json:"w"`
	H         float64 `json:"h"`
	Format    string  `json:"format"`
	Params    Params  `json:"params"`

	Velocity      float64 `json:"velocity"`
	Vector        Vec     `json:"vector"`
	Polarization  float64 `json:"polarization"`
	RotationOrder float64 `json:"rotationOrder"`

	// Data is the base64 position blob, present only for FormatU16XY.
	Data string `json:"data,omitempty"`
}
