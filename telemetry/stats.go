package telemetry

import "log/slog"

// WindowStats aggregates order parameters over a fixed number of steps.
// Rows land in stats.csv; window size 1 degenerates to one row per step,
// which is what short batch analyses usually want.
type WindowStats struct {
	// WindowEnd is the step counter after the last step of the window.
	WindowEnd int   `csv:"window_end" json:"windowEnd"`
	TMs       int64 `csv:"t_ms" json:"tMs"`
	Steps     int   `csv:"steps" json:"steps"`
	N         int   `csv:"n" json:"n"`

	MeanVelocity float64 `csv:"mean_velocity" json:"meanVelocity"`

	MeanPolarization float64 `csv:"mean_polarization" json:"meanPolarization"`
	MinPolarization  float64 `csv:"min_polarization" json:"minPolarization"`
	MaxPolarization  float64 `csv:"max_polarization" json:"maxPolarization"`

	MeanRotation float64 `csv:"mean_rotation" json:"meanRotation"`
	MinRotation  float64 `csv:"min_rotation" json:"minRotation"`
	MaxRotation  float64 `csv:"max_rotation" json:"maxRotation"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_end", s.WindowEnd),
		slog.Int64("t_ms", s.TMs),
		slog.Int("steps", s.Steps),
		slog.Int("n", s.N),
		slog.Float64("mean_velocity", s.MeanVelocity),
		slog.Float64("mean_polarization", s.MeanPolarization),
		slog.Float64("min_polarization", s.MinPolarization),
		slog.Float64("max_polarization", s.MaxPolarization),
		slog.Float64("mean_rotation", s.MeanRotation),
		slog.Float64("min_rotation", s.MinRotation),
		slog.Float64("max_rotation", s.MaxRotation),
	)
}
