package sim

import (
	"log/slog"
	"time"

	"github.com/flocklab/murmur/telemetry"
)

// DefaultStatsWindow is the stats window, in steps, used when Options
// leaves it unset.
const DefaultStatsWindow = 60

// Options configures a simulation beyond its Config: RNG seeding, where
// telemetry and artifacts go, and how observations are aggregated.
// The zero value is usable: telemetry is discarded and nothing is
// written to disk.
type Options struct {
	// Seed initializes the RNG. Equal seed and config produce an
	// identical run, step for step.
	Seed int64

	// Sink receives telemetry payloads. nil discards them.
	Sink telemetry.Sink

	// Output, when non-nil, receives stats.csv and perf.csv rows plus a
	// copy of the effective configuration.
	Output *telemetry.OutputManager

	// StatsWindow is the number of steps aggregated per stats row.
	// Values below 1 fall back to DefaultStatsWindow.
	StatsWindow int

	// StatsCallback, when non-nil, receives every flushed window.
	StatsCallback func(telemetry.WindowStats)

	// LogStats mirrors flushed windows to the logger.
	LogStats bool

	// Logger overrides slog.Default().
	Logger *slog.Logger

	// Clock overrides time.Now. Tests drive the telemetry throttle
	// through it.
	Clock func() time.Time
}
