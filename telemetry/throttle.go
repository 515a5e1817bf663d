package telemetry

import "time"

// Throttle rate-limits telemetry to a ceiling in emissions per second.
// It is wall-clock based, not tick based: after an emission the next one
// becomes eligible 1/rate seconds later, so a simulation ticking faster
// than the rate skips the emissions in between and one ticking slower is
// untouched.
type Throttle struct {
	interval time.Duration
	last     time.Time
}

// NewThrottle returns a throttle allowing at most rateHz emissions per
// second. A rate of zero (or less) disables emission entirely.
func NewThrottle(rateHz float64) *Throttle {
	if rateHz <= 0 {
		return &Throttle{}
	}
	return &Throttle{interval: time.Duration(float64(time.Second) / rateHz)}
}

// Enabled reports whether any emission can ever pass.
func (t *Throttle) Enabled() bool { return t.interval > 0 }

// Ready reports whether an emission may happen at now and, when it may,
// records now as the last emission time. The first call after
// construction is always ready.
func (t *Throttle) Ready(now time.Time) bool {
	if t.interval <= 0 {
		return false
	}
	if !t.last.IsZero() && now.Sub(t.last) < t.interval {
		return false
	}
	t.last = now
	return true
}
