package telemetry

// Collector accumulates per-step order parameters and produces
// WindowStats every windowSize steps. The runner records after each
// step, checks ShouldFlush, and flushes into its output manager or log.
type Collector struct {
	windowSize int

	count    int
	lastStep int
	lastTMs  int64
	n        int

	sumVel float64

	sumPol, minPol, maxPol float64
	sumRot, minRot, maxRot float64
}

// NewCollector creates a collector flushing every windowSize steps.
// Window sizes below 1 are raised to 1.
func NewCollector(windowSize int) *Collector {
	if windowSize < 1 {
		windowSize = 1
	}
	return &Collector{windowSize: windowSize}
}

// WindowSize returns the number of steps aggregated per flush.
func (c *Collector) WindowSize() int { return c.windowSize }

// Record adds one step's order parameters to the current window.
func (c *Collector) Record(step int, tMs int64, n int, op OrderParameters) {
	if c.count == 0 {
		c.minPol, c.maxPol = op.Polarization, op.Polarization
		c.minRot, c.maxRot = op.RotationOrder, op.RotationOrder
	} else {
		if op.Polarization < c.minPol {
			c.minPol = op.Polarization
		}
		if op.Polarization > c.maxPol {
			c.maxPol = op.Polarization
		}
		if op.RotationOrder < c.minRot {
			c.minRot = op.RotationOrder
		}
		if op.RotationOrder > c.maxRot {
			c.maxRot = op.RotationOrder
		}
	}
	c.sumVel += op.Velocity
	c.sumPol += op.Polarization
	c.sumRot += op.RotationOrder
	c.count++
	c.lastStep = step
	c.lastTMs = tMs
	c.n = n
}

// ShouldFlush reports whether a full window has accumulated.
func (c *Collector) ShouldFlush() bool {
	return c.count >= c.windowSize
}

// Pending reports how many recorded steps await a flush, so a run can
// drain a partial window at the end.
func (c *Collector) Pending() int { return c.count }

// Flush produces the window summary and resets for the next window.
// Flushing an empty window returns a zero WindowStats.
func (c *Collector) Flush() WindowStats {
	if c.count == 0 {
		return WindowStats{}
	}
	fc := float64(c.count)
	stats := WindowStats{
		WindowEnd: c.lastStep,
		TMs:       c.lastTMs,
		Steps:     c.count,
		N:         c.n,

		MeanVelocity: c.sumVel / fc,

		MeanPolarization: c.sumPol / fc,
		MinPolarization:  c.minPol,
		MaxPolarization:  c.maxPol,

		MeanRotation: c.sumRot / fc,
		MinRotation:  c.minRot,
		MaxRotation:  c.maxRot,
	}

	c.count = 0
	c.sumVel = 0
	c.sumPol, c.minPol, c.maxPol = 0, 0, 0
	c.sumRot, c.minRot, c.maxRot = 0, 0, 0

	return stats
}
