package telemetry

import (
	"math"
	"testing"
)

func TestCollectorAggregatesWindow(t *testing.T) {
	c := NewCollector(3)

	ops := []OrderParameters{
		{Velocity: 10, Polarization: 0.2, RotationOrder: 0.1},
		{Velocity: 20, Polarization: 0.4, RotationOrder: 0.3},
		{Velocity: 30, Polarization: 0.9, RotationOrder: 0.2},
	}
	for i, op := range ops {
		if c.ShouldFlush() {
			t.Fatalf("ShouldFlush() = true before window filled (record %d)", i)
		}
		c.Record(i+1, int64(16*(i+1)), 50, op)
	}

	if !c.ShouldFlush() {
		t.Fatal("ShouldFlush() = false after full window")
	}

	stats := c.Flush()

	if stats.WindowEnd != 3 || stats.TMs != 48 || stats.Steps != 3 || stats.N != 50 {
		t.Errorf("window identity = %+v, want end=3 tMs=48 steps=3 n=50", stats)
	}
	if math.Abs(stats.MeanVelocity-20) > 1e-12 {
		t.Errorf("mean velocity = %v, want 20", stats.MeanVelocity)
	}
	if math.Abs(stats.MeanPolarization-0.5) > 1e-12 {
		t.Errorf("mean polarization = %v, want 0.5", stats.MeanPolarization)
	}
	if stats.MinPolarization != 0.2 || stats.MaxPolarization != 0.9 {
		t.Errorf("polarization range = [%v,%v], want [0.2,0.9]", stats.MinPolarization, stats.MaxPolarization)
	}
	if stats.MinRotation != 0.1 || stats.MaxRotation != 0.3 {
		t.Errorf("rotation range = [%v,%v], want [0.1,0.3]", stats.MinRotation, stats.MaxRotation)
	}
}

func TestCollectorResetsAfterFlush(t *testing.T) {
	c := NewCollector(2)

	c.Record(1, 16, 10, OrderParameters{Polarization: 0.8})
	c.Record(2, 32, 10, OrderParameters{Polarization: 0.8})
	c.Flush()

	if c.Pending() != 0 {
		t.Errorf("Pending() = %d after flush, want 0", c.Pending())
	}
	if c.ShouldFlush() {
		t.Error("ShouldFlush() = true after flush")
	}

	// The next window must not see the previous one's extremes.
	c.Record(3, 48, 10, OrderParameters{Polarization: 0.1})
	c.Record(4, 64, 10, OrderParameters{Polarization: 0.3})
	stats := c.Flush()

	if stats.MaxPolarization != 0.3 {
		t.Errorf("max polarization = %v, want 0.3 (stale window state)", stats.MaxPolarization)
	}
	if stats.WindowEnd != 4 {
		t.Errorf("window end = %d, want 4", stats.WindowEnd)
	}
}

func TestCollectorEmptyFlush(t *testing.T) {
	c := NewCollector(5)
	stats := c.Flush()
	if stats != (WindowStats{}) {
		t.Errorf("empty flush = %+v, want zero value", stats)
	}
}

func TestCollectorMinimumWindow(t *testing.T) {
	c := NewCollector(0)
	if c.WindowSize() != 1 {
		t.Fatalf("WindowSize() = %d, want 1", c.WindowSize())
	}
	c.Record(1, 16, 5, OrderParameters{Velocity: 7})
	if !c.ShouldFlush() {
		t.Error("window of 1 should flush after a single record")
	}
}
