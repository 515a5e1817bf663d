package telemetry

import (
	"testing"
	"time"
)

func TestThrottleFirstCallReady(t *testing.T) {
	th := NewThrottle(2)
	now := time.Unix(0, 0)

	if !th.Ready(now) {
		t.Error("first call should be ready")
	}
}

func TestThrottleSpacing(t *testing.T) {
	th := NewThrottle(2) // 500ms interval
	t0 := time.Unix(100, 0)

	if !th.Ready(t0) {
		t.Fatal("first call should be ready")
	}
	if th.Ready(t0.Add(499 * time.Millisecond)) {
		t.Error("499ms after an emission should not be ready")
	}
	if !th.Ready(t0.Add(500 * time.Millisecond)) {
		t.Error("500ms after an emission should be ready")
	}
}

func TestThrottleDisabled(t *testing.T) {
	for _, rate := range []float64{0, -1} {
		th := NewThrottle(rate)
		if th.Enabled() {
			t.Errorf("rate %v: Enabled() = true, want false", rate)
		}
		now := time.Unix(0, 0)
		for i := 0; i < 10; i++ {
			if th.Ready(now) {
				t.Fatalf("rate %v: Ready() = true, want permanently false", rate)
			}
			now = now.Add(time.Second)
		}
	}
}

func TestThrottleFastTicker(t *testing.T) {
	// 2 Hz throttle polled every 16ms for 2 simulated seconds: the
	// emission count must stay near rate*duration regardless of how
	// much faster the poller runs.
	th := NewThrottle(2)
	now := time.Unix(0, 0)

	emitted := 0
	for elapsed := time.Duration(0); elapsed < 2*time.Second; elapsed += 16 * time.Millisecond {
		now = now.Add(16 * time.Millisecond)
		if th.Ready(now) {
			emitted++
		}
	}

	if emitted < 3 || emitted > 5 {
		t.Errorf("emitted %d payloads over 2s at 2Hz, want 3..5", emitted)
	}
}
