package components

import "testing"

func TestTrailPushBelowCapacity(t *testing.T) {
	var tr Trail

	tr.Push(Position{X: 1, Y: 2})
	tr.Push(Position{X: 3, Y: 4})

	if tr.Len() != 2 {
		t.Fatalf("expected len 2, got %d", tr.Len())
	}
	if got := tr.At(0); got.X != 1 || got.Y != 2 {
		t.Errorf("oldest entry = %+v, want {1 2}", got)
	}
	if got := tr.At(1); got.X != 3 || got.Y != 4 {
		t.Errorf("newest entry = %+v, want {3 4}", got)
	}
}

func TestTrailEvictsOldest(t *testing.T) {
	var tr Trail

	// One full ring plus three extra pushes.
	for i := 0; i < TrailCap+3; i++ {
		tr.Push(Position{X: float64(i), Y: float64(-i)})
	}

	if tr.Len() != TrailCap {
		t.Fatalf("expected len %d, got %d", TrailCap, tr.Len())
	}
	// Oldest surviving entry is push #3.
	if got := tr.At(0); got.X != 3 {
		t.Errorf("oldest entry X = %v, want 3", got.X)
	}
	if got := tr.At(TrailCap - 1); got.X != float64(TrailCap+2) {
		t.Errorf("newest entry X = %v, want %d", got.X, TrailCap+2)
	}
}

func TestTrailPointsOrder(t *testing.T) {
	var tr Trail
	for i := 0; i < 7; i++ {
		tr.Push(Position{X: float64(i)})
	}

	pts := tr.Points(nil)
	if len(pts) != 7 {
		t.Fatalf("expected 7 points, got %d", len(pts))
	}
	for i, p := range pts {
		if p.X != float64(i) {
			t.Errorf("point %d X = %v, want %d", i, p.X, i)
		}
	}
}

func TestTrailReset(t *testing.T) {
	var tr Trail
	for i := 0; i < 10; i++ {
		tr.Push(Position{X: float64(i)})
	}

	tr.Reset()

	if tr.Len() != 0 {
		t.Fatalf("expected empty trail after reset, got len %d", tr.Len())
	}
	tr.Push(Position{X: 99})
	if got := tr.At(0); got.X != 99 {
		t.Errorf("entry after reset = %v, want 99", got.X)
	}
}
