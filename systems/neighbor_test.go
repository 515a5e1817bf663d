package systems

import (
	"testing"

	"github.com/flocklab/murmur/components"
)

func flockAt(coords ...[2]float64) []Boid {
	flock := make([]Boid, len(coords))
	for i, c := range coords {
		flock[i] = Boid{Pos: components.Position{X: c[0], Y: c[1]}}
	}
	return flock
}

func TestNeighborsInto(t *testing.T) {
	// Agent 0 at the origin, one agent inside the radius, one exactly on
	// it, one outside.
	flock := flockAt([2]float64{0, 0}, [2]float64{3, 4}, [2]float64{10, 0}, [2]float64{20, 20})

	tests := []struct {
		name        string
		radius      float64
		includeSelf bool
		wantIndices []int
	}{
		{"basic exclusive", 10, false, []int{1}},
		{"boundary is exclusive", 5, false, []int{}},
		{"include self", 10, true, []int{0, 1}},
		{"zero radius finds nothing", 0, true, []int{}},
		{"negative radius finds nothing", -5, true, []int{}},
		{"large radius finds all others", 100, false, []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NeighborsInto(nil, flock, 0, tt.radius, tt.includeSelf)
			if len(got) != len(tt.wantIndices) {
				t.Fatalf("got %d neighbors, want %d", len(got), len(tt.wantIndices))
			}
			for i, nb := range got {
				if nb.Index != tt.wantIndices[i] {
					t.Errorf("neighbor %d index = %d, want %d", i, nb.Index, tt.wantIndices[i])
				}
			}
		})
	}
}

func TestNeighborsIntoOffsets(t *testing.T) {
	flock := flockAt([2]float64{1, 1}, [2]float64{4, 5})

	got := NeighborsInto(nil, flock, 0, 10, false)
	if len(got) != 1 {
		t.Fatalf("expected 1 neighbor, got %d", len(got))
	}
	nb := got[0]
	if nb.DX != 3 || nb.DY != 4 {
		t.Errorf("offset = (%v, %v), want (3, 4)", nb.DX, nb.DY)
	}
	if nb.DistSq != 25 {
		t.Errorf("distSq = %v, want 25", nb.DistSq)
	}
}

func TestNeighborsIntoReusesBuffer(t *testing.T) {
	flock := flockAt([2]float64{0, 0}, [2]float64{1, 0}, [2]float64{2, 0})

	buf := make([]Neighbor, 0, 8)
	buf = NeighborsInto(buf, flock, 0, 5, false)
	if len(buf) != 2 {
		t.Fatalf("first query: got %d neighbors, want 2", len(buf))
	}

	// Reusing via buf[:0] must not carry results over.
	buf = NeighborsInto(buf[:0], flock, 2, 1.5, false)
	if len(buf) != 1 {
		t.Fatalf("second query: got %d neighbors, want 1", len(buf))
	}
	if buf[0].Index != 1 {
		t.Errorf("second query index = %d, want 1", buf[0].Index)
	}
}
