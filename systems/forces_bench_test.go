package systems

import (
	"math/rand"
	"testing"

	"github.com/flocklab/murmur/components"
)

// benchFlock builds a deterministic flock spread over a 1000x1000 field.
func benchFlock(n int) []Boid {
	rng := rand.New(rand.NewSource(1))
	flock := make([]Boid, n)
	for i := range flock {
		flock[i] = Boid{
			Pos: components.Position{X: rng.Float64() * 1000, Y: rng.Float64() * 1000},
			Vel: components.Velocity{DX: rng.Float64()*10 - 5, DY: rng.Float64()*10 - 5},
		}
	}
	return flock
}

// Benchmark the raw neighbor scan. This is the O(n^2) core of every
// step, so per-agent cost here dominates everything else.
func benchNeighbors(b *testing.B, size int) {
	flock := benchFlock(size)
	buf := make([]Neighbor, 0, 64)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		for i := range flock {
			buf = NeighborsInto(buf[:0], flock, i, 75, true)
		}
	}
	_ = buf
}

func BenchmarkNeighborsInto256(b *testing.B)  { benchNeighbors(b, 256) }
func BenchmarkNeighborsInto1024(b *testing.B) { benchNeighbors(b, 1024) }

// Benchmark the full per-agent rule pipeline: three neighbor scans plus
// the force rules, in the order the step applies them.
func BenchmarkRulePipeline256(b *testing.B) {
	flock := benchFlock(256)
	buf := make([]Neighbor, 0, 64)
	var sinkX, sinkY float64

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		for i := range flock {
			vx, vy := flock[i].Vel.DX, flock[i].Vel.DY

			buf = NeighborsInto(buf[:0], flock, i, 75, true)
			dx, dy := Cohesion(flock, i, buf, 0.005)
			vx += dx
			vy += dy

			buf = NeighborsInto(buf[:0], flock, i, 20, false)
			dx, dy = Separation(buf, 0.05)
			vx += dx
			vy += dy

			buf = NeighborsInto(buf[:0], flock, i, 75, true)
			dx, dy = Alignment(flock, buf, vx, vy, 0.05)
			vx += dx
			vy += dy

			dx, dy = BoundaryNudge(flock[i].Pos, 1000, 1000, 200, 1)
			vx += dx
			vy += dy

			vx, vy = LimitSpeed(vx, vy, 15)
			sinkX += vx
			sinkY += vy
		}
	}
	_, _ = sinkX, sinkY
}
