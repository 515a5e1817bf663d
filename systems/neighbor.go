// Package systems implements the per-step flocking rules: neighbor
// search, the interaction forces, boundary containment and the speed
// clamp. Everything here is pure over an immutable snapshot of the
// flock, so rule evaluation never observes in-progress updates from the
// same step.
package systems

import "github.com/flocklab/murmur/components"

// Boid is one agent's state captured at the start of a step.
type Boid struct {
	Pos components.Position
	Vel components.Velocity
}

// Neighbor is one agent found by a radius query.
type Neighbor struct {
	Index  int     // index into the snapshot slice
	DX, DY float64 // offset from the querying agent to this neighbor
	DistSq float64
}

// NeighborsInto appends every agent strictly closer than radius to
// flock[self] into dst and returns the extended slice. Pass dst[:0] to
// reuse a scratch buffer across calls.
//
// includeSelf controls whether the querying agent itself may appear in
// the result: the cohesion and alignment averages count it (distance
// zero always qualifies), the separation rule must not see it.
//
// The search is a deliberate brute-force pass over the whole flock.
// Rules with different radii rescan rather than share one result, which
// keeps each rule independent and the per-step cost a predictable
// O(n^2).
func NeighborsInto(dst []Neighbor, flock []Boid, self int, radius float64, includeSelf bool) []Neighbor {
	if radius <= 0 {
		return dst
	}
	rsq := radius * radius
	sp := flock[self].Pos
	for j := range flock {
		if j == self && !includeSelf {
			continue
		}
		dx := flock[j].Pos.X - sp.X
		dy := flock[j].Pos.Y - sp.Y
		dsq := dx*dx + dy*dy
		if dsq < rsq {
			dst = append(dst, Neighbor{Index: j, DX: dx, DY: dy, DistSq: dsq})
		}
	}
	return dst
}
