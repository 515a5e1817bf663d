package systems

import (
	"math"

	"github.com/flocklab/murmur/components"
)

// Each rule below returns a velocity delta for one agent. The caller
// accumulates the deltas in rule order (cohesion, separation, alignment,
// containment, clamp) so that every rule reads the velocity as updated
// by the previous one, while neighbor state always comes from the
// pre-step snapshot.

// Cohesion steers toward the mean position of the agents within visual
// range. The querying agent is part of the average, which softens the
// pull; with no one else around the average collapses to the agent's own
// position and the delta is zero.
func Cohesion(flock []Boid, self int, neighbors []Neighbor, factor float64) (float64, float64) {
	if len(neighbors) == 0 {
		return 0, 0
	}
	var cx, cy float64
	for _, nb := range neighbors {
		p := flock[nb.Index].Pos
		cx += p.X
		cy += p.Y
	}
	n := float64(len(neighbors))
	sp := flock[self].Pos
	return (cx/n - sp.X) * factor, (cy/n - sp.Y) * factor
}

// Separation pushes away from agents closer than the protected distance.
// Every too-close neighbor contributes its full offset, so the push
// scales with crowding. The neighbor set must exclude the agent itself.
func Separation(neighbors []Neighbor, factor float64) (float64, float64) {
	var mx, my float64
	for _, nb := range neighbors {
		mx -= nb.DX
		my -= nb.DY
	}
	return mx * factor, my * factor
}

// Alignment steers toward the mean velocity of the agents within visual
// range (the querying agent included, as in Cohesion). vx, vy is the
// agent's velocity as accumulated so far this step; the delta is taken
// against that, not against the snapshot velocity.
func Alignment(flock []Boid, neighbors []Neighbor, vx, vy, factor float64) (float64, float64) {
	if len(neighbors) == 0 {
		return 0, 0
	}
	var ax, ay float64
	for _, nb := range neighbors {
		v := flock[nb.Index].Vel
		ax += v.DX
		ay += v.DY
	}
	n := float64(len(neighbors))
	return (ax/n - vx) * factor, (ay/n - vy) * factor
}

// BoundaryNudge turns an agent back toward the interior once it is
// within margin of an edge, independently per axis. It is a fixed
// per-step kick, not a clamp: a fast agent may leave the band and get
// turned around over the following steps.
func BoundaryNudge(pos components.Position, width, height, margin, turnFactor float64) (float64, float64) {
	var dx, dy float64
	if pos.X < margin {
		dx += turnFactor
	}
	if pos.X > width-margin {
		dx -= turnFactor
	}
	if pos.Y < margin {
		dy += turnFactor
	}
	if pos.Y > height-margin {
		dy -= turnFactor
	}
	return dx, dy
}

// LimitSpeed rescales a velocity exceeding limit back onto the limit
// circle, preserving heading. It must stay the final velocity substep of
// a step: every agent's post-step speed is bounded by the limit.
func LimitSpeed(vx, vy, limit float64) (float64, float64) {
	speed := math.Sqrt(vx*vx + vy*vy)
	if speed > limit {
		scale := limit / speed
		vx *= scale
		vy *= scale
	}
	return vx, vy
}
