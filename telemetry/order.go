// Package telemetry derives the observable outputs of a run: order
// parameters, the quantized wire encoding, rate throttling, windowed
// stats and the output artifacts written next to a run.
package telemetry

import (
	"math"

	"github.com/flocklab/murmur/systems"
)

// Vec is a 2D vector in the wire schema's field naming.
type Vec struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// OrderParameters are the aggregate observables of one flock snapshot.
// Parameter sweeps and phase-diagram analyses consume these, so their
// exact definitions are contract, not implementation detail.
type OrderParameters struct {
	// Velocity is the magnitude of the summed velocity vector. The sum is
	// not divided by n before taking the magnitude; downstream analyses
	// are calibrated against that scaling.
	Velocity float64 `json:"velocity"`
	// Mean is the mean velocity vector, the same sum divided by n.
	Mean Vec `json:"vector"`
	// Polarization is the magnitude of the summed unit headings over n,
	// in [0,1]: 1 for perfectly aligned headings, 0 when they cancel.
	Polarization float64 `json:"polarization"`
	// RotationOrder measures coherent motion about the flock's center of
	// mass, empirically in [0,1].
	RotationOrder float64 `json:"rotationOrder"`
}

// ComputeOrderParameters evaluates the order parameters over a snapshot.
// Agents with zero speed contribute nothing to the heading terms (not a
// zero vector) but still count in every denominator; an agent sitting
// exactly on the center of mass contributes nothing to rotation. An
// empty flock yields all zeros.
func ComputeOrderParameters(flock []systems.Boid) OrderParameters {
	var op OrderParameters
	n := len(flock)
	if n == 0 {
		return op
	}
	fn := float64(n)

	var sumVX, sumVY float64
	var cx, cy float64
	for _, b := range flock {
		sumVX += b.Vel.DX
		sumVY += b.Vel.DY
		cx += b.Pos.X
		cy += b.Pos.Y
	}
	op.Velocity = math.Sqrt(sumVX*sumVX + sumVY*sumVY)
	op.Mean = Vec{DX: sumVX / fn, DY: sumVY / fn}
	cx /= fn
	cy /= fn

	var px, py float64
	var rot float64
	for _, b := range flock {
		speed := math.Sqrt(b.Vel.DX*b.Vel.DX + b.Vel.DY*b.Vel.DY)
		if speed == 0 {
			continue
		}
		ux := b.Vel.DX / speed
		uy := b.Vel.DY / speed
		px += ux
		py += uy

		rx := b.Pos.X - cx
		ry := b.Pos.Y - cy
		rlen := math.Sqrt(rx*rx + ry*ry)
		if rlen == 0 {
			continue
		}
		rx /= rlen
		ry /= rlen
		// Keep this exact component pairing: recorded sweep baselines
		// were produced with it.
		rot += ux*rx - ry*uy
	}
	op.Polarization = math.Sqrt(px*px+py*py) / fn
	op.RotationOrder = math.Abs(rot) / fn
	return op
}
