package telemetry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/flocklab/murmur/components"
	"github.com/flocklab/murmur/systems"
)

func boid(x, y, dx, dy float64) systems.Boid {
	return systems.Boid{
		Pos: components.Position{X: x, Y: y},
		Vel: components.Velocity{DX: dx, DY: dy},
	}
}

func TestComputeOrderParametersEmpty(t *testing.T) {
	op := ComputeOrderParameters(nil)

	if op.Velocity != 0 || op.Mean.DX != 0 || op.Mean.DY != 0 {
		t.Errorf("empty flock velocity = %+v, want zeros", op)
	}
	if op.Polarization != 0 || op.RotationOrder != 0 {
		t.Errorf("empty flock order = %+v, want zeros", op)
	}
}

func TestComputeOrderParametersAligned(t *testing.T) {
	// Four agents, identical velocity (3,4), scattered positions.
	flock := []systems.Boid{
		boid(0, 0, 3, 4),
		boid(10, 0, 3, 4),
		boid(0, 10, 3, 4),
		boid(10, 10, 3, 4),
	}

	op := ComputeOrderParameters(flock)

	if math.Abs(op.Polarization-1) > 1e-12 {
		t.Errorf("polarization = %v, want 1", op.Polarization)
	}
	// Summed velocity is (12,16), magnitude 20: no division by n.
	if math.Abs(op.Velocity-20) > 1e-12 {
		t.Errorf("velocity = %v, want 20", op.Velocity)
	}
	if math.Abs(op.Mean.DX-3) > 1e-12 || math.Abs(op.Mean.DY-4) > 1e-12 {
		t.Errorf("mean = %+v, want (3,4)", op.Mean)
	}
}

func TestComputeOrderParametersOpposing(t *testing.T) {
	flock := []systems.Boid{
		boid(0, 0, 5, 0),
		boid(10, 0, -5, 0),
	}

	op := ComputeOrderParameters(flock)

	if op.Polarization > 1e-12 {
		t.Errorf("polarization = %v, want 0", op.Polarization)
	}
	if op.Velocity > 1e-12 {
		t.Errorf("velocity = %v, want 0", op.Velocity)
	}
}

func TestComputeOrderParametersStillAgents(t *testing.T) {
	// A stationary agent contributes no heading but still counts in n.
	flock := []systems.Boid{
		boid(0, 0, 2, 0),
		boid(10, 0, 0, 0),
	}

	op := ComputeOrderParameters(flock)

	if math.Abs(op.Polarization-0.5) > 1e-12 {
		t.Errorf("polarization = %v, want 0.5", op.Polarization)
	}
	if math.Abs(op.Velocity-2) > 1e-12 {
		t.Errorf("velocity = %v, want 2", op.Velocity)
	}
	if math.Abs(op.Mean.DX-1) > 1e-12 {
		t.Errorf("mean dx = %v, want 1", op.Mean.DX)
	}
}

func TestComputeOrderParametersVelocityUnnormalized(t *testing.T) {
	flock := []systems.Boid{
		boid(0, 0, 3, 0),
		boid(5, 5, 1, 0),
	}

	op := ComputeOrderParameters(flock)

	if math.Abs(op.Velocity-4) > 1e-12 {
		t.Errorf("velocity = %v, want 4 (summed, not averaged)", op.Velocity)
	}
	if math.Abs(op.Mean.DX-2) > 1e-12 || math.Abs(op.Mean.DY) > 1e-12 {
		t.Errorf("mean = %+v, want (2,0)", op.Mean)
	}
}

func TestComputeOrderParametersRotation(t *testing.T) {
	// Two agents around center of mass (2,1).
	// Agent A at (3,1), velocity (2,2): u=(1/sqrt2,1/sqrt2), r=(1,0),
	// term = ux*rx - ry*uy = 1/sqrt2.
	// Agent B at (1,1), velocity (-1,0): u=(-1,0), r=(-1,0), term = 1.
	flock := []systems.Boid{
		boid(3, 1, 2, 2),
		boid(1, 1, -1, 0),
	}

	op := ComputeOrderParameters(flock)

	want := (math.Sqrt2/2 + 1) / 2
	if math.Abs(op.RotationOrder-want) > 1e-12 {
		t.Errorf("rotation order = %v, want %v", op.RotationOrder, want)
	}
}

func TestComputeOrderParametersSingleAgent(t *testing.T) {
	// A lone agent sits on its own center of mass: no rotation term,
	// full polarization.
	op := ComputeOrderParameters([]systems.Boid{boid(7, 7, 0, 3)})

	if math.Abs(op.Polarization-1) > 1e-12 {
		t.Errorf("polarization = %v, want 1", op.Polarization)
	}
	if op.RotationOrder != 0 {
		t.Errorf("rotation order = %v, want 0", op.RotationOrder)
	}
}

func TestComputeOrderParametersBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	flock := make([]systems.Boid, 200)
	for i := range flock {
		flock[i] = boid(
			rng.Float64()*1000, rng.Float64()*1000,
			rng.Float64()*10-5, rng.Float64()*10-5,
		)
	}

	op := ComputeOrderParameters(flock)

	if op.Polarization < 0 || op.Polarization > 1 {
		t.Errorf("polarization = %v, want within [0,1]", op.Polarization)
	}
	if op.RotationOrder < 0 || op.RotationOrder > 1 {
		t.Errorf("rotation order = %v, want within [0,1]", op.RotationOrder)
	}
}
