// Package components defines ECS components for the simulation.
package components

// Position represents an agent's world position. World units match the
// configured width/height; the origin is the top-left corner.
type Position struct {
	X, Y float64
}

// Velocity represents an agent's per-step displacement in world units.
type Velocity struct {
	DX, DY float64
}
