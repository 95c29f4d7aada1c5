// Package components defines ECS components for the particle simulation.
package components

import "gonum.org/v1/gonum/spatial/r2"

// Position is a particle's canvas position in pixels.
type Position struct {
	r2.Vec
}

// Velocity is a particle's velocity in pixels per tick.
type Velocity struct {
	r2.Vec
}

// Acceleration accumulates the field force for the current tick.
// Cleared after every integration step.
type Acceleration struct {
	r2.Vec
}

// Trail holds the position the particle was last drawn at.
type Trail struct {
	Prev r2.Vec
}
