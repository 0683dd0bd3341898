package physics

import (
	"github.com/lixenwraith/vi-rewind/core"
)

// Material defines contact response of a body
type Material struct {
	Restitution float64 // Bounce energy retained [0,1]
	Friction    float64 // Tangential velocity lost per ground contact [0,1]
}

// DefaultMaterial is a moderately bouncy rubber-like surface
var DefaultMaterial = Material{Restitution: 0.6, Friction: 0.05}

// Body is a rigid sphere owned by a World
type Body struct {
	Pose     core.Pose
	Radius   float64
	Mass     float64 // <= 0 means immovable
	Material Material

	// Simulated bodies are integrated by the world; others hold whatever pose they are given
	Simulated bool
	// Grounded is set while resting on the floor, cleared by teleports
	Grounded bool

	generation uint32
	alive      bool
}

// InvMass returns 1/mass, 0 for immovable bodies
func (b *Body) InvMass() float64 {
	if b.Mass <= 0 {
		return 0
	}
	return 1 / b.Mass
}

// Dynamic reports whether the world moves this body on Step
func (b *Body) Dynamic() bool {
	return b.alive && b.Simulated && b.Mass > 0
}
