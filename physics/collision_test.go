package physics

import (
	"testing"

	"github.com/lixenwraith/vi-rewind/core"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func sphere(x, vx float64) *Body {
	p := core.At(r3.Vec{X: x})
	p.LinearVelocity = r3.Vec{X: vx}
	return &Body{Pose: p, Radius: 0.5, Mass: 1, Material: Material{Restitution: 1}, Simulated: true, alive: true}
}

func TestElasticCollision_EqualMassesSwap(t *testing.T) {
	a, b := sphere(0, 2), sphere(0.9, 0)

	assert.True(t, ElasticCollision(a, b))
	assert.InDelta(t, 0, a.Pose.LinearVelocity.X, 1e-12)
	assert.InDelta(t, 2, b.Pose.LinearVelocity.X, 1e-12)
}

func TestElasticCollision_SeparatingIgnored(t *testing.T) {
	a, b := sphere(0, -1), sphere(0.9, 1)
	assert.False(t, ElasticCollision(a, b))
	assert.Equal(t, -1.0, a.Pose.LinearVelocity.X)
}

func TestElasticCollision_ImmovablePair(t *testing.T) {
	a, b := sphere(0, 2), sphere(0.9, 0)
	a.Mass, b.Mass = 0, 0
	assert.False(t, ElasticCollision(a, b))
}

func TestSeparateOverlap(t *testing.T) {
	a, b := sphere(0, 0), sphere(0.6, 0)

	assert.True(t, Overlapping(a, b))
	assert.True(t, SeparateOverlap(a, b))
	assert.InDelta(t, -0.2, a.Pose.Position.X, 1e-12)
	assert.InDelta(t, 0.8, b.Pose.Position.X, 1e-12)
	assert.False(t, SeparateOverlap(a, b))
}

func TestReflectFloor_BounceAndRest(t *testing.T) {
	b := sphere(0, 0)
	b.Material = Material{Restitution: 0.5, Friction: 0.5}
	b.Pose.Position.Y = 0.4
	b.Pose.LinearVelocity = r3.Vec{X: 2, Y: -4}

	assert.True(t, ReflectFloor(b, 0, RestSpeed))
	assert.Equal(t, 0.5, b.Pose.Position.Y)
	assert.Equal(t, 2.0, b.Pose.LinearVelocity.Y)
	assert.Equal(t, 1.0, b.Pose.LinearVelocity.X)
	assert.False(t, b.Grounded)
	assert.Equal(t, -2.0, b.Pose.AngularVelocity.Z, "rolls along travel")

	b.Pose.Position.Y = 0.5
	b.Pose.LinearVelocity.Y = -0.1
	ReflectFloor(b, 0, RestSpeed)
	assert.True(t, b.Grounded)
	assert.Equal(t, 0.0, b.Pose.LinearVelocity.Y)
}
