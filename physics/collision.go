package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ElasticCollision applies the normal impulse between two approaching spheres in place
// Returns false when the bodies are separating, coincident or both immovable
func ElasticCollision(a, b *Body) bool {
	delta := r3.Sub(b.Pose.Position, a.Pose.Position)
	dist := r3.Norm(delta)
	if dist == 0 {
		return false
	}
	n := r3.Scale(1/dist, delta)

	vn := r3.Dot(r3.Sub(a.Pose.LinearVelocity, b.Pose.LinearVelocity), n)
	// Separating
	if vn <= 0 {
		return false
	}

	invA, invB := a.InvMass(), b.InvMass()
	invSum := invA + invB
	if invSum == 0 {
		return false
	}

	e := math.Min(a.Material.Restitution, b.Material.Restitution)
	j := (1 + e) * vn / invSum

	a.Pose.LinearVelocity = r3.Sub(a.Pose.LinearVelocity, r3.Scale(j*invA, n))
	b.Pose.LinearVelocity = r3.Add(b.Pose.LinearVelocity, r3.Scale(j*invB, n))
	return true
}

// SeparateOverlap pushes overlapping spheres apart along their center line, weighted by inverse mass
func SeparateOverlap(a, b *Body) bool {
	delta := r3.Sub(b.Pose.Position, a.Pose.Position)
	dist := r3.Norm(delta)
	minDist := a.Radius + b.Radius
	if dist >= minDist || dist == 0 {
		return false
	}

	invA, invB := a.InvMass(), b.InvMass()
	invSum := invA + invB
	if invSum == 0 {
		return false
	}

	overlap := minDist - dist
	n := r3.Scale(1/dist, delta)
	a.Pose.Position = r3.Sub(a.Pose.Position, r3.Scale(overlap*invA/invSum, n))
	b.Pose.Position = r3.Add(b.Pose.Position, r3.Scale(overlap*invB/invSum, n))
	return true
}

// Overlapping reports whether two spheres intersect
func Overlapping(a, b *Body) bool {
	r := a.Radius + b.Radius
	d := r3.Sub(b.Pose.Position, a.Pose.Position)
	return r3.Dot(d, d) < r*r
}
