package physics

import (
	"math"

	"github.com/lixenwraith/vi-rewind/vmath"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// RestSpeed is the bounce speed below which vertical motion is zeroed on the floor
	RestSpeed = 0.2
	// angularDamping is the fraction of spin lost per second
	angularDamping = 0.1
)

// Integrate performs semi-implicit Euler: v = v + a*dt; p = p + v*dt; q = q + 0.5*w*q*dt
func Integrate(b *Body, accel r3.Vec, dt float64) {
	p := &b.Pose
	p.LinearVelocity = r3.Add(p.LinearVelocity, r3.Scale(dt, accel))
	p.Position = r3.Add(p.Position, r3.Scale(dt, p.LinearVelocity))
	p.Rotation = vmath.QIntegrate(p.Rotation, p.AngularVelocity, dt)
	p.AngularVelocity = r3.Scale(math.Max(0, 1-angularDamping*dt), p.AngularVelocity)
}

// ApplyImpulse adds velocity delta (momentum transfer)
func ApplyImpulse(b *Body, dv r3.Vec) {
	b.Pose.LinearVelocity = r3.Add(b.Pose.LinearVelocity, dv)
}

// SetImpulse overrides velocity (hard redirect)
func SetImpulse(b *Body, v r3.Vec) {
	b.Pose.LinearVelocity = v
}

// ReflectFloor resolves contact with the plane y = floor, returns true on contact
// Bounce keeps Restitution of normal speed, friction bleeds tangential speed into roll
// Bounces slower than rest come to a stop
func ReflectFloor(b *Body, floor, rest float64) bool {
	p := &b.Pose
	bottom := p.Position.Y - b.Radius
	if bottom > floor {
		b.Grounded = false
		return false
	}

	p.Position.Y = floor + b.Radius
	if p.LinearVelocity.Y < 0 {
		p.LinearVelocity.Y = -p.LinearVelocity.Y * b.Material.Restitution
	}
	if p.LinearVelocity.Y < rest {
		p.LinearVelocity.Y = 0
		b.Grounded = true
	}

	keep := 1 - vmath.Clamp01(b.Material.Friction)
	p.LinearVelocity.X *= keep
	p.LinearVelocity.Z *= keep

	// Rolling without slipping: w = n x v / r with n = +Y
	if b.Radius > 0 {
		p.AngularVelocity = r3.Vec{
			X: p.LinearVelocity.Z / b.Radius,
			Y: p.AngularVelocity.Y * keep,
			Z: -p.LinearVelocity.X / b.Radius,
		}
	}
	return true
}

// reflectAxis clamps one coordinate into [lo+r, hi-r] and reverses its velocity
func reflectAxis(pos, vel *float64, lo, hi, r, restitution float64) bool {
	switch {
	case *pos-r < lo:
		*pos = lo + r
		if *vel < 0 {
			*vel = -*vel * restitution
		}
		return true
	case *pos+r > hi:
		*pos = hi - r
		if *vel > 0 {
			*vel = -*vel * restitution
		}
		return true
	}
	return false
}

// ReflectWalls handles X and Z boundary collisions against box, returns true if any reflection occurred
func ReflectWalls(b *Body, box r3.Box) bool {
	p := &b.Pose
	e := b.Material.Restitution
	rx := reflectAxis(&p.Position.X, &p.LinearVelocity.X, box.Min.X, box.Max.X, b.Radius, e)
	rz := reflectAxis(&p.Position.Z, &p.LinearVelocity.Z, box.Min.Z, box.Max.Z, b.Radius, e)
	return rx || rz
}

// ReflectCeiling keeps the body below box.Max.Y
func ReflectCeiling(b *Body, box r3.Box) bool {
	p := &b.Pose
	if p.Position.Y+b.Radius <= box.Max.Y {
		return false
	}
	p.Position.Y = box.Max.Y - b.Radius
	if p.LinearVelocity.Y > 0 {
		p.LinearVelocity.Y = -p.LinearVelocity.Y * b.Material.Restitution
	}
	return true
}
