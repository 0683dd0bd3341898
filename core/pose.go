package core

import (
	"github.com/lixenwraith/vi-rewind/vmath"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Pose is the kinematic state of a rigid body in world space
// Rotation is a unit quaternion, angular velocity is in radians per second
type Pose struct {
	Position        r3.Vec
	Rotation        quat.Number
	LinearVelocity  r3.Vec
	AngularVelocity r3.Vec
}

// IdentityPose returns a pose at the origin with no rotation or motion
func IdentityPose() Pose {
	return Pose{Rotation: vmath.QIdentity()}
}

// At returns a resting, unrotated pose at position p
func At(p r3.Vec) Pose {
	return Pose{Position: p, Rotation: vmath.QIdentity()}
}

// Blend moves p toward target by alpha in [0,1]
// Vectors are lerped, rotation is slerped; alpha 1 yields target exactly
func (p Pose) Blend(target Pose, alpha float64) Pose {
	alpha = vmath.Clamp01(alpha)
	if alpha == 1 {
		return target
	}
	return Pose{
		Position:        vmath.V3Lerp(p.Position, target.Position, alpha),
		Rotation:        vmath.QSlerp(p.Rotation, target.Rotation, alpha),
		LinearVelocity:  vmath.V3Lerp(p.LinearVelocity, target.LinearVelocity, alpha),
		AngularVelocity: vmath.V3Lerp(p.AngularVelocity, target.AngularVelocity, alpha),
	}
}
