package vmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// slerpLinearThreshold switches slerp to normalized lerp for nearly parallel quaternions
const slerpLinearThreshold = 0.9995

// QIdentity returns the no-rotation quaternion
func QIdentity() quat.Number {
	return quat.Number{Real: 1}
}

// QDot returns the 4D dot product
func QDot(a, b quat.Number) float64 {
	return a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
}

// QNormalize returns q scaled to unit length, identity for the zero quaternion
func QNormalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return QIdentity()
	}
	return quat.Scale(1/n, q)
}

// QFromAxisAngle builds a rotation of angle radians about axis
// A zero axis yields identity
func QFromAxisAngle(axis r3.Vec, angle float64) quat.Number {
	if r3.Norm(axis) == 0 {
		return QIdentity()
	}
	u := r3.Unit(axis)
	s, c := math.Sincos(angle / 2)
	return quat.Number{Real: c, Imag: u.X * s, Jmag: u.Y * s, Kmag: u.Z * s}
}

// QFromEuler builds a quaternion from roll (X), pitch (Y), yaw (Z) in radians, applied Z-Y-X
func QFromEuler(roll, pitch, yaw float64) quat.Number {
	sr, cr := math.Sincos(roll / 2)
	sp, cp := math.Sincos(pitch / 2)
	sy, cy := math.Sincos(yaw / 2)
	return quat.Number{
		Real: cr*cp*cy + sr*sp*sy,
		Imag: sr*cp*cy - cr*sp*sy,
		Jmag: cr*sp*cy + sr*cp*sy,
		Kmag: cr*cp*sy - sr*sp*cy,
	}
}

// QToEuler decomposes a unit quaternion into roll, pitch, yaw in radians
// Pitch saturates at ±π/2 (gimbal lock)
func QToEuler(q quat.Number) (roll, pitch, yaw float64) {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag

	roll = math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))

	sinp := 2 * (w*y - z*x)
	if math.Abs(sinp) >= 1 {
		pitch = math.Copysign(math.Pi/2, sinp)
	} else {
		pitch = math.Asin(sinp)
	}

	yaw = math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))
	return roll, pitch, yaw
}

// QSlerp interpolates along the shortest arc between unit quaternions
// t is clamped to [0,1]; t=1 returns b or its antipode (same rotation)
func QSlerp(a, b quat.Number, t float64) quat.Number {
	t = Clamp01(t)

	d := QDot(a, b)
	if d < 0 {
		b = quat.Scale(-1, b)
		d = -d
	}

	if d > slerpLinearThreshold {
		return QNormalize(quat.Add(a, quat.Scale(t, quat.Sub(b, a))))
	}

	theta0 := math.Acos(d)
	theta := theta0 * t
	sinTheta0 := math.Sin(theta0)
	sinTheta, cosTheta := math.Sincos(theta)

	s0 := cosTheta - d*sinTheta/sinTheta0
	s1 := sinTheta / sinTheta0
	return quat.Add(quat.Scale(s0, a), quat.Scale(s1, b))
}

// QAngle returns the rotation angle in radians separating a and b, in [0, π]
func QAngle(a, b quat.Number) float64 {
	d := math.Abs(QDot(QNormalize(a), QNormalize(b)))
	if d > 1 {
		d = 1
	}
	return 2 * math.Acos(d)
}

// QRotate applies rotation q to vector v
func QRotate(q quat.Number, v r3.Vec) r3.Vec {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vec{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// QIntegrate advances orientation q by world-space angular velocity omega over dt seconds
// First-order: q' = normalize(q + ½·dt·ω·q)
func QIntegrate(q quat.Number, omega r3.Vec, dt float64) quat.Number {
	w := quat.Number{Imag: omega.X, Jmag: omega.Y, Kmag: omega.Z}
	dq := quat.Scale(0.5*dt, quat.Mul(w, q))
	return QNormalize(quat.Add(q, dq))
}
