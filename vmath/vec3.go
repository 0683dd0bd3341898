package vmath

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// V3Lerp interpolates component-wise: a + (b-a)*t
func V3Lerp(a, b r3.Vec, t float64) r3.Vec {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

// V3Dist returns the euclidean distance between a and b
func V3Dist(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(b, a))
}

// V3ApproxEqual compares vectors per component within tol
func V3ApproxEqual(a, b r3.Vec, tol float64) bool {
	return ApproxEqual(a.X, b.X, tol) && ApproxEqual(a.Y, b.Y, tol) && ApproxEqual(a.Z, b.Z, tol)
}

// V3ClampMagnitude limits vector magnitude to maxMag
func V3ClampMagnitude(v r3.Vec, maxMag float64) r3.Vec {
	mag := r3.Norm(v)
	if mag <= maxMag || mag == 0 {
		return v
	}
	return r3.Scale(maxMag/mag, v)
}
