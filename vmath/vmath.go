// Package vmath holds the interpolation math used to record and replay rigid-body poses
// Vectors are gonum r3.Vec, orientations are unit quaternions (quat.Number)
package vmath

import "math"

// Epsilon is the default tolerance for approximate comparisons
const Epsilon = 1e-9

// Clamp01 limits t to [0, 1]
func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Lerp interpolates scalars, t is not clamped
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// ApproxEqual reports whether a and b differ by at most tol
func ApproxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
