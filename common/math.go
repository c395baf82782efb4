package common

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Up is the world up axis. The track plane is XZ.
var Up = r3.Vec{Y: 1}

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Distance is the Euclidean distance between two points.
func Distance(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(b, a))
}

// Flatten drops the vertical component of v.
func Flatten(v r3.Vec) r3.Vec {
	return r3.Vec{X: v.X, Z: v.Z}
}

// WithHeight returns v with its Y replaced by y.
func WithHeight(v r3.Vec, y float64) r3.Vec {
	return r3.Vec{X: v.X, Y: y, Z: v.Z}
}

// SideOffsets returns the left and right horizontal offsets of length
// halfWidth perpendicular to the direction from a to b. Both are zero when
// a and b share the same horizontal position.
func SideOffsets(a, b r3.Vec, halfWidth float64) (left, right r3.Vec) {
	dir := Flatten(r3.Sub(b, a))
	if r3.Norm(dir) == 0 || halfWidth == 0 {
		return r3.Vec{}, r3.Vec{}
	}
	left = r3.Scale(halfWidth, r3.Unit(r3.Vec{X: -dir.Z, Z: dir.X}))
	return left, r3.Scale(-1, left)
}

// HeadingYaw returns the yaw in radians that looks along dir, measured from
// +Z towards +X.
func HeadingYaw(dir r3.Vec) float64 {
	return math.Atan2(dir.X, dir.Z)
}

func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
