package pursuit

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/milk9111/kartpilot/common"
)

// Identity is the unrotated orientation, facing +Z.
var Identity = quat.Number{Real: 1}

// Pose is the kart's position and orientation. Orientation is a unit
// quaternion with +Y up.
type Pose struct {
	Position    r3.Vec
	Orientation quat.Number
}

// YawRotation returns the rotation of yaw radians about +Y.
func YawRotation(yaw float64) quat.Number {
	s, c := math.Sincos(yaw / 2)
	return quat.Number{Real: c, Jmag: s}
}

// Yaw extracts the heading about +Y from q.
func Yaw(q quat.Number) float64 {
	return math.Atan2(2*(q.Real*q.Jmag+q.Imag*q.Kmag), 1-2*(q.Imag*q.Imag+q.Jmag*q.Jmag))
}

// Forward returns the horizontal unit vector q faces.
func Forward(q quat.Number) r3.Vec {
	s, c := math.Sincos(Yaw(q))
	return r3.Vec{X: s, Z: c}
}

// LookRotation returns the yaw-only rotation facing along dir. A direction
// with no horizontal component yields Identity.
func LookRotation(dir r3.Vec) quat.Number {
	flat := common.Flatten(dir)
	if r3.Norm(flat) == 0 {
		return Identity
	}
	return YawRotation(common.HeadingYaw(flat))
}

// AngleBetween returns the rotation angle in degrees separating a and b.
func AngleBetween(a, b quat.Number) float64 {
	d := math.Min(math.Abs(dot(a, b)), 1)
	return common.Degrees(2 * math.Acos(d))
}

// RotateTowards rotates from towards to by at most maxDegrees.
func RotateTowards(from, to quat.Number, maxDegrees float64) quat.Number {
	angle := AngleBetween(from, to)
	if angle == 0 {
		return to
	}
	t := math.Min(1, math.Max(0, maxDegrees)/angle)
	return slerp(from, to, t)
}

// YawOnly zeroes the roll and pitch components of q and renormalises.
func YawOnly(q quat.Number) quat.Number {
	q.Imag = 0
	q.Kmag = 0
	return normalize(q)
}

// slerp walks the shorter arc from a to b: a * (conj(a) * b)^t.
func slerp(a, b quat.Number, t float64) quat.Number {
	if dot(a, b) < 0 {
		b = quat.Scale(-1, b)
	}
	rel := quat.Mul(quat.Conj(a), b)
	return normalize(quat.Mul(a, quat.PowReal(rel, t)))
}

func dot(a, b quat.Number) float64 {
	return a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
}

func normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return Identity
	}
	return quat.Scale(1/n, q)
}
