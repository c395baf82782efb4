package route

import (
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultSamplesPerSegment is the number of curve samples emitted per pair of
// control points.
const DefaultSamplesPerSegment = 10

// Hermite resamples control points with a cubic Hermite spline. Interior
// tangents are half the difference of the neighbouring control points; the
// end tangents are plain differences. Each segment emits n samples and the
// last segment is stretched so its final sample lands on the last control
// point. Fewer than two control points are returned as a copy.
func Hermite(points []r3.Vec, n int) []r3.Vec {
	if len(points) < 2 {
		return append([]r3.Vec(nil), points...)
	}
	if n < 2 {
		n = 2
	}

	// One cubic per axis over a unit-spaced parameter, so each tangent is
	// also the derivative with respect to the parameter.
	params := make([]float64, len(points))
	var xs, ys, zs, dxs, dys, dzs []float64
	for k, p := range points {
		m := tangent(points, k)
		params[k] = float64(k)
		xs, ys, zs = append(xs, p.X), append(ys, p.Y), append(zs, p.Z)
		dxs, dys, dzs = append(dxs, m.X), append(dys, m.Y), append(dzs, m.Z)
	}
	var cx, cy, cz interp.PiecewiseCubic
	cx.FitWithDerivatives(params, xs, dxs)
	cy.FitWithDerivatives(params, ys, dys)
	cz.FitWithDerivatives(params, zs, dzs)

	segments := len(points) - 1
	out := make([]r3.Vec, 0, segments*n)
	for j := 0; j < segments; j++ {
		steps := float64(n)
		if j == segments-1 {
			steps = float64(n - 1)
		}
		for i := 0; i < n; i++ {
			u := float64(j) + float64(i)/steps
			out = append(out, r3.Vec{X: cx.Predict(u), Y: cy.Predict(u), Z: cz.Predict(u)})
		}
	}
	return out
}

func tangent(points []r3.Vec, k int) r3.Vec {
	switch {
	case k == 0:
		return r3.Sub(points[1], points[0])
	case k == len(points)-1:
		return r3.Sub(points[k], points[k-1])
	default:
		return r3.Scale(0.5, r3.Sub(points[k+1], points[k-1]))
	}
}
