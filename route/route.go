// Package route turns a raw grid path into the curve the kart follows:
// waypoints are lifted to the kart's height, redundant ones are shortcut
// away, and the rest are resampled with a cubic Hermite spline.
package route

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/milk9111/kartpilot/common"
	"github.com/milk9111/kartpilot/oracle"
)

// DefaultShortcutHalfWidth is the lateral clearance tested on both sides of a
// shortcut segment.
const DefaultShortcutHalfWidth = 0.75

// Lift returns copies of points translated vertically to height y.
func Lift(points []r3.Vec, y float64) []r3.Vec {
	if len(points) == 0 {
		return nil
	}
	out := make([]r3.Vec, len(points))
	for i, p := range points {
		out[i] = common.WithHeight(p, y)
	}
	return out
}

// Shortcut drops waypoints that can be bypassed by a clear corridor of
// halfWidth on each side. From the last kept waypoint it extends as far
// ahead as the corridor stays clear and keeps that waypoint. The first and
// last waypoints are always kept.
func Shortcut(points []r3.Vec, t oracle.SegmentTester, halfWidth float64) []r3.Vec {
	if len(points) <= 2 {
		return append([]r3.Vec(nil), points...)
	}

	out := []r3.Vec{points[0]}
	last := len(points) - 1
	anchor := 0
	for anchor < last {
		next := anchor + 1
		for next < last && oracle.CorridorClear(t, points[anchor], points[next+1], halfWidth, oracle.LayerTrack) {
			next++
		}
		out = append(out, points[next])
		anchor = next
	}
	return out
}
