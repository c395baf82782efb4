// Package oracle answers the geometric questions the planner asks about the
// track: whether a straight segment is obstructed and which classified
// surfaces lie near a point.
package oracle

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/milk9111/kartpilot/common"
)

// Layer is a bit set of surface classes.
type Layer uint

const (
	// LayerTrack holds the drivable surface slabs and the walls around it.
	LayerTrack Layer = 1 << iota
	// LayerProbe holds the grid probe colliders while the grid is classified.
	LayerProbe
	// LayerGoal holds goal area markers.
	LayerGoal
	// LayerFinish holds finish line markers.
	LayerFinish
)

// LayerAll matches every layer.
const LayerAll = LayerTrack | LayerProbe | LayerGoal | LayerFinish

// Handle identifies a surface returned by a nearby query. Probe handles are
// grid arena indices.
type Handle int

// SegmentTester reports whether the segment between a and b hits any surface
// on the given layers.
type SegmentTester interface {
	SegmentBlocked(a, b r3.Vec, layers Layer) bool
}

// Oracle is the traversability backend consumed by the planning pipeline.
type Oracle interface {
	SegmentTester
	// NearbySurfaces returns the handles of surfaces on layers within radius
	// of p, in ascending handle order.
	NearbySurfaces(p r3.Vec, radius float64, layers Layer) []Handle
}

// ProbeRegistry is implemented by oracles that model grid probes as
// temporary colliders.
type ProbeRegistry interface {
	AddProbe(h Handle, p r3.Vec, radius float64)
	// DisableProbes removes every probe collider and reports how many were
	// removed.
	DisableProbes() int
}

// CorridorClear tests the centre line from a to b plus two parallel lines
// offset halfWidth to either side in the horizontal plane. All three must be
// unobstructed.
func CorridorClear(t SegmentTester, a, b r3.Vec, halfWidth float64, layers Layer) bool {
	if t == nil {
		return true
	}
	if t.SegmentBlocked(a, b, layers) {
		return false
	}
	left, right := common.SideOffsets(a, b, halfWidth)
	if left == (r3.Vec{}) {
		return true
	}
	if t.SegmentBlocked(r3.Add(a, left), r3.Add(b, left), layers) {
		return false
	}
	return !t.SegmentBlocked(r3.Add(a, right), r3.Add(b, right), layers)
}

// Func adapts a plain function to SegmentTester.
type Func func(a, b r3.Vec, layers Layer) bool

func (f Func) SegmentBlocked(a, b r3.Vec, layers Layer) bool {
	if f == nil {
		return false
	}
	return f(a, b, layers)
}
