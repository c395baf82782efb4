package oracle

import (
	"log"
	"math"
	"slices"

	"github.com/jakecoffman/cp"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/milk9111/kartpilot/common"
)

// flatEpsilon is the horizontal length below which a segment is treated as
// vertical.
const flatEpsilon = 1e-9

// Volume is the vertical extent of a surface. The chipmunk shape gives the
// footprint in the XZ plane.
type Volume struct {
	Bottom float64
	Top    float64
}

func (v Volume) overlaps(lo, hi float64) bool {
	return hi >= v.Bottom && lo <= v.Top
}

func (v Volume) gap(y float64) float64 {
	switch {
	case y < v.Bottom:
		return v.Bottom - y
	case y > v.Top:
		return y - v.Top
	}
	return 0
}

type surface struct {
	handle Handle
	layer  Layer
	volume Volume
}

// Space is a 2.5D traversability oracle backed by a chipmunk space. Every
// surface is a static shape on the XZ plane carrying a vertical extent.
type Space struct {
	space      *cp.Space
	nextHandle Handle
	probes     map[Handle]*cp.Shape
	shapes     map[Handle]*cp.Shape
}

// NewSpace creates an empty oracle space.
func NewSpace() *Space {
	return &Space{
		space:      cp.NewSpace(),
		nextHandle: 1,
		probes:     make(map[Handle]*cp.Shape),
		shapes:     make(map[Handle]*cp.Shape),
	}
}

// Space returns the underlying chipmunk space.
func (s *Space) Space() *cp.Space {
	if s == nil {
		return nil
	}
	return s.space
}

// AddSegment adds a capsule between a and b (XZ) with the given radius.
func (s *Space) AddSegment(layer Layer, a, b r3.Vec, radius float64, vol Volume) Handle {
	shape := cp.NewSegment(s.space.StaticBody, planar(a), planar(b), radius)
	return s.add(shape, layer, vol)
}

// AddBox adds an axis-aligned box spanning min and max on the XZ plane.
func (s *Space) AddBox(layer Layer, min, max r3.Vec, vol Volume) Handle {
	bb := cp.BB{
		L: math.Min(min.X, max.X),
		B: math.Min(min.Z, max.Z),
		R: math.Max(min.X, max.X),
		T: math.Max(min.Z, max.Z),
	}
	shape := cp.NewBox2(s.space.StaticBody, bb, 0)
	return s.add(shape, layer, vol)
}

// AddCircle adds a disc centred at c (XZ).
func (s *Space) AddCircle(layer Layer, c r3.Vec, radius float64, vol Volume) Handle {
	shape := cp.NewCircle(s.space.StaticBody, radius, planar(c))
	return s.add(shape, layer, vol)
}

func (s *Space) add(shape *cp.Shape, layer Layer, vol Volume) Handle {
	h := s.nextHandle
	s.nextHandle++
	s.attach(shape, h, layer, vol)
	s.shapes[h] = shape
	return h
}

func (s *Space) attach(shape *cp.Shape, h Handle, layer Layer, vol Volume) {
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(layer), cp.ALL_CATEGORIES))
	shape.UserData = &surface{handle: h, layer: layer, volume: vol}
	s.space.AddShape(shape)
}

// Remove drops a non-probe surface.
func (s *Space) Remove(h Handle) bool {
	shape, ok := s.shapes[h]
	if !ok {
		return false
	}
	s.space.RemoveShape(shape)
	delete(s.shapes, h)
	return true
}

// AddProbe registers a spherical probe collider on LayerProbe.
func (s *Space) AddProbe(h Handle, p r3.Vec, radius float64) {
	if s == nil {
		return
	}
	if old, ok := s.probes[h]; ok {
		s.space.RemoveShape(old)
	}
	shape := cp.NewCircle(s.space.StaticBody, radius, planar(p))
	s.attach(shape, h, LayerProbe, Volume{Bottom: p.Y - radius, Top: p.Y + radius})
	s.probes[h] = shape
}

// DisableProbes removes every probe collider.
func (s *Space) DisableProbes() int {
	if s == nil {
		return 0
	}
	n := len(s.probes)
	for h, shape := range s.probes {
		s.space.RemoveShape(shape)
		delete(s.probes, h)
	}
	if n > 0 {
		log.Printf("OracleSpace: disabled %d probe colliders", n)
	}
	return n
}

// ProbeCount reports how many probe colliders are active.
func (s *Space) ProbeCount() int {
	if s == nil {
		return 0
	}
	return len(s.probes)
}

// SegmentBlocked implements SegmentTester.
func (s *Space) SegmentBlocked(a, b r3.Vec, layers Layer) bool {
	if s == nil || s.space == nil {
		return false
	}
	filter := queryFilter(layers)
	lo, hi := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	pa, pb := planar(a), planar(b)

	if math.Hypot(pb.X-pa.X, pb.Y-pa.Y) < flatEpsilon {
		return s.pointInside(pa, lo, hi, filter)
	}

	blocked := false
	s.space.SegmentQuery(pa, pb, 0, filter, func(shape *cp.Shape, point, normal cp.Vector, alpha float64, data interface{}) {
		if blocked {
			return
		}
		surf, ok := shape.UserData.(*surface)
		if !ok {
			return
		}
		y := common.Lerp(a.Y, b.Y, alpha)
		if surf.volume.overlaps(y, y) {
			blocked = true
		}
	}, nil)
	if blocked {
		return true
	}

	// Segment queries do not report shapes the segment starts or ends inside.
	return s.pointInside(pa, a.Y, a.Y, filter) || s.pointInside(pb, b.Y, b.Y, filter)
}

func (s *Space) pointInside(p cp.Vector, lo, hi float64, filter cp.ShapeFilter) bool {
	inside := false
	s.pointQuery(p, 0, filter, func(surf *surface, distance float64) {
		if !inside && distance <= 0 && surf.volume.overlaps(lo, hi) {
			inside = true
		}
	})
	return inside
}

// pointQuery calls fn for every shape within radius of p on the XZ plane,
// with the signed distance from p to the shape (negative inside).
func (s *Space) pointQuery(p cp.Vector, radius float64, filter cp.ShapeFilter, fn func(surf *surface, distance float64)) {
	radius = max(radius, 0)
	s.space.BBQuery(cp.NewBBForCircle(p, radius), filter, func(shape *cp.Shape, _ interface{}) {
		surf, ok := shape.UserData.(*surface)
		if !ok {
			return
		}
		info := shape.PointQuery(p)
		if info.Distance > radius {
			return
		}
		fn(surf, info.Distance)
	}, nil)
}

// NearbySurfaces implements Oracle.
func (s *Space) NearbySurfaces(p r3.Vec, radius float64, layers Layer) []Handle {
	if s == nil || s.space == nil || radius < 0 {
		return nil
	}
	var out []Handle
	s.pointQuery(planar(p), radius, queryFilter(layers), func(surf *surface, distance float64) {
		planarDist := math.Max(distance, 0)
		if math.Hypot(planarDist, surf.volume.gap(p.Y)) > radius {
			return
		}
		out = append(out, surf.handle)
	})
	slices.Sort(out)
	return slices.Compact(out)
}

func queryFilter(layers Layer) cp.ShapeFilter {
	return cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(layers))
}

func planar(v r3.Vec) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Z}
}
