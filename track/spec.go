// Package track describes race tracks: drivable surface slabs, walls, goal
// and finish markers, and the kart's spawn. Tracks are YAML documents,
// optionally extended by a tengo script, and are built into an oracle space.
package track

import (
	"errors"
	"fmt"
	"path/filepath"

	"gopkg.in/yaml.v3"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/milk9111/kartpilot/config"
)

var (
	ErrNoShape       = errors.New("track: shape has no geometry")
	ErrUnknownMarker = errors.New("track: unknown marker kind")
)

// Vec2 is a point on the XZ plane.
type Vec2 [2]float64

// Vec3 is a world point.
type Vec3 [3]float64

func (v Vec2) At(y float64) r3.Vec { return r3.Vec{X: v[0], Y: y, Z: v[1]} }
func (v Vec3) Vec() r3.Vec         { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }

type SegmentSpec struct {
	A      Vec2    `yaml:"a"`
	B      Vec2    `yaml:"b"`
	Radius float64 `yaml:"radius"`
}

type BoxSpec struct {
	Min Vec2 `yaml:"min"`
	Max Vec2 `yaml:"max"`
}

type CircleSpec struct {
	Center Vec2    `yaml:"center"`
	Radius float64 `yaml:"radius"`
}

// ShapeSpec is one footprint with a vertical extent. Exactly one of
// Segment, Box or Circle is set.
type ShapeSpec struct {
	Segment *SegmentSpec `yaml:"segment,omitempty"`
	Box     *BoxSpec     `yaml:"box,omitempty"`
	Circle  *CircleSpec  `yaml:"circle,omitempty"`
	Bottom  float64      `yaml:"bottom"`
	Top     float64      `yaml:"top"`
}

func (s ShapeSpec) validate() error {
	count := 0
	if s.Segment != nil {
		count++
	}
	if s.Box != nil {
		count++
	}
	if s.Circle != nil {
		count++
	}
	if count != 1 {
		return fmt.Errorf("%w: want exactly one of segment, box, circle, got %d", ErrNoShape, count)
	}
	if s.Top < s.Bottom {
		return fmt.Errorf("track: top %g below bottom %g", s.Top, s.Bottom)
	}
	return nil
}

// MarkerKind names the classification a marker applies to probes.
type MarkerKind string

const (
	MarkerGoal   MarkerKind = "goal"
	MarkerFinish MarkerKind = "finish"
)

type MarkerSpec struct {
	Kind      MarkerKind `yaml:"kind"`
	ShapeSpec `yaml:",inline"`
}

type AgentSpec struct {
	Position Vec3    `yaml:"position"`
	Yaw      float64 `yaml:"yaw"`
}

// GridSpec overrides the configured grid for this track.
type GridSpec struct {
	Center     *Vec3   `yaml:"center,omitempty"`
	Extent     float64 `yaml:"extent,omitempty"`
	Resolution int     `yaml:"resolution,omitempty"`
}

// Spec is a track document.
type Spec struct {
	Name     string         `yaml:"name"`
	Agent    AgentSpec      `yaml:"agent"`
	Grid     GridSpec       `yaml:"grid"`
	Surfaces []ShapeSpec    `yaml:"surfaces"`
	Walls    []ShapeSpec    `yaml:"walls"`
	Markers  []MarkerSpec   `yaml:"markers"`
	Script   string         `yaml:"script,omitempty"`
	Params   map[string]any `yaml:"params,omitempty"`

	dir string
}

// LoadSpec reads and decodes a track by file path or embedded name.
func LoadSpec(name string) (*Spec, error) {
	data, err := Load(name)
	if err != nil {
		return nil, fmt.Errorf("track: load %s: %w", name, err)
	}
	spec, err := ParseSpec(data)
	if err != nil {
		return nil, fmt.Errorf("track: %s: %w", name, err)
	}
	if _, ok := ModTime(name); ok {
		spec.dir = filepath.Dir(name)
	}
	return spec, nil
}

// ParseSpec decodes and validates a track document.
func ParseSpec(data []byte) (*Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Validate checks every shape and marker.
func (s *Spec) Validate() error {
	if len(s.Surfaces) == 0 {
		return errors.New("track: no surfaces")
	}
	for i, sh := range s.Surfaces {
		if err := sh.validate(); err != nil {
			return fmt.Errorf("surfaces[%d]: %w", i, err)
		}
	}
	for i, sh := range s.Walls {
		if err := sh.validate(); err != nil {
			return fmt.Errorf("walls[%d]: %w", i, err)
		}
	}
	for i, m := range s.Markers {
		if m.Kind != MarkerGoal && m.Kind != MarkerFinish {
			return fmt.Errorf("markers[%d]: %w %q", i, ErrUnknownMarker, m.Kind)
		}
		if err := m.validate(); err != nil {
			return fmt.Errorf("markers[%d]: %w", i, err)
		}
	}
	return nil
}

// GridSettings resolves the grid layout, preferring the track's overrides.
// Without a centre override the grid is centred on the origin at the height
// of the highest surface top.
func (s *Spec) GridSettings(cfg config.GridConfig) (center r3.Vec, extent float64, resolution int) {
	extent, resolution = cfg.Extent, cfg.Resolution
	if s.Grid.Extent > 0 {
		extent = s.Grid.Extent
	}
	if s.Grid.Resolution > 0 {
		resolution = s.Grid.Resolution
	}
	if s.Grid.Center != nil {
		return s.Grid.Center.Vec(), extent, resolution
	}
	top := s.Surfaces[0].Top
	for _, sh := range s.Surfaces[1:] {
		top = max(top, sh.Top)
	}
	return r3.Vec{Y: top}, extent, resolution
}
