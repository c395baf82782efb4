package track

import (
	"fmt"
	"log"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/milk9111/kartpilot/common"
	"github.com/milk9111/kartpilot/oracle"
)

// Track is a built track: its spec and the oracle space holding its
// geometry.
type Track struct {
	Spec  *Spec
	Space *oracle.Space
	// Generated holds walls produced by the track script.
	Generated []ShapeSpec
}

// Build runs the track script, if any, and adds every surface, wall and
// marker to a fresh oracle space.
func Build(spec *Spec) (*Track, error) {
	t := &Track{Spec: spec, Space: oracle.NewSpace()}

	if spec.Script != "" {
		src, err := LoadScript(spec.dir, spec.Script)
		if err != nil {
			return nil, fmt.Errorf("track: load script %s: %w", spec.Script, err)
		}
		walls, err := RunScript(src, spec.Params)
		if err != nil {
			return nil, err
		}
		t.Generated = walls
	}

	for _, sh := range spec.Surfaces {
		addShape(t.Space, oracle.LayerTrack, sh)
	}
	for _, sh := range spec.Walls {
		addShape(t.Space, oracle.LayerTrack, sh)
	}
	for _, sh := range t.Generated {
		addShape(t.Space, oracle.LayerTrack, sh)
	}
	for _, m := range spec.Markers {
		layer := oracle.LayerGoal
		if m.Kind == MarkerFinish {
			layer = oracle.LayerFinish
		}
		addShape(t.Space, layer, m.ShapeSpec)
	}

	log.Printf("Track: built %q: %d surfaces, %d walls (%d scripted), %d markers",
		spec.Name, len(spec.Surfaces), len(spec.Walls)+len(t.Generated), len(t.Generated), len(spec.Markers))
	return t, nil
}

// LoadAndBuild loads a track by path or embedded name and builds it.
func LoadAndBuild(name string) (*Track, error) {
	spec, err := LoadSpec(name)
	if err != nil {
		return nil, err
	}
	return Build(spec)
}

func addShape(space *oracle.Space, layer oracle.Layer, sh ShapeSpec) oracle.Handle {
	vol := oracle.Volume{Bottom: sh.Bottom, Top: sh.Top}
	switch {
	case sh.Segment != nil:
		return space.AddSegment(layer, sh.Segment.A.At(0), sh.Segment.B.At(0), sh.Segment.Radius, vol)
	case sh.Box != nil:
		return space.AddBox(layer, sh.Box.Min.At(0), sh.Box.Max.At(0), vol)
	case sh.Circle != nil:
		return space.AddCircle(layer, sh.Circle.Center.At(0), sh.Circle.Radius, vol)
	}
	return 0
}

// AgentPosition is the kart's spawn point.
func (t *Track) AgentPosition() r3.Vec {
	return t.Spec.Agent.Position.Vec()
}

// AgentYaw is the kart's spawn heading in radians.
func (t *Track) AgentYaw() float64 {
	return common.Radians(t.Spec.Agent.Yaw)
}

// Shapes lists every shape with its layer, for drawing.
func (t *Track) Shapes() []LayeredShape {
	out := make([]LayeredShape, 0, len(t.Spec.Surfaces)+len(t.Spec.Walls)+len(t.Generated)+len(t.Spec.Markers))
	for _, sh := range t.Spec.Surfaces {
		out = append(out, LayeredShape{Layer: oracle.LayerTrack, Surface: true, Shape: sh})
	}
	for _, sh := range t.Spec.Walls {
		out = append(out, LayeredShape{Layer: oracle.LayerTrack, Shape: sh})
	}
	for _, sh := range t.Generated {
		out = append(out, LayeredShape{Layer: oracle.LayerTrack, Shape: sh})
	}
	for _, m := range t.Spec.Markers {
		layer := oracle.LayerGoal
		if m.Kind == MarkerFinish {
			layer = oracle.LayerFinish
		}
		out = append(out, LayeredShape{Layer: layer, Shape: m.ShapeSpec})
	}
	return out
}

// LayeredShape pairs a shape with the layer it was built on.
type LayeredShape struct {
	Layer   oracle.Layer
	Surface bool
	Shape   ShapeSpec
}
