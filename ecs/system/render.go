package system

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/milk9111/kartpilot/ecs"
	"github.com/milk9111/kartpilot/ecs/component"
	"github.com/milk9111/kartpilot/oracle"
	"github.com/milk9111/kartpilot/pursuit"
	"github.com/milk9111/kartpilot/track"
)

// Camera maps the XZ plane to the screen, looking down the Y axis with +Z
// pointing up the screen.
type Camera struct {
	Center r3.Vec
	Scale  float64
	Width  float64
	Height float64
}

func (c Camera) project(p r3.Vec) (float32, float32) {
	x := (p.X-c.Center.X)*c.Scale + c.Width/2
	y := -(p.Z-c.Center.Z)*c.Scale + c.Height/2
	return float32(x), float32(y)
}

// TrackRenderSystem draws the track, grid probes, planned paths and karts
// top-down. It does nothing on Update.
type TrackRenderSystem struct {
	Track  *track.Track
	Camera Camera

	ShowProbes   bool
	ShowExplored bool
}

func NewTrackRenderSystem(tr *track.Track, cam Camera) *TrackRenderSystem {
	return &TrackRenderSystem{Track: tr, Camera: cam, ShowProbes: true}
}

func (s *TrackRenderSystem) Update(w *ecs.World) {}

func (s *TrackRenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if s == nil || w == nil || screen == nil {
		return
	}
	screen.Fill(colornames.Black)

	if s.Track != nil {
		for _, sh := range s.Track.Shapes() {
			s.drawShape(screen, sh)
		}
	}
	if s.ShowProbes {
		s.drawProbes(screen, w)
	}

	ecs.ForEach(w, component.PlanComponent.Kind(), func(e ecs.Entity, plan *component.Plan) {
		if s.ShowExplored && w.Resources().Grid != nil {
			for _, idx := range plan.Result.Closed {
				if n := w.Resources().Grid.Node(idx); n != nil {
					s.dot(screen, n.Position, 2, color.RGBA{R: 80, G: 80, B: 160, A: 160})
				}
			}
		}
		s.polyline(screen, plan.Raw, 1, colornames.Dimgray)
		s.polyline(screen, plan.Shortcut, 1, colornames.Orange)
		s.polyline(screen, plan.Smoothed, 2, colornames.Lime)
	})

	ecs.ForEach2(w, component.KartTagComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.KartTag, t *component.Transform) {
		s.dot(screen, t.Position, 6, colornames.Crimson)
		nose := r3.Add(t.Position, pursuit.Forward(t.Orientation))
		x0, y0 := s.Camera.project(t.Position)
		x1, y1 := s.Camera.project(nose)
		vector.StrokeLine(screen, x0, y0, x1, y1, 2, colornames.White, true)

		if p, ok := ecs.Get(w, e, component.PursuitComponent.Kind()); ok && p.Controller != nil {
			if target, ok := p.Controller.TargetPoint(); ok {
				tx, ty := s.Camera.project(target)
				vector.StrokeLine(screen, x0, y0, tx, ty, 1, colornames.Yellow, true)
			}
		}
	})
}

func (s *TrackRenderSystem) drawProbes(screen *ebiten.Image, w *ecs.World) {
	g := w.Resources().Grid
	if g == nil {
		return
	}
	for _, n := range g.Nodes() {
		var clr color.Color = color.RGBA{R: 90, G: 90, B: 90, A: 120}
		switch {
		case n.Start:
			clr = colornames.Cyan
		case n.Finish:
			clr = colornames.Magenta
		case n.Goal:
			clr = colornames.Gold
		case n.Valid:
			clr = colornames.Seagreen
		}
		s.dot(screen, n.Position, 2, clr)
	}
}

func (s *TrackRenderSystem) drawShape(screen *ebiten.Image, ls track.LayeredShape) {
	clr := colornames.Lightgrey
	switch {
	case ls.Layer == oracle.LayerGoal:
		clr = colornames.Gold
	case ls.Layer == oracle.LayerFinish:
		clr = colornames.Magenta
	case ls.Surface:
		clr = colornames.Darkslategray
	}

	sh := ls.Shape
	switch {
	case sh.Box != nil:
		x0, y0 := s.Camera.project(sh.Box.Min.At(0))
		x1, y1 := s.Camera.project(sh.Box.Max.At(0))
		x, y := min(x0, x1), min(y0, y1)
		wd, ht := float32(math.Abs(float64(x1-x0))), float32(math.Abs(float64(y1-y0)))
		if ls.Surface {
			vector.FillRect(screen, x, y, wd, ht, clr, false)
			return
		}
		vector.StrokeRect(screen, x, y, wd, ht, 1, clr, false)
	case sh.Segment != nil:
		x0, y0 := s.Camera.project(sh.Segment.A.At(0))
		x1, y1 := s.Camera.project(sh.Segment.B.At(0))
		width := max(float32(2*sh.Segment.Radius*s.Camera.Scale), 1)
		vector.StrokeLine(screen, x0, y0, x1, y1, width, clr, true)
	case sh.Circle != nil:
		s.dot(screen, sh.Circle.Center.At(0), float32(2*sh.Circle.Radius*s.Camera.Scale), clr)
	}
}

func (s *TrackRenderSystem) polyline(screen *ebiten.Image, pts []r3.Vec, width float32, clr color.Color) {
	for i := 1; i < len(pts); i++ {
		x0, y0 := s.Camera.project(pts[i-1])
		x1, y1 := s.Camera.project(pts[i])
		vector.StrokeLine(screen, x0, y0, x1, y1, width, clr, true)
	}
}

func (s *TrackRenderSystem) dot(screen *ebiten.Image, p r3.Vec, size float32, clr color.Color) {
	x, y := s.Camera.project(p)
	vector.FillRect(screen, x-size/2, y-size/2, size, size, clr, false)
}
