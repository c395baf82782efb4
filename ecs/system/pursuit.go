package system

import (
	"github.com/milk9111/kartpilot/ecs"
	"github.com/milk9111/kartpilot/ecs/component"
	"github.com/milk9111/kartpilot/pursuit"
)

// PursuitSystem steps every running controller, writes the new heading
// back to the kart and publishes the controller's command as drive input.
type PursuitSystem struct{}

func NewPursuitSystem() *PursuitSystem {
	return &PursuitSystem{}
}

func (s *PursuitSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Resources().FrameTime

	ecs.ForEach3(w, component.PursuitComponent.Kind(), component.TransformComponent.Kind(), component.DriveInputComponent.Kind(), func(e ecs.Entity, p *component.Pursuit, t *component.Transform, in *component.DriveInput) {
		if p.Controller == nil {
			return
		}
		pose := pursuit.Pose{Position: t.Position, Orientation: t.Orientation}
		p.Controller.Update(&pose, dt)
		t.Orientation = pose.Orientation

		cmd, ok := p.Controller.GenerateCommand()
		if !ok {
			*in = component.DriveInput{}
			return
		}
		in.Accelerate = cmd.Accelerate
		in.Brake = cmd.Brake
		in.Turn = cmd.Turn
	})
}
