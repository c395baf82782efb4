package system

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/milk9111/kartpilot/common"
	"github.com/milk9111/kartpilot/ecs"
	"github.com/milk9111/kartpilot/ecs/component"
	"github.com/milk9111/kartpilot/pursuit"
)

// KinematicDriveSystem moves karts along their heading. It stands in for a
// full vehicle model: throttle and brake change speed, drag bleeds it off.
type KinematicDriveSystem struct{}

func NewKinematicDriveSystem() *KinematicDriveSystem {
	return &KinematicDriveSystem{}
}

func (s *KinematicDriveSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Resources().FrameTime

	ecs.ForEach3(w, component.KinematicsComponent.Kind(), component.TransformComponent.Kind(), component.DriveInputComponent.Kind(), func(e ecs.Entity, k *component.Kinematics, t *component.Transform, in *component.DriveInput) {
		if in.Accelerate {
			k.Speed += k.Acceleration * dt
		}
		if in.Brake {
			k.Speed -= k.Braking * dt
		}
		k.Speed -= k.Drag * k.Speed * dt
		k.Speed = common.Clamp(k.Speed, 0, k.MaxSpeed)
		if k.Speed == 0 {
			return
		}
		forward := pursuit.Forward(t.Orientation)
		t.Position = r3.Add(t.Position, r3.Scale(k.Speed*dt, forward))
	})
}
