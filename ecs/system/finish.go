package system

import (
	"log"

	"github.com/milk9111/kartpilot/common"
	"github.com/milk9111/kartpilot/ecs"
	"github.com/milk9111/kartpilot/ecs/component"
	"github.com/milk9111/kartpilot/oracle"
)

// FinishSystem records distance, sampled speed and braking for running
// karts and stops the clock when a kart enters a goal marker.
type FinishSystem struct {
	SampleFrames int
}

func NewFinishSystem(sampleFrames int) *FinishSystem {
	return &FinishSystem{SampleFrames: sampleFrames}
}

func (s *FinishSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	res := w.Resources()

	ecs.ForEach3(w, component.RunStatsComponent.Kind(), component.TransformComponent.Kind(), component.KinematicsComponent.Kind(), func(e ecs.Entity, stats *component.RunStats, t *component.Transform, k *component.Kinematics) {
		if !stats.Started || stats.Finished {
			return
		}
		stats.Distance += common.Distance(stats.LastPosition, t.Position)
		stats.LastPosition = t.Position
		stats.MaxSpeed = max(stats.MaxSpeed, k.Speed)
		if in, ok := ecs.Get(w, e, component.DriveInputComponent.Kind()); ok && in.Brake {
			stats.BrakeFrames++
		}
		if stats.Tick(s.SampleFrames) {
			stats.SpeedSamples = append(stats.SpeedSamples, k.Speed)
		}

		if res.Space == nil || len(res.Space.NearbySurfaces(t.Position, 0, oracle.LayerGoal)) == 0 {
			return
		}
		stats.Finished = true
		stats.FinishFrame = w.Frame()
		log.Printf("FinishSystem: entity %s reached goal after %d frames, %.2f units",
			e, stats.FinishFrame-stats.StartFrame, stats.Distance)
		w.Events().Push(ecs.Event{Type: ecs.EventGoalReached, Data: e})
	})
}
