package system

import (
	"github.com/milk9111/kartpilot/ecs"
	"github.com/milk9111/kartpilot/ecs/component"
)

// LifecycleSystem starts each kart's controller as soon as it has a path.
type LifecycleSystem struct{}

func NewLifecycleSystem() *LifecycleSystem {
	return &LifecycleSystem{}
}

func (s *LifecycleSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach(w, component.PursuitComponent.Kind(), func(e ecs.Entity, p *component.Pursuit) {
		if p.Controller == nil || p.Controller.Running() || !p.Controller.IsReady() {
			return
		}
		p.Controller.Start()
		if stats, ok := ecs.Get(w, e, component.RunStatsComponent.Kind()); ok && !stats.Started {
			stats.Started = true
			stats.StartFrame = w.Frame()
			if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
				stats.LastPosition = t.Position
			}
		}
	})
}
