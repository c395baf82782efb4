package system

import (
	"log"

	"github.com/milk9111/kartpilot/ecs"
	"github.com/milk9111/kartpilot/ecs/component"
	"github.com/milk9111/kartpilot/grid"
	"github.com/milk9111/kartpilot/planner"
	"github.com/milk9111/kartpilot/route"
)

// PlanningSystem turns the classified grid into a smoothed path for every
// kart still waiting on one: search, backtrack, lift to kart height,
// shortcut, then Hermite smoothing.
type PlanningSystem struct {
	MaxIterations     int
	ShortcutHalfWidth float64
	SamplesPerSegment int
}

func NewPlanningSystem(maxIterations int, shortcutHalfWidth float64, samples int) *PlanningSystem {
	return &PlanningSystem{
		MaxIterations:     maxIterations,
		ShortcutHalfWidth: shortcutHalfWidth,
		SamplesPerSegment: samples,
	}
}

func (s *PlanningSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	res := w.Resources()
	if res.Grid == nil || res.Grid.Phase() != grid.PhaseClassified {
		return
	}

	ecs.ForEach3(w, component.PlanComponent.Kind(), component.PursuitComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, plan *component.Plan, p *component.Pursuit, t *component.Transform) {
		if plan.Status != component.PlanWaiting || p.Controller == nil {
			return
		}
		if err := s.plan(res, plan, t.Position.Y); err != nil {
			plan.Status = component.PlanFailed
			plan.Err = err
			log.Printf("PlanningSystem: entity %s: %v", e, err)
			w.Events().Push(ecs.Event{Type: ecs.EventPlanFailed, Data: ecs.PathEvent{Entity: e, Err: err}})
			return
		}
		p.Controller.InstallPath(plan.Smoothed)
		plan.Status = component.PlanReady
		log.Printf("PlanningSystem: entity %s: %d nodes, %d after shortcut, %d smoothed, %d iterations",
			e, len(plan.Nodes), len(plan.Shortcut), len(plan.Smoothed), plan.Result.Iterations)
		w.Events().Push(ecs.Event{Type: ecs.EventPathInstalled, Data: ecs.PathEvent{Entity: e, Points: len(plan.Smoothed)}})
	})
}

func (s *PlanningSystem) plan(res *ecs.Resources, plan *component.Plan, height float64) error {
	result, err := planner.New(s.MaxIterations).Search(res.Grid)
	plan.Result = result
	if err != nil {
		return err
	}

	nodes, err := planner.Backtrack(res.Grid, result)
	if err != nil {
		return err
	}
	plan.Nodes = nodes
	plan.Raw = route.Lift(planner.Positions(res.Grid, nodes), height)
	plan.Shortcut = route.Shortcut(plan.Raw, res.Oracle(), s.ShortcutHalfWidth)
	plan.Smoothed = route.Hermite(plan.Shortcut, s.SamplesPerSegment)
	plan.RawLength = planner.PathCost(plan.Raw)
	plan.Length = planner.PathCost(plan.Smoothed)
	return nil
}
