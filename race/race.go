// Package race wires a built track and a configuration into an ECS world
// with one autonomous kart, and steps it at a fixed frame rate.
package race

import (
	"errors"
	"fmt"
	"log"

	"github.com/milk9111/kartpilot/config"
	"github.com/milk9111/kartpilot/ecs"
	"github.com/milk9111/kartpilot/ecs/component"
	"github.com/milk9111/kartpilot/ecs/system"
	"github.com/milk9111/kartpilot/grid"
	"github.com/milk9111/kartpilot/pursuit"
	"github.com/milk9111/kartpilot/track"
)

var ErrNoTrack = errors.New("race: no track")

// Race is one kart on one track.
type Race struct {
	Config    config.Config
	Track     *track.Track
	World     *ecs.World
	Scheduler *ecs.Scheduler
	Kart      ecs.Entity

	classify *system.ClassificationSystem
	events   []ecs.Event
}

// New builds the grid and world for tr and spawns the kart at the track's
// agent pose.
func New(cfg config.Config, tr *track.Track) (*Race, error) {
	if tr == nil || tr.Spec == nil {
		return nil, ErrNoTrack
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	center, extent, resolution := tr.Spec.GridSettings(cfg.Grid)
	g, err := grid.New(center, extent, resolution)
	if err != nil {
		return nil, fmt.Errorf("race: %w", err)
	}

	w := ecs.NewWorld()
	res := w.Resources()
	res.Grid = g
	res.Space = tr.Space
	res.FrameTime = cfg.FrameTime()

	r := &Race{
		Config: cfg,
		Track:  tr,
		World:  w,
	}
	if r.Kart, err = spawnKart(w, cfg, tr); err != nil {
		return nil, err
	}

	r.classify = system.NewClassificationSystem(cfg.ProbeShape(), cfg.Classify.SettleFrames)
	r.Scheduler = ecs.NewScheduler(
		r.classify,
		system.NewPlanningSystem(cfg.Planner.MaxIterations, cfg.Route.ShortcutHalfWidth, cfg.Route.SamplesPerSegment),
		system.NewLifecycleSystem(),
		system.NewPursuitSystem(),
		system.NewKinematicDriveSystem(),
		system.NewFinishSystem(cfg.Sim.SpeedSampleFrames),
	)

	log.Printf("Race: %q on a %dx%d grid, spacing %.2f", tr.Spec.Name, resolution, resolution, g.Spacing())
	return r, nil
}

func spawnKart(w *ecs.World, cfg config.Config, tr *track.Track) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	ctrl := pursuit.NewController(cfg.ControllerConfig(), tr.Space)

	adds := []func() error{
		func() error { return ecs.Add(w, e, component.KartTagComponent.Kind(), &component.KartTag{}) },
		func() error {
			return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
				Position:    tr.AgentPosition(),
				Orientation: pursuit.YawRotation(tr.AgentYaw()),
			})
		},
		func() error { return ecs.Add(w, e, component.DriveInputComponent.Kind(), &component.DriveInput{}) },
		func() error { return ecs.Add(w, e, component.PursuitComponent.Kind(), &component.Pursuit{Controller: ctrl}) },
		func() error { return ecs.Add(w, e, component.PlanComponent.Kind(), &component.Plan{}) },
		func() error {
			return ecs.Add(w, e, component.KinematicsComponent.Kind(), &component.Kinematics{
				MaxSpeed:     cfg.Drive.MaxSpeed,
				Acceleration: cfg.Drive.Acceleration,
				Braking:      cfg.Drive.Braking,
				Drag:         cfg.Drive.Drag,
			})
		},
		func() error { return ecs.Add(w, e, component.RunStatsComponent.Kind(), &component.RunStats{}) },
	}
	for _, add := range adds {
		if err := add(); err != nil {
			return 0, fmt.Errorf("race: spawn kart: %w", err)
		}
	}
	return e, nil
}

// Step advances the world one frame and keeps the events it produced.
func (r *Race) Step() {
	r.Scheduler.Update(r.World)
	r.events = append(r.events, r.World.Events().Drain()...)
}

// Done reports whether the kart finished or planning failed.
func (r *Race) Done() bool {
	if plan, ok := ecs.Get(r.World, r.Kart, component.PlanComponent.Kind()); ok && plan.Status == component.PlanFailed {
		return true
	}
	stats, ok := ecs.Get(r.World, r.Kart, component.RunStatsComponent.Kind())
	return ok && stats.Finished
}

// Run steps until Done or maxFrames frames have run. maxFrames <= 0 uses
// the configured limit.
func (r *Race) Run(maxFrames int) Report {
	if maxFrames <= 0 {
		maxFrames = r.Config.Sim.MaxFrames
	}
	for i := 0; i < maxFrames && !r.Done(); i++ {
		r.Step()
	}
	return r.Report()
}

// Plan returns the kart's planning record.
func (r *Race) Plan() *component.Plan {
	plan, _ := ecs.Get(r.World, r.Kart, component.PlanComponent.Kind())
	return plan
}

// Controller returns the kart's path follower.
func (r *Race) Controller() *pursuit.Controller {
	if p, ok := ecs.Get(r.World, r.Kart, component.PursuitComponent.Kind()); ok {
		return p.Controller
	}
	return nil
}

// RunUntilPlanned steps until the kart has a path or planning failed.
func (r *Race) RunUntilPlanned(maxFrames int) Report {
	if maxFrames <= 0 {
		maxFrames = r.Config.Sim.MaxFrames
	}
	for i := 0; i < maxFrames; i++ {
		if plan := r.Plan(); plan != nil && plan.Status != component.PlanWaiting {
			break
		}
		r.Step()
	}
	return r.Report()
}
