package race

import (
	"fmt"
	"io"

	"github.com/milk9111/kartpilot/ecs"
	"github.com/milk9111/kartpilot/ecs/component"
	"github.com/milk9111/kartpilot/grid"
)

// Report summarises a race.
type Report struct {
	Track       string
	Frames      int
	FrameTime   float64
	Summary     grid.Summary
	ClassifyErr error
	Plan        component.Plan
	Stats       component.RunStats
	Events      []ecs.Event
}

// Report snapshots the race so far.
func (r *Race) Report() Report {
	rep := Report{
		Track:       r.Track.Spec.Name,
		Frames:      r.World.Frame(),
		FrameTime:   r.World.Resources().FrameTime,
		Summary:     r.classify.Summary,
		ClassifyErr: r.classify.Err,
		Events:      append([]ecs.Event(nil), r.events...),
	}
	if plan := r.Plan(); plan != nil {
		rep.Plan = *plan
	}
	if stats, ok := ecs.Get(r.World, r.Kart, component.RunStatsComponent.Kind()); ok {
		rep.Stats = *stats
	}
	return rep
}

// LapTime is the time from controller start to the goal, in seconds.
func (rep Report) LapTime() (float64, bool) {
	if !rep.Stats.Finished {
		return 0, false
	}
	return float64(rep.Stats.FinishFrame-rep.Stats.StartFrame) * rep.FrameTime, true
}

// Write prints the report as plain text.
func (rep Report) Write(out io.Writer) {
	fmt.Fprintf(out, "track:      %s\n", rep.Track)
	fmt.Fprintf(out, "frames:     %d\n", rep.Frames)
	fmt.Fprintf(out, "grid:       %d valid, %d goal, %d finish, start found: %t\n",
		rep.Summary.Valid, rep.Summary.Goals, rep.Summary.Finish, rep.Summary.Start > 0)
	if rep.ClassifyErr != nil {
		fmt.Fprintf(out, "classify:   %v\n", rep.ClassifyErr)
	}
	fmt.Fprintf(out, "plan:       %s after %d iterations\n", rep.Plan.Status, rep.Plan.Result.Iterations)
	if rep.Plan.Err != nil {
		fmt.Fprintf(out, "plan error: %v\n", rep.Plan.Err)
	}
	if rep.Plan.Status == component.PlanReady {
		fmt.Fprintf(out, "path:       %d nodes, %d shortcut, %d smoothed\n",
			len(rep.Plan.Nodes), len(rep.Plan.Shortcut), len(rep.Plan.Smoothed))
		fmt.Fprintf(out, "length:     %.2f raw, %.2f smoothed\n", rep.Plan.RawLength, rep.Plan.Length)
	}
	if lap, ok := rep.LapTime(); ok {
		fmt.Fprintf(out, "lap:        %.2fs, %.2f units, avg %.2f max %.2f, %d brake frames\n",
			lap, rep.Stats.Distance, rep.Stats.AverageSpeed(), rep.Stats.MaxSpeed, rep.Stats.BrakeFrames)
	} else if rep.Stats.Started {
		fmt.Fprintf(out, "lap:        unfinished after %.2f units\n", rep.Stats.Distance)
	}
}
