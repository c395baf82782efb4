package component

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/milk9111/kartpilot/planner"
)

type PlanStatus int

const (
	PlanWaiting PlanStatus = iota
	PlanReady
	PlanFailed
)

func (s PlanStatus) String() string {
	switch s {
	case PlanWaiting:
		return "waiting"
	case PlanReady:
		return "ready"
	case PlanFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Plan records one kart's planning run and every intermediate path, kept
// for drawing and reporting.
type Plan struct {
	Status PlanStatus
	Err    error
	Result planner.Result
	// Nodes is the backtracked grid index path, start first.
	Nodes []int
	// Raw is the node path lifted to agent height.
	Raw       []r3.Vec
	Shortcut  []r3.Vec
	Smoothed  []r3.Vec
	RawLength float64
	Length    float64
}

var PlanComponent = NewComponent[Plan]()
