package ecs

import (
	"github.com/milk9111/kartpilot/grid"
	"github.com/milk9111/kartpilot/oracle"
)

// Resources holds world-wide state that is not attached to an entity.
type Resources struct {
	// Grid is the navigation grid shared by every kart.
	Grid *grid.Grid
	// Space answers geometry queries for classification, planning and
	// pursuit.
	Space *oracle.Space
	// FrameTime is the fixed simulation step in seconds.
	FrameTime float64
}

// Oracle returns the space as a query interface, or nil when none is set.
func (r *Resources) Oracle() oracle.Oracle {
	if r == nil || r.Space == nil {
		return nil
	}
	return r.Space
}
