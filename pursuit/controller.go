// Package pursuit steers a kart along an installed curve, choosing each
// frame the farthest waypoint it can see through a corridor as wide as the
// kart.
package pursuit

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/milk9111/kartpilot/common"
	"github.com/milk9111/kartpilot/oracle"
)

// Config tunes the controller.
type Config struct {
	// CorridorHalfWidth is the lateral clearance tested on each side of the
	// line of sight.
	CorridorHalfWidth float64
	// AccelThreshold is the distance to the target above which the kart
	// accelerates; at or below it the kart brakes.
	AccelThreshold float64
	// RotationSpeed is the maximum turn rate in degrees per second.
	RotationSpeed float64
	// LookaheadDivisor limits the scan to len(path)/LookaheadDivisor
	// waypoints.
	LookaheadDivisor int
	// WrapLookahead continues the scan from the start of the path, for
	// closed circuits.
	WrapLookahead bool
}

func DefaultConfig() Config {
	return Config{
		CorridorHalfWidth: 2,
		AccelThreshold:    0.3,
		RotationSpeed:     180,
		LookaheadDivisor:  3,
		WrapLookahead:     true,
	}
}

// Command is the per-frame output for the drive simulation. Turn is always
// neutral: heading is applied directly to the pose in Update.
type Command struct {
	Accelerate bool
	Brake      bool
	Turn       float64
}

// Controller follows an installed path.
type Controller struct {
	cfg    Config
	tester oracle.SegmentTester

	path       []r3.Vec
	target     int
	accelerate bool
	brake      bool
	running    bool
}

func NewController(cfg Config, tester oracle.SegmentTester) *Controller {
	if cfg.LookaheadDivisor <= 0 {
		cfg.LookaheadDivisor = 3
	}
	return &Controller{cfg: cfg, tester: tester}
}

func (c *Controller) Config() Config { return c.cfg }

// InstallPath replaces the followed path with a copy of points and resets the
// lookahead to the second waypoint.
func (c *Controller) InstallPath(points []r3.Vec) {
	c.accelerate = false
	c.brake = false
	if len(points) == 0 {
		c.path = nil
		c.target = 0
		return
	}
	c.path = append([]r3.Vec(nil), points...)
	c.target = 1
	if len(c.path) == 1 {
		c.target = 0
	}
}

// IsReady reports whether a path has been installed.
func (c *Controller) IsReady() bool {
	return c != nil && len(c.path) > 0
}

// Start arms the controller. It has no effect until a path is installed.
func (c *Controller) Start() {
	if c.IsReady() {
		c.running = true
	}
}

func (c *Controller) Running() bool {
	return c != nil && c.running
}

// Target returns the current lookahead index.
func (c *Controller) Target() int {
	return c.target
}

// TargetPoint returns the waypoint at the lookahead index.
func (c *Controller) TargetPoint() (r3.Vec, bool) {
	if !c.IsReady() {
		return r3.Vec{}, false
	}
	return c.path[c.target], true
}

// Path returns the installed path. Callers must not modify it.
func (c *Controller) Path() []r3.Vec {
	return c.path
}

// Update runs one frame: picks the lookahead target, sets the throttle
// flags and yaws pose towards the target by at most RotationSpeed*dt degrees.
func (c *Controller) Update(pose *Pose, dt float64) {
	if !c.running || !c.IsReady() || pose == nil {
		return
	}

	c.target = c.lookahead(pose.Position)
	target := c.path[c.target]

	if common.Distance(pose.Position, target) > c.cfg.AccelThreshold {
		c.accelerate, c.brake = true, false
	} else {
		c.accelerate, c.brake = false, true
	}

	dir := common.Flatten(r3.Sub(target, pose.Position))
	if r3.Norm(dir) == 0 {
		return
	}
	q := RotateTowards(pose.Orientation, LookRotation(dir), c.cfg.RotationSpeed*dt)
	pose.Orientation = YawOnly(q)
}

// lookahead scans forward from the current target and keeps the last index
// visible from the kart. With nothing visible the current target stays.
func (c *Controller) lookahead(from r3.Vec) int {
	n := len(c.path)
	// Floored at 1: a path shorter than the divisor only re-checks the
	// current target, which an empty scan would have kept anyway.
	span := max(1, n/c.cfg.LookaheadDivisor)
	best := c.target
	for i := 0; i < span; i++ {
		idx := c.target + i
		if idx >= n {
			if !c.cfg.WrapLookahead {
				break
			}
			idx -= n
		}
		if oracle.CorridorClear(c.tester, from, c.path[idx], c.cfg.CorridorHalfWidth, oracle.LayerTrack) {
			best = idx
		}
	}
	return best
}

// GenerateCommand returns the current command, or false while the
// controller is not running.
func (c *Controller) GenerateCommand() (Command, bool) {
	if !c.Running() || !c.IsReady() {
		return Command{}, false
	}
	return Command{Accelerate: c.accelerate, Brake: c.brake, Turn: 0}, true
}
