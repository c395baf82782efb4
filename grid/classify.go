package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/milk9111/kartpilot/common"
	"github.com/milk9111/kartpilot/oracle"
)

// ProbeShape holds the probe geometry used by the three validity checks.
type ProbeShape struct {
	Radius           float64
	OverheadTop      float64
	OverheadBottom   float64
	GroundDepth      float64
	Clearance        float64
	NeighborReach    float64
	StartRadiusSteps float64
}

// DefaultProbeShape matches the kart prototype's unit-sized probes.
func DefaultProbeShape() ProbeShape {
	return ProbeShape{
		Radius:           0.5,
		OverheadTop:      2,
		OverheadBottom:   1,
		GroundDepth:      1,
		Clearance:        1,
		NeighborReach:    1,
		StartRadiusSteps: 2,
	}
}

// Classifier flags every probe of a grid using an oracle.
type Classifier struct {
	Shape ProbeShape
}

func NewClassifier(shape ProbeShape) *Classifier {
	return &Classifier{Shape: shape}
}

// Summary counts the outcome of a classification pass.
type Summary struct {
	Valid  int
	Goals  int
	Finish int
	Start  int
}

// RegisterProbes adds a collider per probe when the oracle models probes.
func (c *Classifier) RegisterProbes(g *Grid, o oracle.Oracle) int {
	reg, ok := o.(oracle.ProbeRegistry)
	if !ok || g == nil {
		return 0
	}
	for i := range g.nodes {
		reg.AddProbe(oracle.Handle(i), g.nodes[i].Position, c.Shape.Radius)
	}
	return len(g.nodes)
}

// FindStart flags the probe nearest to agent among those returned by the
// radius query. Ties keep the lowest handle.
func (c *Classifier) FindStart(g *Grid, o oracle.Oracle, agent r3.Vec) (int, error) {
	radius := c.Shape.StartRadiusSteps * g.spacing
	handles := o.NearbySurfaces(agent, radius, oracle.LayerProbe)

	best := -1
	bestDist := math.Inf(1)
	for _, h := range handles {
		node := g.Node(int(h))
		if node == nil {
			continue
		}
		d := common.Distance(node.Position, agent)
		if d < bestDist {
			best = int(h)
			bestDist = d
		}
	}
	if best < 0 {
		return -1, fmt.Errorf("%w: radius %.2f at (%.2f, %.2f, %.2f)", ErrNoStart, radius, agent.X, agent.Y, agent.Z)
	}
	g.SetStart(best)
	return best, nil
}

// Classify runs the validity checks on every probe and completes the
// classification phase. The start probe is located first, while the probe
// colliders are still registered.
func (c *Classifier) Classify(g *Grid, o oracle.Oracle, agent r3.Vec) (Summary, error) {
	if g.phase == PhaseClassified {
		return Summary{}, ErrAlreadyClassified
	}

	c.RegisterProbes(g, o)
	_, startErr := c.FindStart(g, o, agent)

	var sum Summary
	for i := range g.nodes {
		node := &g.nodes[i]
		c.classifyNode(node, o)
		if node.Valid {
			sum.Valid++
		}
		if node.Goal {
			sum.Goals++
		}
		if node.Finish {
			sum.Finish++
		}
	}
	if g.start >= 0 {
		sum.Start = 1
	}

	if reg, ok := o.(oracle.ProbeRegistry); ok {
		reg.DisableProbes()
	}
	g.phase = PhaseClassified
	return sum, startErr
}

func (c *Classifier) classifyNode(node *Node, o oracle.Oracle) {
	node.Valid = false
	node.Goal = false
	node.Finish = false

	p := node.Position
	if len(o.NearbySurfaces(p, c.Shape.Radius, oracle.LayerFinish)) > 0 {
		node.Finish = true
		return
	}
	if !c.Drivable(o, p) {
		return
	}
	node.Valid = true
	if len(o.NearbySurfaces(p, c.Shape.Radius, oracle.LayerGoal)) > 0 {
		node.Goal = true
	}
}

// Drivable applies the three geometric checks to a single probe position.
func (c *Classifier) Drivable(o oracle.SegmentTester, p r3.Vec) bool {
	s := c.Shape
	if o.SegmentBlocked(up(p, s.OverheadTop), up(p, s.OverheadBottom), oracle.LayerTrack) {
		return false
	}
	if !o.SegmentBlocked(up(p, -s.GroundDepth), p, oracle.LayerTrack) {
		return false
	}
	head := up(p, s.Clearance)
	for dx := -1; dx <= 1; dx++ {
		for dz := -1; dz <= 1; dz++ {
			if dx == 0 && dz == 0 {
				continue
			}
			reach := r3.Vec{X: float64(dx) * s.NeighborReach, Z: float64(dz) * s.NeighborReach}
			if o.SegmentBlocked(head, r3.Add(head, reach), oracle.LayerTrack) {
				return false
			}
		}
	}
	return true
}

func up(p r3.Vec, dy float64) r3.Vec {
	return r3.Vec{X: p.X, Y: p.Y + dy, Z: p.Z}
}
