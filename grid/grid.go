// Package grid lays out the probe lattice over the track area and classifies
// each probe as drivable, start, goal or finish line.
package grid

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrInvalidResolution = errors.New("grid: resolution must be positive")
	ErrInvalidExtent     = errors.New("grid: extent must be positive")
	ErrNoStart           = errors.New("grid: no start probe near agent")
	ErrAlreadyClassified = errors.New("grid: already classified")
)

// Phase tracks the classification protocol. The planner only reads a grid in
// PhaseClassified.
type Phase int

const (
	PhaseSampled Phase = iota
	PhaseClassified
)

func (p Phase) String() string {
	switch p {
	case PhaseSampled:
		return "sampled"
	case PhaseClassified:
		return "classified"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Node is a single probe. Nodes live in the grid arena and are mutated in
// place by the classifier and the planner.
type Node struct {
	Row      int
	Col      int
	Position r3.Vec
	Cost     float64

	Valid  bool
	Start  bool
	Goal   bool
	Finish bool
}

// Grid is an N×N arena of probes addressed by row*N+col.
type Grid struct {
	n       int
	extent  float64
	spacing float64
	center  r3.Vec
	nodes   []Node
	phase   Phase
	start   int
}

// New lays out an n×n grid centred on center covering extent world units.
func New(center r3.Vec, extent float64, n int) (*Grid, error) {
	if n <= 0 {
		return nil, ErrInvalidResolution
	}
	if extent <= 0 {
		return nil, ErrInvalidExtent
	}
	g := &Grid{
		n:       n,
		extent:  extent,
		spacing: extent / float64(n),
		center:  center,
		nodes:   make([]Node, n*n),
		start:   -1,
	}
	half := n / 2
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			g.nodes[row*n+col] = Node{
				Row: row,
				Col: col,
				Position: r3.Vec{
					X: center.X + float64(row-half)*g.spacing,
					Y: center.Y,
					Z: center.Z + float64(col-half)*g.spacing,
				},
			}
		}
	}
	return g, nil
}

func (g *Grid) Size() int        { return g.n }
func (g *Grid) Len() int         { return len(g.nodes) }
func (g *Grid) Spacing() float64 { return g.spacing }
func (g *Grid) Extent() float64  { return g.extent }
func (g *Grid) Center() r3.Vec   { return g.center }
func (g *Grid) Phase() Phase     { return g.phase }

// Index returns the arena index for (row, col), or -1 when out of bounds.
func (g *Grid) Index(row, col int) int {
	if row < 0 || col < 0 || row >= g.n || col >= g.n {
		return -1
	}
	return row*g.n + col
}

// Node returns a pointer into the arena.
func (g *Grid) Node(idx int) *Node {
	if idx < 0 || idx >= len(g.nodes) {
		return nil
	}
	return &g.nodes[idx]
}

// At returns the node at (row, col), or nil when out of bounds.
func (g *Grid) At(row, col int) *Node {
	return g.Node(g.Index(row, col))
}

// Nodes exposes the arena for read-mostly iteration.
func (g *Grid) Nodes() []Node {
	return g.nodes
}

// Start returns the start index, or -1 when none has been flagged.
func (g *Grid) Start() int {
	return g.start
}

// SetStart flags idx as the single start probe.
func (g *Grid) SetStart(idx int) {
	if g.start >= 0 {
		g.nodes[g.start].Start = false
	}
	g.start = -1
	if n := g.Node(idx); n != nil {
		n.Start = true
		g.start = idx
	}
}

// Goals returns the indices of goal probes in arena order.
func (g *Grid) Goals() []int {
	var out []int
	for i := range g.nodes {
		if g.nodes[i].Goal {
			out = append(out, i)
		}
	}
	return out
}

// ValidCount reports how many probes are drivable.
func (g *Grid) ValidCount() int {
	count := 0
	for i := range g.nodes {
		if g.nodes[i].Valid {
			count++
		}
	}
	return count
}

// ResetCosts zeroes every node cost before a planning run.
func (g *Grid) ResetCosts() {
	for i := range g.nodes {
		g.nodes[i].Cost = 0
	}
}

// MarkClassified completes the classification phase. Callers that set flags
// by hand (tests, replayed grids) use it in place of Classifier.Classify.
func (g *Grid) MarkClassified() {
	g.phase = PhaseClassified
}

// Neighbors appends the in-bounds Moore neighbours of idx to dst, row offset
// outer and column offset inner. When validOnly is set, invalid probes are
// skipped.
func (g *Grid) Neighbors(dst []int, idx int, validOnly bool) []int {
	node := g.Node(idx)
	if node == nil {
		return dst
	}
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := g.Index(node.Row+dr, node.Col+dc)
			if n < 0 {
				continue
			}
			if validOnly && !g.nodes[n].Valid {
				continue
			}
			dst = append(dst, n)
		}
	}
	return dst
}
