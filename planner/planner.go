// Package planner searches a classified probe grid for the cheapest route
// from the start probe to the first goal probe it reaches.
//
// The search is uniform cost: nodes leave the open list in order of their
// accumulated Euclidean cost, with no heuristic term.
package planner

import (
	"errors"
	"fmt"

	"github.com/milk9111/kartpilot/common"
	"github.com/milk9111/kartpilot/grid"
)

// DefaultMaxIterations bounds a single search so one tick can never stall.
const DefaultMaxIterations = 10000

var (
	ErrNotClassified = errors.New("planner: grid is not classified")
	ErrNoStart       = errors.New("planner: grid has no start probe")
	ErrExhausted     = errors.New("planner: search exhausted without reaching a goal")
	ErrBrokenChain   = errors.New("planner: backtrack found no predecessor")
	ErrBusy          = errors.New("planner: search already ran")
)

// State is the planner lifecycle.
type State int

const (
	StateIdle State = iota
	StateSearching
	StateFound
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSearching:
		return "searching"
	case StateFound:
		return "found"
	case StateExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Result is the outcome of a search. Closed lists every expanded node in the
// order it was closed; on exhaustion it is kept for diagnostics.
type Result struct {
	State      State
	Goal       int
	Cost       float64
	Iterations int
	Closed     []int
}

// Planner runs one search over a grid.
type Planner struct {
	MaxIterations int

	state  State
	result Result
}

func New(maxIterations int) *Planner {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &Planner{MaxIterations: maxIterations}
}

func (p *Planner) State() State {
	if p == nil {
		return StateIdle
	}
	return p.state
}

// Result returns the last search result.
func (p *Planner) Result() Result {
	return p.result
}

// Search runs the search to completion. A planner searches once; exhaustion
// is terminal for that attempt.
func (p *Planner) Search(g *grid.Grid) (Result, error) {
	if p.state != StateIdle {
		return p.result, ErrBusy
	}
	if g == nil || g.Phase() != grid.PhaseClassified {
		return Result{}, ErrNotClassified
	}
	start := g.Start()
	if start < 0 {
		return Result{}, ErrNoStart
	}

	p.state = StateSearching
	p.result = search(g, start, p.MaxIterations)
	p.state = p.result.State
	if p.state == StateExhausted {
		return p.result, ErrExhausted
	}
	return p.result, nil
}

type sets struct {
	open     []int
	inOpen   []bool
	closed   []int
	inClosed []bool
}

func newSets(size int) *sets {
	return &sets{
		open:     make([]int, 0, 64),
		inOpen:   make([]bool, size),
		closed:   make([]int, 0, 64),
		inClosed: make([]bool, size),
	}
}

func (s *sets) push(idx int) {
	s.open = append(s.open, idx)
	s.inOpen[idx] = true
}

// popCheapest removes and returns the first minimum-cost entry of the open
// list, preserving the order of the rest.
func (s *sets) popCheapest(g *grid.Grid) int {
	best := 0
	bestCost := g.Node(s.open[0]).Cost
	for i := 1; i < len(s.open); i++ {
		if c := g.Node(s.open[i]).Cost; c < bestCost {
			best = i
			bestCost = c
		}
	}
	idx := s.open[best]
	s.open = append(s.open[:best], s.open[best+1:]...)
	s.inOpen[idx] = false
	return idx
}

func (s *sets) close(idx int) {
	s.closed = append(s.closed, idx)
	s.inClosed[idx] = true
}

func search(g *grid.Grid, start, maxIterations int) Result {
	g.ResetCosts()
	s := newSets(g.Len())
	g.Node(start).Cost = 0
	s.push(start)

	iterations := 0
	neighbors := make([]int, 0, 8)
	for len(s.open) > 0 {
		iterations++
		if iterations > maxIterations {
			break
		}

		cur := s.popCheapest(g)
		s.close(cur)
		node := g.Node(cur)
		if node.Goal {
			return Result{
				State:      StateFound,
				Goal:       cur,
				Cost:       node.Cost,
				Iterations: iterations,
				Closed:     s.closed,
			}
		}

		neighbors = g.Neighbors(neighbors[:0], cur, true)
		for _, n := range neighbors {
			if s.inClosed[n] {
				continue
			}
			child := g.Node(n)
			tentative := node.Cost + common.Distance(node.Position, child.Position)
			if s.inOpen[n] {
				// Equal costs overwrite as well.
				if tentative <= child.Cost {
					child.Cost = tentative
				}
				continue
			}
			child.Cost = tentative
			s.push(n)
		}
	}

	return Result{
		State:      StateExhausted,
		Goal:       -1,
		Iterations: iterations,
		Closed:     s.closed,
	}
}
