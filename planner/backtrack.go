package planner

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/milk9111/kartpilot/grid"
)

// Backtrack walks from the goal of a found result back to the start by
// repeatedly stepping to the cheapest closed neighbour not yet on the path.
// Ties go to the first neighbour in row-major offset order. The returned
// indices run start to goal.
func Backtrack(g *grid.Grid, res Result) ([]int, error) {
	if res.State != StateFound || res.Goal < 0 {
		return nil, ErrExhausted
	}
	start := g.Start()
	if start < 0 {
		return nil, ErrNoStart
	}

	closed := make([]bool, g.Len())
	for _, idx := range res.Closed {
		closed[idx] = true
	}
	onPath := make([]bool, g.Len())

	path := make([]int, 0, 32)
	cur := res.Goal
	candidates := make([]int, 0, 8)
	for cur != start {
		if len(path) > len(res.Closed) {
			return nil, fmt.Errorf("%w: path longer than explored set", ErrBrokenChain)
		}
		path = append(path, cur)
		onPath[cur] = true

		candidates = g.Neighbors(candidates[:0], cur, false)
		next := -1
		nextCost := 0.0
		for _, n := range candidates {
			node := g.Node(n)
			// The start probe may have been flagged before it validated.
			if !node.Valid && n != start {
				continue
			}
			if !closed[n] || onPath[n] {
				continue
			}
			if next < 0 || node.Cost < nextCost {
				next = n
				nextCost = node.Cost
			}
		}
		if next < 0 {
			node := g.Node(cur)
			return nil, fmt.Errorf("%w: stuck at (%d, %d)", ErrBrokenChain, node.Row, node.Col)
		}
		cur = next
	}
	path = append(path, start)

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// Positions maps arena indices to world positions.
func Positions(g *grid.Grid, path []int) []r3.Vec {
	if len(path) == 0 {
		return nil
	}
	out := make([]r3.Vec, 0, len(path))
	for _, idx := range path {
		out = append(out, g.Node(idx).Position)
	}
	return out
}

// PathCost sums the Euclidean length of consecutive positions.
func PathCost(points []r3.Vec) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += r3.Norm(r3.Sub(points[i], points[i-1]))
	}
	return total
}
