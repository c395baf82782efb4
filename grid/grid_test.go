package grid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/milk9111/kartpilot/oracle"
)

func TestNewLayout(t *testing.T) {
	tests := []struct {
		name    string
		center  r3.Vec
		extent  float64
		n       int
		first   r3.Vec
		last    r3.Vec
		spacing float64
	}{
		{"odd", r3.Vec{}, 3, 3, r3.Vec{X: -1, Z: -1}, r3.Vec{X: 1, Z: 1}, 1},
		{"even", r3.Vec{}, 4, 4, r3.Vec{X: -2, Z: -2}, r3.Vec{X: 1, Z: 1}, 1},
		{"offset_centre", r3.Vec{X: 10, Y: 2, Z: -4}, 10, 5, r3.Vec{X: 6, Y: 2, Z: -8}, r3.Vec{X: 14, Y: 2, Z: 0}, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := New(tc.center, tc.extent, tc.n)
			require.NoError(t, err)
			require.Equal(t, tc.n*tc.n, g.Len())
			require.InDelta(t, tc.spacing, g.Spacing(), 1e-12)
			require.Equal(t, tc.first, g.At(0, 0).Position)
			require.Equal(t, tc.last, g.At(tc.n-1, tc.n-1).Position)
			require.Equal(t, PhaseSampled, g.Phase())
			require.Equal(t, -1, g.Start())
		})
	}

	_, err := New(r3.Vec{}, 10, 0)
	require.ErrorIs(t, err, ErrInvalidResolution)
	_, err = New(r3.Vec{}, 0, 4)
	require.ErrorIs(t, err, ErrInvalidExtent)
}

func TestNeighbors(t *testing.T) {
	g, err := New(r3.Vec{}, 3, 3)
	require.NoError(t, err)

	require.Equal(t, []int{1, 3, 4}, g.Neighbors(nil, 0, false))
	require.Equal(t, []int{0, 1, 2, 3, 5, 6, 7, 8}, g.Neighbors(nil, 4, false))
	require.Empty(t, g.Neighbors(nil, 4, true))

	g.Node(1).Valid = true
	g.Node(8).Valid = true
	require.Equal(t, []int{1, 8}, g.Neighbors(nil, 4, true))
	require.Nil(t, g.Neighbors(nil, 99, false))
}

func TestSetStart(t *testing.T) {
	g, err := New(r3.Vec{}, 3, 3)
	require.NoError(t, err)

	g.SetStart(2)
	g.SetStart(5)
	require.Equal(t, 5, g.Start())
	require.False(t, g.Node(2).Start)
	require.True(t, g.Node(5).Start)

	g.SetStart(-1)
	require.Equal(t, -1, g.Start())
	require.False(t, g.Node(5).Start)
}

// openSpace is a large slab with a goal pad near (2, 2) and a finish pad
// near (-3, -3).
func openSpace() *oracle.Space {
	s := oracle.NewSpace()
	s.AddBox(oracle.LayerTrack, r3.Vec{X: -10, Z: -10}, r3.Vec{X: 10, Z: 10}, oracle.Volume{Bottom: -1, Top: 0})
	s.AddBox(oracle.LayerGoal, r3.Vec{X: 1.8, Z: 1.8}, r3.Vec{X: 2.2, Z: 2.2}, oracle.Volume{Bottom: -1, Top: 2})
	s.AddBox(oracle.LayerFinish, r3.Vec{X: -3.2, Z: -3.2}, r3.Vec{X: -2.8, Z: -2.8}, oracle.Volume{Bottom: -1, Top: 2})
	return s
}

func TestClassify(t *testing.T) {
	g, err := New(r3.Vec{}, 6, 6)
	require.NoError(t, err)
	s := openSpace()
	c := NewClassifier(DefaultProbeShape())

	sum, err := c.Classify(g, s, r3.Vec{Y: 0.5})
	require.NoError(t, err)
	require.Equal(t, Summary{Valid: 35, Goals: 1, Finish: 1, Start: 1}, sum)
	require.Equal(t, PhaseClassified, g.Phase())
	require.Zero(t, s.ProbeCount(), "probe colliders must be removed after classification")

	start := g.Node(g.Start())
	require.Equal(t, r3.Vec{}, start.Position)

	goal := g.At(5, 5)
	require.True(t, goal.Valid)
	require.True(t, goal.Goal)
	require.Equal(t, []int{g.Index(5, 5)}, g.Goals())

	finish := g.At(0, 0)
	require.True(t, finish.Finish)
	require.False(t, finish.Valid, "finish probes are never drivable")
	require.False(t, finish.Goal)

	_, err = c.Classify(g, s, r3.Vec{Y: 0.5})
	require.ErrorIs(t, err, ErrAlreadyClassified)
}

func TestClassifyWithoutStart(t *testing.T) {
	g, err := New(r3.Vec{}, 6, 6)
	require.NoError(t, err)
	c := NewClassifier(DefaultProbeShape())

	sum, err := c.Classify(g, openSpace(), r3.Vec{X: 50, Y: 0.5})
	require.True(t, errors.Is(err, ErrNoStart))
	require.Zero(t, sum.Start)
	require.Equal(t, 35, sum.Valid)
	require.Equal(t, PhaseClassified, g.Phase(), "the grid is classified even without a start")
}

func TestDrivable(t *testing.T) {
	s := oracle.NewSpace()
	s.AddBox(oracle.LayerTrack, r3.Vec{X: -10, Z: -10}, r3.Vec{X: 10, Z: 10}, oracle.Volume{Bottom: -1, Top: 0})
	// Low roof over x 4..6.
	s.AddBox(oracle.LayerTrack, r3.Vec{X: 4, Z: -1}, r3.Vec{X: 6, Z: 1}, oracle.Volume{Bottom: 1.2, Top: 1.6})
	// Wall along z = 5.
	s.AddSegment(oracle.LayerTrack, r3.Vec{X: -10, Z: 5}, r3.Vec{X: 10, Z: 5}, 0.25, oracle.Volume{Bottom: 0, Top: 2})

	c := NewClassifier(DefaultProbeShape())
	tests := []struct {
		name string
		p    r3.Vec
		want bool
	}{
		{"open_ground", r3.Vec{}, true},
		{"no_ground", r3.Vec{X: 20}, false},
		{"under_roof", r3.Vec{X: 5}, false},
		{"beside_wall", r3.Vec{Z: 4.2}, false},
		{"clear_of_wall", r3.Vec{Z: 3}, true},
		{"floating", r3.Vec{Y: 3}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, c.Drivable(s, tc.p))
		})
	}
}
