package pursuit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/milk9111/kartpilot/oracle"
)

var blockAll = oracle.Func(func(a, b r3.Vec, _ oracle.Layer) bool { return true })

func straight(n int) []r3.Vec {
	out := make([]r3.Vec, n)
	for i := range out {
		out[i] = r3.Vec{X: float64(i)}
	}
	return out
}

func TestControllerNotReady(t *testing.T) {
	c := NewController(DefaultConfig(), nil)
	require.False(t, c.IsReady())

	c.Start()
	require.False(t, c.Running(), "Start without a path must not arm the controller")

	_, ok := c.GenerateCommand()
	require.False(t, ok)

	pose := Pose{Orientation: Identity}
	c.Update(&pose, 1)
	require.Equal(t, Identity, pose.Orientation)
}

func TestInstallPath(t *testing.T) {
	tests := []struct {
		name   string
		points []r3.Vec
		ready  bool
		target int
	}{
		{"empty", nil, false, 0},
		{"single", straight(1), true, 0},
		{"many", straight(5), true, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewController(DefaultConfig(), nil)
			c.InstallPath(tc.points)
			require.Equal(t, tc.ready, c.IsReady())
			require.Equal(t, tc.target, c.Target())
		})
	}

	t.Run("copies_input", func(t *testing.T) {
		points := straight(3)
		c := NewController(DefaultConfig(), nil)
		c.InstallPath(points)
		points[1].X = 100
		require.Equal(t, 1.0, c.Path()[1].X)
	})
}

func TestThrottle(t *testing.T) {
	tests := []struct {
		name       string
		position   r3.Vec
		accelerate bool
	}{
		{"far_from_target", r3.Vec{}, true},
		{"just_outside_threshold", r3.Vec{X: 9.6}, true},
		{"inside_threshold", r3.Vec{X: 9.8}, false},
		{"on_target", r3.Vec{X: 10}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewController(DefaultConfig(), nil)
			c.InstallPath([]r3.Vec{{}, {X: 10}})
			c.Start()

			pose := Pose{Position: tc.position, Orientation: YawRotation(math.Pi / 2)}
			c.Update(&pose, 1.0/60)

			cmd, ok := c.GenerateCommand()
			require.True(t, ok)
			require.Equal(t, tc.accelerate, cmd.Accelerate)
			require.Equal(t, !tc.accelerate, cmd.Brake)
			require.Zero(t, cmd.Turn)
		})
	}
}

func TestThrottleThresholdBoundary(t *testing.T) {
	// The target sits on the X axis so the distance is exact.
	target := r3.Vec{X: 0.3}
	tests := []struct {
		name       string
		position   r3.Vec
		accelerate bool
	}{
		{"exactly_at_threshold_brakes", r3.Vec{}, false},
		{"just_beyond_threshold_accelerates", r3.Vec{X: -1e-9}, true},
		{"just_inside_threshold_brakes", r3.Vec{X: 1e-9}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			require.Equal(t, 0.3, cfg.AccelThreshold)
			c := NewController(cfg, nil)
			c.InstallPath([]r3.Vec{{X: -5}, target})
			c.Start()

			pose := Pose{Position: tc.position, Orientation: YawRotation(math.Pi / 2)}
			c.Update(&pose, 1.0/60)
			require.Equal(t, 1, c.Target())

			cmd, ok := c.GenerateCommand()
			require.True(t, ok)
			require.Equal(t, tc.accelerate, cmd.Accelerate)
			require.Equal(t, !tc.accelerate, cmd.Brake)
		})
	}
}

func TestLookahead(t *testing.T) {
	t.Run("farthest_visible", func(t *testing.T) {
		c := NewController(DefaultConfig(), nil)
		c.InstallPath(straight(9))
		c.Start()
		pose := Pose{Orientation: Identity}
		c.Update(&pose, 1.0/60)
		// 9 waypoints / divisor 3 scans indices 1..3.
		require.Equal(t, 3, c.Target())
	})

	t.Run("nothing_visible_keeps_target", func(t *testing.T) {
		c := NewController(DefaultConfig(), blockAll)
		c.InstallPath(straight(9))
		c.Start()
		pose := Pose{Orientation: Identity}
		c.Update(&pose, 1.0/60)
		require.Equal(t, 1, c.Target())
	})

	wrapCases := []struct {
		name string
		wrap bool
		want int
	}{
		{"wraps_to_start", true, 0},
		{"stops_at_end", false, 5},
	}
	for _, tc := range wrapCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.WrapLookahead = tc.wrap
			c := NewController(cfg, nil)
			c.InstallPath(straight(6))
			c.Start()
			pose := Pose{Orientation: Identity}
			for i := 0; i < 5; i++ {
				c.Update(&pose, 1.0/60)
			}
			require.Equal(t, tc.want, c.Target())
		})
	}
}

func TestLookaheadShortPath(t *testing.T) {
	tests := []struct {
		name   string
		points []r3.Vec
		tester oracle.SegmentTester
		want   int
	}{
		{"two_points_clear", straight(2), nil, 1},
		{"two_points_blocked", straight(2), blockAll, 1},
		{"single_point", straight(1), nil, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewController(DefaultConfig(), tc.tester)
			c.InstallPath(tc.points)
			c.Start()
			pose := Pose{Orientation: Identity}
			for range 3 {
				c.Update(&pose, 1.0/60)
				require.Equal(t, tc.want, c.Target())
			}
			_, ok := c.GenerateCommand()
			require.True(t, ok)
		})
	}
}

func TestRotationIsRateLimitedAndYawOnly(t *testing.T) {
	tests := []struct {
		name string
		dt   float64
		want float64
	}{
		{"quarter_second", 0.25, math.Pi / 4},
		{"full_second", 1, math.Pi / 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewController(DefaultConfig(), nil)
			c.InstallPath([]r3.Vec{{}, {X: 10}})
			c.Start()

			pose := Pose{Orientation: Identity}
			c.Update(&pose, tc.dt)

			require.InDelta(t, tc.want, Yaw(pose.Orientation), 1e-6)
			require.Zero(t, pose.Orientation.Imag)
			require.Zero(t, pose.Orientation.Kmag)
			require.InDelta(t, 1, quat.Abs(pose.Orientation), 1e-9)
		})
	}
}

func TestOrientationHelpers(t *testing.T) {
	for _, yaw := range []float64{0, 0.3, math.Pi / 2, -2.5} {
		require.InDelta(t, yaw, Yaw(YawRotation(yaw)), 1e-9)
	}

	f := Forward(YawRotation(math.Pi / 2))
	require.InDelta(t, 1, f.X, 1e-9)
	require.InDelta(t, 0, f.Z, 1e-9)

	require.Equal(t, Identity, LookRotation(r3.Vec{Y: 5}))
	require.InDelta(t, math.Pi, math.Abs(Yaw(LookRotation(r3.Vec{Z: -1}))), 1e-9)

	q := YawOnly(quat.Number{Real: 1, Imag: 0.3, Jmag: 0.2, Kmag: -0.4})
	require.Zero(t, q.Imag)
	require.Zero(t, q.Kmag)
	require.InDelta(t, 1, quat.Abs(q), 1e-9)

	require.InDelta(t, 90, AngleBetween(Identity, YawRotation(math.Pi/2)), 1e-9)
}
