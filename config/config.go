// Package config holds the tuning for every stage of the pipeline. Values
// come from the embedded defaults.yaml, optionally overlaid by a file on
// disk.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/kartpilot/grid"
	"github.com/milk9111/kartpilot/pursuit"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type GridConfig struct {
	Resolution int     `yaml:"resolution"`
	Extent     float64 `yaml:"extent"`
}

type ProbeConfig struct {
	Radius           float64 `yaml:"radius"`
	OverheadTop      float64 `yaml:"overhead_top"`
	OverheadBottom   float64 `yaml:"overhead_bottom"`
	GroundDepth      float64 `yaml:"ground_depth"`
	Clearance        float64 `yaml:"clearance"`
	NeighborReach    float64 `yaml:"neighbor_reach"`
	StartRadiusSteps float64 `yaml:"start_radius_steps"`
}

type ClassifyConfig struct {
	// SettleFrames delays classification after the probes are laid out.
	SettleFrames int `yaml:"settle_frames"`
}

type PlannerConfig struct {
	MaxIterations int `yaml:"max_iterations"`
}

type RouteConfig struct {
	ShortcutHalfWidth float64 `yaml:"shortcut_half_width"`
	SamplesPerSegment int     `yaml:"samples_per_segment"`
}

type PursuitConfig struct {
	CorridorHalfWidth float64 `yaml:"corridor_half_width"`
	AccelThreshold    float64 `yaml:"accel_threshold"`
	RotationSpeed     float64 `yaml:"rotation_speed"`
	LookaheadDivisor  int     `yaml:"lookahead_divisor"`
	WrapLookahead     bool    `yaml:"wrap_lookahead"`
}

// DriveConfig tunes the kinematic stand-in for the kart's drive physics.
type DriveConfig struct {
	MaxSpeed     float64 `yaml:"max_speed"`
	Acceleration float64 `yaml:"acceleration"`
	Braking      float64 `yaml:"braking"`
	Drag         float64 `yaml:"drag"`
}

type SimConfig struct {
	FrameRate         float64 `yaml:"frame_rate"`
	MaxFrames         int     `yaml:"max_frames"`
	SpeedSampleFrames int     `yaml:"speed_sample_frames"`
}

// Config is the root configuration document.
type Config struct {
	Grid     GridConfig     `yaml:"grid"`
	Probe    ProbeConfig    `yaml:"probe"`
	Classify ClassifyConfig `yaml:"classify"`
	Planner  PlannerConfig  `yaml:"planner"`
	Route    RouteConfig    `yaml:"route"`
	Pursuit  PursuitConfig  `yaml:"pursuit"`
	Drive    DriveConfig    `yaml:"drive"`
	Sim      SimConfig      `yaml:"sim"`
}

// Default returns the embedded defaults.
func Default() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		panic("config: embedded defaults: " + err.Error())
	}
	return cfg
}

// Load overlays the file at path on the defaults. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	return Parse(data, cfg)
}

// Parse overlays data on base and validates the result.
func Parse(data []byte, base Config) (Config, error) {
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Grid.Resolution <= 0 {
		errs = append(errs, fmt.Errorf("grid.resolution must be positive, got %d", c.Grid.Resolution))
	}
	if c.Grid.Extent <= 0 {
		errs = append(errs, fmt.Errorf("grid.extent must be positive, got %g", c.Grid.Extent))
	}
	if c.Probe.Radius < 0 {
		errs = append(errs, fmt.Errorf("probe.radius must not be negative, got %g", c.Probe.Radius))
	}
	if c.Classify.SettleFrames < 0 {
		errs = append(errs, fmt.Errorf("classify.settle_frames must not be negative, got %d", c.Classify.SettleFrames))
	}
	if c.Planner.MaxIterations <= 0 {
		errs = append(errs, fmt.Errorf("planner.max_iterations must be positive, got %d", c.Planner.MaxIterations))
	}
	if c.Route.SamplesPerSegment < 2 {
		errs = append(errs, fmt.Errorf("route.samples_per_segment must be at least 2, got %d", c.Route.SamplesPerSegment))
	}
	if c.Pursuit.LookaheadDivisor <= 0 {
		errs = append(errs, fmt.Errorf("pursuit.lookahead_divisor must be positive, got %d", c.Pursuit.LookaheadDivisor))
	}
	if c.Sim.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("sim.frame_rate must be positive, got %g", c.Sim.FrameRate))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}

// ProbeShape converts the probe section for the grid classifier.
func (c Config) ProbeShape() grid.ProbeShape {
	return grid.ProbeShape{
		Radius:           c.Probe.Radius,
		OverheadTop:      c.Probe.OverheadTop,
		OverheadBottom:   c.Probe.OverheadBottom,
		GroundDepth:      c.Probe.GroundDepth,
		Clearance:        c.Probe.Clearance,
		NeighborReach:    c.Probe.NeighborReach,
		StartRadiusSteps: c.Probe.StartRadiusSteps,
	}
}

// ControllerConfig converts the pursuit section for the controller.
func (c Config) ControllerConfig() pursuit.Config {
	return pursuit.Config{
		CorridorHalfWidth: c.Pursuit.CorridorHalfWidth,
		AccelThreshold:    c.Pursuit.AccelThreshold,
		RotationSpeed:     c.Pursuit.RotationSpeed,
		LookaheadDivisor:  c.Pursuit.LookaheadDivisor,
		WrapLookahead:     c.Pursuit.WrapLookahead,
	}
}

// FrameTime is the fixed tick duration in seconds.
func (c Config) FrameTime() float64 {
	return 1 / c.Sim.FrameRate
}
