package component

import "gonum.org/v1/gonum/spatial/r3"

// RunStats accumulates a kart's lap measurements.
type RunStats struct {
	StartFrame  int
	Started     bool
	Finished    bool
	FinishFrame int
	Distance    float64
	// LastPosition is where the kart was on the previous frame.
	LastPosition r3.Vec
	// SpeedSamples holds speed readings taken every sample interval.
	SpeedSamples []float64
	MaxSpeed     float64
	BrakeFrames  int

	frameCounter int
}

// Tick advances the sampling counter and reports whether a sample is due.
func (s *RunStats) Tick(interval int) bool {
	if interval <= 0 {
		return false
	}
	s.frameCounter++
	if s.frameCounter < interval {
		return false
	}
	s.frameCounter = 0
	return true
}

// AverageSpeed is the mean of the sampled speeds.
func (s *RunStats) AverageSpeed() float64 {
	if len(s.SpeedSamples) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s.SpeedSamples {
		sum += v
	}
	return sum / float64(len(s.SpeedSamples))
}

var RunStatsComponent = NewComponent[RunStats]()
