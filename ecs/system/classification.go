package system

import (
	"log"

	"github.com/milk9111/kartpilot/ecs"
	"github.com/milk9111/kartpilot/ecs/component"
	"github.com/milk9111/kartpilot/grid"
)

// ClassificationSystem classifies the world grid once, after SettleFrames
// ticks have passed, using the first kart's position to locate the start
// probe.
type ClassificationSystem struct {
	Classifier   *grid.Classifier
	SettleFrames int

	waited  int
	Summary grid.Summary
	Err     error
}

func NewClassificationSystem(shape grid.ProbeShape, settleFrames int) *ClassificationSystem {
	return &ClassificationSystem{
		Classifier:   grid.NewClassifier(shape),
		SettleFrames: settleFrames,
	}
}

func (s *ClassificationSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	res := w.Resources()
	if res.Grid == nil || res.Space == nil || res.Grid.Phase() == grid.PhaseClassified {
		return
	}
	if s.waited < s.SettleFrames {
		s.waited++
		return
	}

	kart, ok := ecs.First(w, component.KartTagComponent.Kind())
	if !ok {
		return
	}
	t, ok := ecs.Get(w, kart, component.TransformComponent.Kind())
	if !ok {
		return
	}

	sum, err := s.Classifier.Classify(res.Grid, res.Space, t.Position)
	s.Summary, s.Err = sum, err
	if err != nil {
		log.Printf("ClassificationSystem: %v", err)
	}
	log.Printf("ClassificationSystem: %d/%d probes valid, %d goal, %d finish",
		sum.Valid, res.Grid.Len(), sum.Goals, sum.Finish)
	w.Events().Push(ecs.Event{Type: ecs.EventGridClassified, Data: sum})
}
