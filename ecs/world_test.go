package ecs

import (
	"errors"
	"strings"
	"testing"

	"github.com/milk9111/kartpilot/ecs/component"
)

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex >= 0 {
				if !DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if IsAlive(w, ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return false for a dead entity")
				}
				if len(Entities(w)) != c.create-1 {
					t.Fatalf("expected %d entities after destroy, got %d", c.create-1, len(Entities(w)))
				}
			}
		})
	}
}

func TestEntitySlotReuse(t *testing.T) {
	w := NewWorld()
	first := CreateEntity(w)
	if !DestroyEntity(w, first) {
		t.Fatal("failed to destroy entity")
	}
	second := CreateEntity(w)
	if second.id() != first.id() {
		t.Fatalf("expected slot %d reused, got %d", first.id(), second.id())
	}
	if second.generation() == first.generation() {
		t.Fatalf("expected new generation for reused slot")
	}
	if IsAlive(w, first) {
		t.Fatalf("stale handle should not be alive")
	}
	if !IsAlive(w, second) {
		t.Fatalf("new handle should be alive")
	}
}

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func TestWorldComponents(t *testing.T) {
	w := NewWorld()
	ki := component.NewComponentKind[int]()
	ks := component.NewComponentKind[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, ki, intPtr(10)) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, ki)
				if !ok || *v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
				if Has(w, e2, ki) {
					t.Fatalf("e2 should not have int component")
				}
			},
			teardown: func() bool { return Remove(w, e1, ki) },
		},
		{
			name: "add_str_to_e1_and_e2",
			setup: func() error {
				if err := Add(w, e1, ks, stringPtr("a")); err != nil {
					return err
				}
				return Add(w, e2, ks, stringPtr("b"))
			},
			check: func(t *testing.T) {
				if !Has(w, e1, ks) || !Has(w, e2, ks) {
					t.Fatalf("expected both entities to have string component")
				}
				v, _ := Get(w, e2, ks)
				if *v != "b" {
					t.Fatalf("expected b, got %q", *v)
				}
			},
			teardown: func() bool { return Remove(w, e1, ks) },
		},
		{
			name:  "replace_value",
			setup: func() error { return Add(w, e2, ki, intPtr(1)) },
			check: func(t *testing.T) {
				if err := Add(w, e2, ki, intPtr(2)); err != nil {
					t.Fatal(err)
				}
				v, _ := Get(w, e2, ki)
				if *v != 2 {
					t.Fatalf("expected replaced value 2, got %d", *v)
				}
				if Count(w, ki) != 1 {
					t.Fatalf("expected one int component, got %d", Count(w, ki))
				}
			},
			teardown: func() bool { return Remove(w, e2, ki) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
			if !tc.teardown() {
				t.Fatalf("teardown failed for %s", tc.name)
			}
		})
	}
}

func TestAddErrors(t *testing.T) {
	w := NewWorld()
	k := component.NewComponentKind[int]()
	e := CreateEntity(w)
	dead := CreateEntity(w)
	DestroyEntity(w, dead)

	tests := []struct {
		name string
		err  error
	}{
		{"nil_value", Add(w, e, k, nil)},
		{"dead_entity", Add(w, dead, k, intPtr(1))},
		{"invalid_kind", Add(w, e, component.ComponentKind[int]{}, intPtr(1))},
	}
	want := []error{component.ErrNilComponent, component.ErrEntityNotAlive, component.ErrInvalidComponentKind}
	for i, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !errors.Is(tc.err, want[i]) {
				t.Fatalf("expected %v, got %v", want[i], tc.err)
			}
		})
	}
}

func TestComponentNames(t *testing.T) {
	k := component.NewComponentKind[float64]()
	if got := k.String(); got != "float64" {
		t.Fatalf("expected kind named float64, got %q", got)
	}
	if got := component.TransformComponent.Kind().String(); got != "component.Transform" {
		t.Fatalf("expected component.Transform, got %q", got)
	}
	if got := (component.ComponentKind[int]{}).String(); got != "invalid" {
		t.Fatalf("expected invalid, got %q", got)
	}

	w := NewWorld()
	err := Add(w, CreateEntity(w), component.KartTagComponent.Kind(), nil)
	if !errors.Is(err, component.ErrNilComponent) || !strings.Contains(err.Error(), "component.KartTag") {
		t.Fatalf("expected nil-component error naming KartTag, got %v", err)
	}

	names := component.Registered()
	if len(names) == 0 || component.Name(component.ComponentID(len(names))) != names[len(names)-1] {
		t.Fatalf("registry out of step: %v", names)
	}
	if component.Name(0) != "" {
		t.Fatal("id 0 must have no name")
	}
}

func TestDestroyRemovesComponents(t *testing.T) {
	w := NewWorld()
	k := component.NewComponentKind[int]()
	a := CreateEntity(w)
	b := CreateEntity(w)
	c := CreateEntity(w)
	for i, e := range []Entity{a, b, c} {
		if err := Add(w, e, k, intPtr(i)); err != nil {
			t.Fatal(err)
		}
	}

	DestroyEntity(w, a)

	if Count(w, k) != 2 {
		t.Fatalf("expected 2 components after destroy, got %d", Count(w, k))
	}
	// c was swapped into a's dense slot.
	v, ok := Get(w, c, k)
	if !ok || *v != 2 {
		t.Fatalf("expected c to keep value 2, got %v ok=%v", v, ok)
	}
	reused := CreateEntity(w)
	if Has(w, reused, k) {
		t.Fatalf("reused slot must not inherit components")
	}
}

func TestForEach(t *testing.T) {
	w := NewWorld()
	k := component.NewComponentKind[int]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)

	if err := Add(w, e1, k, intPtr(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := Add(w, e3, k, intPtr(3)); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	got := map[Entity]int{}
	ForEach(w, k, func(e Entity, v *int) { got[e] = *v })

	if got[e1] != 1 || got[e3] != 3 {
		t.Fatalf("unexpected ForEach result %v", got)
	}
	if _, ok := got[e2]; ok {
		t.Fatalf("did not expect e2 in ForEach result")
	}

	first, ok := First(w, k)
	if !ok || first != e1 {
		t.Fatalf("expected First to return e1, got %v ok=%v", first, ok)
	}
}

func TestForEach3(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "intersection",
			run: func(t *testing.T) {
				w := NewWorld()
				e1 := CreateEntity(w)
				e2 := CreateEntity(w)
				e3 := CreateEntity(w)
				e4 := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()

				if err := Add(w, e1, ka, intPtr(1)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e2, ka, intPtr(2)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e2, kb, intPtr(3)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e2, kc, intPtr(5)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e3, kb, intPtr(4)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e4, kc, intPtr(6)); err != nil {
					t.Fatal(err)
				}

				var res []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 1 || res[0] != e2 {
					t.Fatalf("expected only e2, got %v", res)
				}
			},
		},
		{
			name: "ignores_dead_entities",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()

				for _, k := range []component.ComponentKind[int]{ka, kb, kc} {
					if err := Add(w, e, k, intPtr(1)); err != nil {
						t.Fatal(err)
					}
				}

				if !DestroyEntity(w, e) {
					t.Fatal("failed to destroy entity")
				}

				var res []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 0 {
					t.Fatalf("expected empty result after destroy, got %v", res)
				}
			},
		},
		{
			name: "missing_store",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()

				if err := Add(w, e, ka, intPtr(1)); err != nil {
					t.Fatal(err)
				}

				var res []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 0 {
					t.Fatalf("expected empty when other store missing, got %v", res)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.run)
	}
}

type countingSystem struct {
	updates int
	push    bool
	seen    int
}

func (s *countingSystem) Update(w *World) {
	s.updates++
	s.seen += len(w.Events().Peek())
	if s.push {
		w.Events().Push(Event{Type: "tick"})
	}
}

func TestSchedulerDeliversEventsNextTick(t *testing.T) {
	w := NewWorld()
	producer := &countingSystem{push: true}
	consumer := &countingSystem{}
	s := NewScheduler(producer, consumer)

	s.Update(w)
	if consumer.seen != 0 {
		t.Fatalf("events must not be visible in the tick they are pushed, saw %d", consumer.seen)
	}
	s.Update(w)
	if consumer.seen != 1 {
		t.Fatalf("expected one delivered event, saw %d", consumer.seen)
	}
	if w.Frame() != 2 {
		t.Fatalf("expected frame 2, got %d", w.Frame())
	}
	if got := len(w.Events().Drain()); got != 1 {
		t.Fatalf("expected 1 event to drain, got %d", got)
	}
	if got := len(w.Events().Drain()); got != 0 {
		t.Fatalf("expected empty queue after drain, got %d", got)
	}
}
