package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const (
	// EventGridClassified is pushed once classification finishes. Data is
	// a grid.Summary.
	EventGridClassified = "grid.classified"
	// EventPathInstalled is pushed when a planned path reaches a
	// controller. Data is a PathEvent.
	EventPathInstalled = "path.installed"
	// EventPlanFailed is pushed when planning gives up. Data is a PathEvent.
	EventPlanFailed = "plan.failed"
	// EventGoalReached is pushed when a kart enters a goal marker. Data is
	// the kart Entity.
	EventGoalReached = "goal.reached"
)

// PathEvent describes the outcome of planning for one kart.
type PathEvent struct {
	Entity Entity
	Points int
	Err    error
}

// EventQueue is a FIFO queue. Events pushed during a tick become visible
// to Peek on the next tick, after the scheduler swaps the buffers.
type EventQueue struct {
	pending []Event
	current []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.pending = append(q.pending, evt)
}

// Peek returns the events delivered this tick without consuming them.
func (q *EventQueue) Peek() []Event {
	if q == nil {
		return nil
	}
	return q.current
}

// Drain returns all delivered and pending events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.current)+len(q.pending) == 0 {
		return nil
	}
	out := append(q.current, q.pending...)
	q.current = nil
	q.pending = nil
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.current = q.pending
	q.pending = nil
}
