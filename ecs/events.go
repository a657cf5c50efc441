package ecs

import "github.com/milk9111/thirdperson/character"

// StateChangedEvent is pushed whenever a character's locomotion state
// changes during a step.
type StateChangedEvent struct {
	Entity Entity
	Tick   uint64
	From   character.State
	To     character.State
}

// EventQueue is a FIFO of state changes from the most recent update.
type EventQueue struct {
	items []StateChangedEvent
}

func (q *EventQueue) Push(evt StateChangedEvent) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []StateChangedEvent {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = q.items[:0]
}
