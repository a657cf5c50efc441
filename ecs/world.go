package ecs

import "github.com/milk9111/thirdperson/ecs/component"

// World owns entities, component storage, the step clock and the static
// physics environment shared by every character in it.
type World struct {
	entities  entityStore
	stores    map[component.ComponentID]*SparseSet
	scheduler *Scheduler
	events    EventQueue

	physicsWorld *PhysicsWorld
	step         float64
	tick         uint64
}

// DefaultStep is the fixed simulation step in seconds.
const DefaultStep = 1.0 / 60.0

func NewWorld() *World {
	return &World{
		stores:    make(map[component.ComponentID]*SparseSet),
		scheduler: NewScheduler(),
		step:      DefaultStep,
	}
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil {
		return
	}
	w.scheduler.Add(s)
}

// Systems returns the registered systems in update order.
func (w *World) Systems() []System {
	if w == nil {
		return nil
	}
	return w.scheduler.Systems()
}

// Update runs every system once. Events pushed during the previous Update
// are dropped first, so callers read them between updates.
func (w *World) Update() {
	if w == nil {
		return
	}
	w.events.flush()
	w.scheduler.Update(w)
	w.tick++
}

// SetStep changes the step duration. Non-positive values are kept so the
// controllers can skip their velocity-from-animation pass.
func (w *World) SetStep(dt float64) {
	if w == nil {
		return
	}
	w.step = dt
}

// DeltaTime reports the step duration; the world is the clock for every
// controller it owns.
func (w *World) DeltaTime() float64 {
	if w == nil {
		return 0
	}
	return w.step
}

// Tick is the number of completed updates.
func (w *World) Tick() uint64 {
	if w == nil {
		return 0
	}
	return w.tick
}

func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// SetPhysicsWorld attaches the static environment.
func (w *World) SetPhysicsWorld(pw *PhysicsWorld) {
	if w == nil {
		return
	}
	w.physicsWorld = pw
}

func (w *World) PhysicsWorld() *PhysicsWorld {
	if w == nil {
		return nil
	}
	return w.physicsWorld
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}
