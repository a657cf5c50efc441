package system

import (
	"github.com/milk9111/thirdperson/character"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

// LocomotionSystem steps every character controller with its intent for
// this tick and reports every state transition on the world's event queue.
// It owns the controllers' OnStateChange hook.
type LocomotionSystem struct{}

func NewLocomotionSystem() *LocomotionSystem {
	return &LocomotionSystem{}
}

func (l *LocomotionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.CharacterComponent.Kind(), func(e ecs.Entity, ch *component.Character) {
		if ch.Controller == nil {
			return
		}
		// characters without an intent stand still
		var intent component.Intent
		if in, ok := ecs.Get(w, e, component.IntentComponent.Kind()); ok {
			intent = *in
		}

		// a single Move can pass through several states, e.g. land and jump
		ch.Controller.OnStateChange = func(from, to character.State) {
			w.Events().Push(ecs.StateChangedEvent{Entity: e, Tick: w.Tick(), From: from, To: to})
		}
		ch.Controller.MoveIntent(intent.MotionIntent)
	})
}
