package system

import (
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

// AnimationSystem advances each procedural animator by one step and hands
// its root motion back to the controller.
type AnimationSystem struct{}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{}
}

func (a *AnimationSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()

	ecs.ForEach(w, component.CharacterComponent.Kind(), func(e ecs.Entity, ch *component.Character) {
		if ch.Animator == nil || ch.Controller == nil {
			return
		}
		ch.Animator.Advance(dt)
		ch.Controller.ApplyRootMotion()
	})
}
