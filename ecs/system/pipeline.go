package system

import "github.com/milk9111/thirdperson/ecs"

// AddCharacterSystems registers the per-tick character pipeline on w in
// the order it must run. The script system is returned so callers can
// invalidate scripts on reload.
func AddCharacterSystems(w *ecs.World) *IntentScriptSystem {
	scripts := NewIntentScriptSystem()
	w.AddSystem(scripts)
	w.AddSystem(NewLocomotionSystem())
	w.AddSystem(NewAnimationSystem())
	w.AddSystem(NewPhysicsSystem())
	return scripts
}
