package entity

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/thirdperson/animation"
	"github.com/milk9111/thirdperson/character"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
	"github.com/milk9111/thirdperson/prefabs"
)

// NewCharacter loads a character prefab and spawns it in w. The level is
// used to resolve the prefab's named spawn and may be nil.
func NewCharacter(w *ecs.World, filename string, level *prefabs.LevelSpec) (ecs.Entity, error) {
	spec, err := prefabs.LoadCharacterSpec(filename)
	if err != nil {
		return 0, err
	}
	e, err := BuildCharacter(w, spec, level)
	if err != nil {
		return 0, fmt.Errorf("character %s: %w", filename, err)
	}
	if ch, ok := ecs.Get(w, e, component.CharacterComponent.Kind()); ok {
		ch.Spec = filename
	}
	return e, nil
}

// BuildCharacter creates the entity, body, animator and controller for spec.
func BuildCharacter(w *ecs.World, spec *prefabs.CharacterSpec, level *prefabs.LevelSpec) (ecs.Entity, error) {
	if w == nil || spec == nil {
		return 0, fmt.Errorf("nil world or spec")
	}

	pos, yaw := spec.Position.Vec3(), spec.Yaw
	if sp, ok := level.Spawn(spec.Spawn); ok {
		pos, yaw = sp.Position.Vec3(), sp.Yaw
	} else if spec.Spawn != "" {
		log.Printf("entity: character %q spawn %q not found, using position %v", spec.Name, spec.Spawn, pos)
	}

	body := character.NewBody(pos, mgl64.DegToRad(yaw))
	body.Mass = spec.Mass
	anim := animation.NewProcedural(spec.Animator.Config(), body)

	var env character.Environment
	if pw := w.PhysicsWorld(); pw != nil {
		env = pw
	}
	ctrl := character.New(body, spec.Capsule.Capsule(), anim, env, w, spec.Locomotion.Parameters())
	ctrl.Debug = spec.Debug

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.CharacterComponent.Kind(), &component.Character{
		Controller: ctrl,
		Body:       body,
		Animator:   anim,
	}); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	if err := ecs.Add(w, e, component.IntentComponent.Kind(), &component.Intent{}); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: spec.Name}); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	if spec.Script != "" {
		if err := ecs.Add(w, e, component.IntentScriptComponent.Kind(), &component.IntentScript{Script: spec.Script}); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, err
		}
	}
	return e, nil
}
