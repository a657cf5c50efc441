package entity

import (
	"fmt"
	"log"

	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/prefabs"
)

// NewPhysicsWorld builds the static collision geometry for a level.
func NewPhysicsWorld(spec *prefabs.LevelSpec) *ecs.PhysicsWorld {
	pw := ecs.NewPhysicsWorld(spec.Gravity.Vec3())
	for _, b := range spec.Boxes {
		pw.AddBox(b.Name, b.X, b.Y, b.W, b.H)
	}
	for _, r := range spec.Ramps {
		pw.AddPolygon(r.Name, r.Verts())
	}
	return pw
}

// LoadLevelToWorld attaches the level's geometry to w and spawns every
// character it lists.
func LoadLevelToWorld(w *ecs.World, spec *prefabs.LevelSpec) ([]ecs.Entity, error) {
	if w == nil || spec == nil {
		return nil, fmt.Errorf("nil world or level")
	}
	pw := NewPhysicsWorld(spec)
	w.SetPhysicsWorld(pw)
	log.Printf("entity: level %q loaded with %d solids", spec.Name, len(pw.Solids()))

	ents := make([]ecs.Entity, 0, len(spec.Characters))
	for _, name := range spec.Characters {
		e, err := NewCharacter(w, name, spec)
		if err != nil {
			return ents, err
		}
		ents = append(ents, e)
	}
	return ents, nil
}

// LoadLevel reads a level prefab and loads it into w.
func LoadLevel(w *ecs.World, filename string) (*prefabs.LevelSpec, []ecs.Entity, error) {
	spec, err := prefabs.LoadLevelSpec(filename)
	if err != nil {
		return nil, nil, err
	}
	ents, err := LoadLevelToWorld(w, spec)
	if err != nil {
		return spec, ents, fmt.Errorf("level %s: %w", filename, err)
	}
	return spec, ents, nil
}
