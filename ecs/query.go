package ecs

import (
	"slices"

	"github.com/milk9111/thirdperson/ecs/component"
)

// Query returns the entities holding every listed component, in ascending
// slot order so systems see characters in a stable order.
func Query(w *World, ids ...component.ComponentID) []Entity {
	if w == nil || len(ids) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(ids))
	for _, id := range ids {
		s := w.store(id, false)
		if s.Len() == 0 {
			return nil
		}
		sets = append(sets, s)
	}
	// iterate the smallest set
	slices.SortFunc(sets, func(a, b *SparseSet) int { return a.Len() - b.Len() })

	out := make([]Entity, 0, sets[0].Len())
	for _, id := range sets[0].ids() {
		matched := true
		for _, s := range sets[1:] {
			if !s.Has(id) {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		if e, ok := w.entities.handle(id); ok {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b Entity) int { return int(a.id()) - int(b.id()) })
	return out
}

// First returns the lowest entity holding every listed component.
func First(w *World, ids ...component.ComponentID) (Entity, bool) {
	ents := Query(w, ids...)
	if len(ents) == 0 {
		return NilEntity, false
	}
	return ents[0], true
}
