package ecs

import "github.com/milk9111/danmaku/ecs/component"

// candidates returns the entities of the smallest store among ids. The
// caller still has to check the other stores. A missing store means no
// entity can match.
func candidates(w *World, ids ...component.ComponentID) []Entity {
	var smallest *SparseSet
	for _, id := range ids {
		s := w.store(id, false)
		if s == nil {
			return nil
		}
		if smallest == nil || s.Len() < smallest.Len() {
			smallest = s
		}
	}
	return smallest.Entities()
}
