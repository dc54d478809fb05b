package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/danmaku/ecs"
	"github.com/milk9111/danmaku/ecs/component"
)

// BoundsSystem destroys colliding entities that have fully left the arena.
// The player is never culled.
type BoundsSystem struct {
	arena cp.BB
}

// NewBoundsSystem culls against the box (0,0)-(width,height) grown by margin
// on every side.
func NewBoundsSystem(width, height, margin float32) *BoundsSystem {
	m := float64(margin)
	return &BoundsSystem{arena: cp.NewBBForExtents(cp.Vector{X: float64(width) / 2, Y: float64(height) / 2}, float64(width)/2+m, float64(height)/2+m)}
}

// Arena returns the culling box.
func (s *BoundsSystem) Arena() cp.BB {
	return s.arena
}

func (s *BoundsSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.TransformComponent.Kind(), component.ColliderComponent.Kind(), func(e ecs.Entity, t *component.Transform, c *component.Collider) {
		if ecs.Has(w, e, component.PlayerComponent.Kind()) {
			return
		}
		if s.arena.Intersects(c.Shape.Bounds(t.X, t.Y)) {
			return
		}
		ecs.DestroyEntity(w, e)
		w.Events().Push(ecs.Event{Type: ecs.EventDespawn, Data: ecs.Despawn{Entity: e, Reason: "out of bounds"}})
	})
}
