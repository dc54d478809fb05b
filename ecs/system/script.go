package system

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/danmaku/ecs"
	"github.com/milk9111/danmaku/ecs/component"
	"github.com/milk9111/danmaku/script"
)

// ScriptSystem runs every enabled entity script once per tick: queued named
// calls first, then the tick function. All runs of one tick share a single
// GameData so they see the same calc stack and player transform.
type ScriptSystem struct {
	scripts script.Registry
	out     *CommandBuffer
}

func NewScriptSystem(scripts script.Registry, out *CommandBuffer) *ScriptSystem {
	return &ScriptSystem{scripts: scripts, out: out}
}

func (s *ScriptSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	var playerT *component.Transform
	var player *script.Vec3
	ecs.ForEach2(w, component.PlayerComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, _ *component.Player, t *component.Transform) {
		if playerT != nil {
			return
		}
		v := t.Vec()
		playerT, player = t, &v
	})

	game := script.NewGameData(s.scripts, player)
	ecs.ForEach(w, component.ScriptComponent.Kind(), func(e ecs.Entity, sc *component.Script) {
		if sc.Disabled || sc.Ctx == nil {
			return
		}
		s.run(w, e, sc, game)
	})

	if playerT != nil && game.Player != player {
		playerT.SetVec(*game.Player)
	}
	if n := game.Calc.Len(); n != 0 {
		log.Warn("calc stack not empty after script pass", "depth", n)
	}
}

func (s *ScriptSystem) run(w *ecs.World, e ecs.Entity, sc *component.Script, game *script.GameData) {
	temp := &script.Temp{}
	var self script.Vec3
	tr, hasTransform := ecs.Get(w, e, component.TransformComponent.Kind())
	if hasTransform {
		self = tr.Vec()
		temp.Self = &self
	}
	depth := game.Calc.Len()
	name := sc.Ctx.Desc().Name

	var err error
	if calls, ok := ecs.Get(w, e, component.ScriptCallComponent.Kind()); ok {
		for _, fn := range calls.Take() {
			if !sc.Ctx.Desc().Has(fn) {
				log.Debug("script has no such function", "entity", e, "script", name, "fn", fn)
				continue
			}
			if _, _, err = sc.Ctx.ExecuteFunction(fn, game, temp); err != nil {
				break
			}
		}
	}
	if err == nil && sc.Ctx.HasTick() {
		_, _, err = sc.Ctx.TickFunction(game, temp)
	}

	if hasTransform {
		tr.SetVec(self)
	}
	for _, cmd := range game.Commands.Drain() {
		s.out.Push(e, cmd)
	}
	if err != nil {
		sc.Disabled = true
		log.Error("script fault", "entity", e, "script", name, "err", err)
		w.Events().Push(ecs.Event{Type: ecs.EventScriptFault, Data: ecs.ScriptFault{Entity: e, Script: name, Err: err}})
	}
	if n := game.Calc.Len(); n != depth {
		log.Warn("script left calc stack unbalanced", "entity", e, "script", name, "before", depth, "after", n)
	}
}
