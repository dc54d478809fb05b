package system

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/danmaku/ecs"
	"github.com/milk9111/danmaku/ecs/component"
	"github.com/milk9111/danmaku/script"
)

// SpawnFunction runs once on a freshly summoned entity, before its first
// tick.
const SpawnFunction = "spawn"

// Instantiator creates script instances by name.
type Instantiator interface {
	Instantiate(name string, args []float32, opts ...script.Option) (*script.ScriptContext, error)
}

// CommandSystem applies buffered commands once every script of the tick has
// run.
type CommandSystem struct {
	scripts Instantiator
	in      *CommandBuffer
	mode    script.Mode

	enemies int
	bullets int
}

func NewCommandSystem(scripts Instantiator, in *CommandBuffer, mode script.Mode) *CommandSystem {
	return &CommandSystem{scripts: scripts, in: in, mode: mode}
}

// Summoned returns how many enemies and bullets were created so far.
func (s *CommandSystem) Summoned() (enemies, bullets int) {
	return s.enemies, s.bullets
}

func (s *CommandSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	for _, is := range s.in.Drain() {
		switch cmd := is.Cmd.(type) {
		case script.MoveUp:
			if t, ok := ecs.Get(w, is.Source, component.TransformComponent.Kind()); ok {
				t.Y += cmd.Dy
			}
		case script.SummonEnemy:
			e, ok := s.summon(w, is, cmd.AI, cmd.Args, cmd.Collide, &component.Transform{X: cmd.X, Y: cmd.Y})
			if !ok {
				continue
			}
			_ = ecs.Add(w, e, component.EnemyComponent.Kind(), &component.Enemy{Name: cmd.Name, HP: cmd.HP})
			s.enemies++
		case script.SummonBullet:
			e, ok := s.summon(w, is, cmd.AI, cmd.Args, cmd.Collide, &component.Transform{X: cmd.X, Y: cmd.Y, Z: cmd.Z, Angle: cmd.Angle})
			if !ok {
				continue
			}
			_ = ecs.Add(w, e, component.BulletComponent.Kind(), &component.Bullet{Name: cmd.Name})
			s.bullets++
		default:
			log.Warn("unhandled command", "entity", is.Source, "cmd", cmd)
		}
	}
}

func (s *CommandSystem) summon(w *ecs.World, is Issued, ai string, args []float32, shape script.Collide, t *component.Transform) (ecs.Entity, bool) {
	ctx, err := s.scripts.Instantiate(ai, args, script.WithMode(s.mode))
	if err != nil {
		log.Error("summon failed", "entity", is.Source, "ai", ai, "err", err)
		return 0, false
	}
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), t)
	_ = ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{Shape: shape})
	_ = ecs.Add(w, e, component.ScriptComponent.Kind(), &component.Script{Ctx: ctx})
	if ctx.Desc().Has(SpawnFunction) {
		_ = ecs.Add(w, e, component.ScriptCallComponent.Kind(), &component.ScriptCall{Pending: []string{SpawnFunction}})
	}
	if is.TTL > 0 {
		_ = ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: is.TTL})
	}
	return e, true
}
