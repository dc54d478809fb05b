// Package sim wires the ECS systems into one steppable simulation shared by
// the windowed game and the headless runner.
package sim

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/milk9111/danmaku/config"
	"github.com/milk9111/danmaku/ecs"
	"github.com/milk9111/danmaku/ecs/component"
	"github.com/milk9111/danmaku/ecs/system"
	"github.com/milk9111/danmaku/prefabs"
	"github.com/milk9111/danmaku/script"
)

// Stats is a snapshot of simulation counters.
type Stats struct {
	Tick      uint64
	Entities  int
	Enemies   int
	Bullets   int
	Summoned  int
	Fired     int
	Faults    int
	Despawned int
	StageDone bool
}

type Sim struct {
	world    *ecs.World
	sched    *ecs.Scheduler
	stage    *system.StageSystem
	commands *system.CommandSystem
	player   ecs.Entity

	faults    int
	despawned int
}

// New builds a world with the player placed at the stage start. The stage
// must match the scripts in m.
func New(cfg config.Config, m *script.Manager, stage *prefabs.StageSpec) (*Sim, error) {
	if err := stage.Check(m); err != nil {
		return nil, fmt.Errorf("sim: stage %s: %w", stage.Name, err)
	}

	w := ecs.NewWorld()
	player := ecs.CreateEntity(w)
	if err := ecs.Add(w, player, component.PlayerComponent.Kind(), &component.Player{Lives: 3}); err != nil {
		return nil, err
	}
	if err := ecs.Add(w, player, component.TransformComponent.Kind(), &component.Transform{X: stage.Player.X, Y: stage.Player.Y}); err != nil {
		return nil, err
	}

	buf := system.NewCommandBuffer()
	s := &Sim{
		world:    w,
		stage:    system.NewStageSystem(stage, buf),
		commands: system.NewCommandSystem(m, buf, cfg.ScriptMode()),
		player:   player,
	}
	s.sched = ecs.NewScheduler(
		s.stage,
		system.NewScriptSystem(m, buf),
		s.commands,
		system.NewBoundsSystem(cfg.Arena.Width, cfg.Arena.Height, cfg.Arena.Margin),
		system.NewTTLSystem(),
	)
	return s, nil
}

func (s *Sim) World() *ecs.World {
	return s.world
}

func (s *Sim) Player() ecs.Entity {
	return s.player
}

// Step runs one tick.
func (s *Sim) Step() {
	s.sched.Update(s.world)
	for _, evt := range s.world.Events().Drain() {
		switch evt.Type {
		case ecs.EventScriptFault:
			s.faults++
		case ecs.EventDespawn:
			s.despawned++
			if d, ok := evt.Data.(ecs.Despawn); ok {
				log.Debug("despawn", "entity", d.Entity, "reason", d.Reason)
			}
		}
	}
}

func (s *Sim) Stats() Stats {
	st := Stats{
		Tick:      s.sched.Ticks(),
		Entities:  len(ecs.Entities(s.world)),
		Faults:    s.faults,
		Despawned: s.despawned,
		StageDone: s.stage.Done(),
	}
	st.Summoned, st.Fired = s.commands.Summoned()
	ecs.ForEach(s.world, component.EnemyComponent.Kind(), func(ecs.Entity, *component.Enemy) { st.Enemies++ })
	ecs.ForEach(s.world, component.BulletComponent.Kind(), func(ecs.Entity, *component.Bullet) { st.Bullets++ })
	return st
}

func (st Stats) String() string {
	return fmt.Sprintf("tick %d  entities %d  enemies %d  bullets %d  summoned %d/%d  faults %d  despawned %d",
		st.Tick, st.Entities, st.Enemies, st.Bullets, st.Summoned, st.Fired, st.Faults, st.Despawned)
}
