package main

import (
	"context"
	"fmt"
	"image/color"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/danmaku/config"
	"github.com/milk9111/danmaku/ecs"
	"github.com/milk9111/danmaku/ecs/component"
	"github.com/milk9111/danmaku/prefabs"
	"github.com/milk9111/danmaku/script"
	"github.com/milk9111/danmaku/sim"
)

var (
	enemyColor  = color.RGBA{R: 0xff, G: 0x60, B: 0x60, A: 0xff}
	bulletColor = color.RGBA{R: 0xff, G: 0xff, B: 0x80, A: 0xff}
	playerColor = color.RGBA{R: 0x60, G: 0xc0, B: 0xff, A: 0xff}
)

type Game struct {
	cfg     config.Config
	debug   bool
	scripts *script.Manager
	sim     *sim.Sim
	watcher *prefabs.Watcher
	reload  chan []*script.ScriptDesc
}

func NewGame(cfg config.Config, debug bool) (*Game, error) {
	descs, err := prefabs.LoadScripts(context.Background(), cfg.ScriptsDir)
	if err != nil {
		return nil, err
	}
	m := script.NewManager()
	if err := m.Register(descs...); err != nil {
		return nil, err
	}
	g := &Game{cfg: cfg, debug: debug, scripts: m, reload: make(chan []*script.ScriptDesc, 1)}
	if err := g.restart(); err != nil {
		return nil, err
	}

	if cfg.HotReload {
		dirs := []string{"prefabs"}
		if cfg.ScriptsDir != "" {
			dirs = append(dirs, cfg.ScriptsDir)
		}
		w, err := prefabs.NewWatcher(dirs...)
		if err != nil {
			log.Warn("hot reload disabled", "err", err)
		} else {
			g.watcher = w
			go g.watch()
		}
	}
	return g, nil
}

func (g *Game) restart() error {
	stage, err := prefabs.LoadStage(g.cfg.Stage)
	if err != nil {
		return err
	}
	s, err := sim.New(g.cfg, g.scripts, stage)
	if err != nil {
		return err
	}
	g.sim = s
	log.Info("stage started", "stage", stage.Name, "spawns", len(stage.Spawns))
	return nil
}

// watch recompiles scripts off the game loop. Stage edits restart the stage
// on the next Update.
func (g *Game) watch() {
	for {
		select {
		case c, ok := <-g.watcher.Events:
			if !ok {
				return
			}
			if c.Kind == prefabs.FileStage {
				select {
				case g.reload <- nil:
				default:
				}
				continue
			}
			descs, err := prefabs.LoadScripts(context.Background(), g.cfg.ScriptsDir)
			if err != nil {
				log.Error("script reload failed", "path", c.Path, "err", err)
				continue
			}
			select {
			case g.reload <- descs:
			default:
			}
		case err, ok := <-g.watcher.Errors:
			if !ok {
				return
			}
			log.Warn("watcher", "err", err)
		}
	}
}

func (g *Game) Update() error {
	select {
	case descs := <-g.reload:
		if descs == nil {
			if err := g.restart(); err != nil {
				log.Error("stage reload failed", "err", err)
			}
			break
		}
		if err := g.scripts.Replace(descs...); err != nil {
			log.Error("script reload rejected", "err", err)
		} else {
			log.Info("scripts reloaded", "count", len(descs))
		}
	default:
	}

	g.sim.Step()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	w := g.sim.World()
	h := int(g.cfg.Arena.Height)
	plot := func(t *component.Transform, c color.Color) {
		x, y := int(t.X), h-int(t.Y)
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				screen.Set(x+dx, y+dy, c)
			}
		}
	}
	ecs.ForEach2(w, component.EnemyComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, _ *component.Enemy, t *component.Transform) {
		plot(t, enemyColor)
	})
	ecs.ForEach2(w, component.BulletComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, _ *component.Bullet, t *component.Transform) {
		plot(t, bulletColor)
	})
	if t, ok := ecs.Get(w, g.sim.Player(), component.TransformComponent.Kind()); ok {
		plot(t, playerColor)
	}

	msg := fmt.Sprintf("TPS: %.0f", ebiten.ActualTPS())
	if g.debug {
		msg += "\n" + g.sim.Stats().String()
	}
	ebitenutil.DebugPrint(screen, msg)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(g.cfg.Arena.Width), int(g.cfg.Arena.Height)
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}
