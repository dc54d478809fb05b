package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/danmaku/config"
	"github.com/milk9111/danmaku/logger"
)

func main() {
	configPath := flag.String("config", "danmaku.toml", "path to the TOML config")
	stageName := flag.String("stage", "", "stage name in prefabs/ (basename, .yaml optional)")
	debug := flag.Bool("debug", false, "enable debug logging and the stats overlay")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Init("info", false)
		log.Fatal("config", "err", err)
	}
	if *stageName != "" {
		cfg.Stage = *stageName
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	logger.Init(cfg.LogLevel, cfg.NoColor)

	game, err := NewGame(cfg, *debug)
	if err != nil {
		log.Error("start", "err", err)
		os.Exit(1)
	}
	defer game.Close()

	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(int(cfg.Arena.Width)*2, int(cfg.Arena.Height)*2)
	ebiten.SetWindowTitle("danmaku")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal("run", "err", err)
	}
}
