package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/milk9111/danmaku/script"
)

// Config is the game and CLI configuration, read from danmaku.toml.
type Config struct {
	TPS        int    `toml:"tps"`
	Mode       string `toml:"mode"`
	LogLevel   string `toml:"log-level"`
	NoColor    bool   `toml:"no-color"`
	ScriptsDir string `toml:"scripts-dir"`
	Stage      string `toml:"stage"`
	HotReload  bool   `toml:"hot-reload"`
	Arena      Arena  `toml:"arena"`
}

// Arena is the playfield. Entities whose bounds leave it grown by Margin are
// despawned.
type Arena struct {
	Width  float32 `toml:"width"`
	Height float32 `toml:"height"`
	Margin float32 `toml:"margin"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		TPS:      60,
		Mode:     script.Validating.String(),
		LogLevel: "info",
		Stage:    "stage1",
		Arena:    Arena{Width: 384, Height: 448, Margin: 32},
	}
}

// Load reads path over the defaults. An empty path or a missing file yields
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and enum values.
func (c Config) Validate() error {
	if c.TPS <= 0 {
		return fmt.Errorf("tps must be positive, got %d", c.TPS)
	}
	if _, ok := script.ParseMode(c.Mode); !ok {
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.Arena.Width <= 0 || c.Arena.Height <= 0 {
		return fmt.Errorf("arena must have a positive size, got %vx%v", c.Arena.Width, c.Arena.Height)
	}
	if c.Arena.Margin < 0 {
		return fmt.Errorf("arena margin must not be negative")
	}
	return nil
}

// ScriptMode returns the parsed execution mode.
func (c Config) ScriptMode() script.Mode {
	m, _ := script.ParseMode(c.Mode)
	return m
}
