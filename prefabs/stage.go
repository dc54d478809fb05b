package prefabs

import (
	"fmt"
	"sort"

	"github.com/milk9111/danmaku/asm"
	"github.com/milk9111/danmaku/script"
	"gopkg.in/yaml.v3"
)

// StageSpec is a stage's spawn schedule.
type StageSpec struct {
	Name   string      `yaml:"name"`
	Player PointSpec   `yaml:"player"`
	Spawns []SpawnSpec `yaml:"spawns"`
}

type PointSpec struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
}

// SpawnSpec summons one enemy at Frame ticks into the stage.
type SpawnSpec struct {
	Frame   int       `yaml:"frame"`
	Enemy   string    `yaml:"enemy"`
	AI      string    `yaml:"ai"`
	X       float32   `yaml:"x"`
	Y       float32   `yaml:"y"`
	HP      float32   `yaml:"hp"`
	Collide string    `yaml:"collide"`
	Args    []float32 `yaml:"args"`
	// TTL despawns the enemy after this many ticks. Zero keeps it until it
	// leaves the arena.
	TTL int `yaml:"ttl"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadStage loads and validates a stage by name. Spawns come back sorted by
// frame, keeping file order within a frame.
func LoadStage(name string) (*StageSpec, error) {
	spec, err := LoadSpec[StageSpec](name)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: stage %s: %w", name, err)
	}
	sort.SliceStable(spec.Spawns, func(i, j int) bool {
		return spec.Spawns[i].Frame < spec.Spawns[j].Frame
	})
	return &spec, nil
}

// Validate checks frames, AI names and collide shapes.
func (s *StageSpec) Validate() error {
	for i, sp := range s.Spawns {
		if sp.Frame < 0 {
			return fmt.Errorf("spawn %d: negative frame %d", i, sp.Frame)
		}
		if sp.AI == "" {
			return fmt.Errorf("spawn %d: missing ai", i)
		}
		if sp.TTL < 0 {
			return fmt.Errorf("spawn %d: negative ttl %d", i, sp.TTL)
		}
		if _, err := sp.Shape(); err != nil {
			return fmt.Errorf("spawn %d: %w", i, err)
		}
	}
	return nil
}

// Check verifies every spawn against the loaded scripts.
func (s *StageSpec) Check(reg script.Registry) error {
	for i, sp := range s.Spawns {
		n, ok := reg.DataCount(sp.AI)
		if !ok {
			return fmt.Errorf("spawn %d: unknown ai script %q", i, sp.AI)
		}
		if len(sp.Args) != n {
			return fmt.Errorf("spawn %d: %s takes %d args, got %d", i, sp.AI, n, len(sp.Args))
		}
	}
	return nil
}

// Shape parses Collide. An empty value means no shape. Arguments must be
// literals.
func (sp SpawnSpec) Shape() (script.Collide, error) {
	if sp.Collide == "" {
		return script.Collide{Kind: script.CollideNone}, nil
	}
	kind, ops, err := asm.ParseCollide(sp.Collide)
	if err != nil {
		return script.Collide{}, err
	}
	args := make([]float32, len(ops))
	for i, o := range ops {
		if o.Source != script.SourceLiteral {
			return script.Collide{}, fmt.Errorf("collide %q: only literal sizes are allowed", sp.Collide)
		}
		args[i] = o.Value
	}
	return script.NewCollide(kind, args)
}

// Summon is the command that spawns sp.
func (sp SpawnSpec) Summon() (script.SummonEnemy, error) {
	shape, err := sp.Shape()
	if err != nil {
		return script.SummonEnemy{}, err
	}
	return script.SummonEnemy{
		Name:    sp.Enemy,
		X:       sp.X,
		Y:       sp.Y,
		HP:      sp.HP,
		Collide: shape,
		AI:      sp.AI,
		Args:    append([]float32(nil), sp.Args...),
	}, nil
}
