package asm

import (
	"testing"

	"github.com/milk9111/danmaku/script"
)

const ringSrc = `
fmt := import("fmt")

emit(".script ring")
emit(".func tick")
for i := 0; i < 12; i++ {
	emit(fmt.sprintf("summon_bullet \"rice\" self.x self.y 0 %d circle(4) \"straight\" 3", i*30))
}
emit(".end")
emit(".script straight")
emit(".args", "1")
emit(".func tick")
emit(".end")
`

func TestGenerateRing(t *testing.T) {
	unit, err := Generate("ring.tengo", []byte(ringSrc))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	descs, err := Link(unit)
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	m := script.NewManager()
	if err := m.Register(descs...); err != nil {
		t.Fatal(err)
	}
	sc, err := m.Instantiate("ring", nil)
	if err != nil {
		t.Fatal(err)
	}
	game := script.NewGameData(m, nil)
	if _, _, err := sc.TickFunction(game, &script.Temp{Self: &script.Vec3{}}); err != nil {
		t.Fatal(err)
	}
	cmds := game.Commands.Drain()
	if len(cmds) != 12 {
		t.Fatalf("expected 12 bullets, got %d", len(cmds))
	}
	for i, c := range cmds {
		b := c.(script.SummonBullet)
		if b.Angle != float32(i*30) {
			t.Fatalf("bullet %d: angle %v", i, b.Angle)
		}
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"compile", "emit("},
		{"runtime", `x := undefined_fn()`},
		{"non_string", `emit([1, 2])`},
		{"bad_asm", `emit(".func tick")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Generate("bad.tengo", []byte(tt.src)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
