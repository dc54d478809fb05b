package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--color", "off", "--config", filepath.Join(t.TempDir(), "none.toml")}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

const sampleSrc = `.script drifter
.args 1
.func tick
    loop
        move_up data[0]
        yield
    repeat
.end
`

func TestAsmThenDisasm(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "drifter.stg")
	if err := os.WriteFile(src, []byte(sampleSrc), 0o644); err != nil {
		t.Fatal(err)
	}
	artifact := filepath.Join(dir, "out.stgc")

	out, err := execute(t, "asm", "-o", artifact, src)
	if err != nil {
		t.Fatalf("asm: %v\n%s", err, out)
	}
	if !strings.Contains(out, "wrote 1 scripts") {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = execute(t, "disasm", artifact)
	if err != nil {
		t.Fatalf("disasm: %v", err)
	}
	for _, want := range []string{".script drifter", ".args 1", "move_up data[0]", "repeat"} {
		if !strings.Contains(out, want) {
			t.Fatalf("listing missing %q:\n%s", want, out)
		}
	}
}

func TestRunEmbeddedStage(t *testing.T) {
	out, err := execute(t, "run", "--ticks", "120", "--every", "60")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	if !strings.Contains(out, "stage stage1:") || !strings.Contains(out, "tick 120") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "script faults") {
		t.Fatalf("embedded stage faulted:\n%s", out)
	}
}

func TestRunRejectsBadMode(t *testing.T) {
	if _, err := execute(t, "run", "--mode", "fast", "--ticks", "1"); err == nil {
		t.Fatal("expected error")
	}
}
