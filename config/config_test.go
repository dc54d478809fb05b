package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/danmaku/script"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "danmaku.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		check   func(t *testing.T, c Config)
	}{
		{
			name: "defaults_fill_gaps",
			body: "tps = 30\n",
			check: func(t *testing.T, c Config) {
				if c.TPS != 30 || c.Stage != "stage1" || c.Arena.Width != 384 {
					t.Fatalf("unexpected config %+v", c)
				}
			},
		},
		{
			name: "full",
			body: `
tps = 120
mode = "trusted"
log-level = "debug"
scripts-dir = "content/scripts"
stage = "boss"
hot-reload = true

[arena]
width = 640
height = 480
margin = 0
`,
			check: func(t *testing.T, c Config) {
				if c.ScriptMode() != script.Trusted || !c.HotReload || c.ScriptsDir != "content/scripts" {
					t.Fatalf("unexpected config %+v", c)
				}
				if c.Arena != (Arena{Width: 640, Height: 480}) {
					t.Fatalf("unexpected arena %+v", c.Arena)
				}
			},
		},
		{name: "bad_toml", body: "tps = = 3", wantErr: true},
		{name: "bad_mode", body: `mode = "fast"`, wantErr: true},
		{name: "zero_tps", body: "tps = 0", wantErr: true},
		{name: "negative_margin", body: "[arena]\nmargin = -1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Load(writeConfig(t, tt.body))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", c)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			tt.check(t, c)
		})
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if c != Default() {
		t.Fatalf("expected defaults, got %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}
