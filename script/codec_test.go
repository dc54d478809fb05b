package script

import (
	"bytes"
	"path/filepath"
	"reflect"
	"testing"
)

func sampleScripts() []*ScriptDesc {
	return []*ScriptDesc{
		NewScriptDesc("fairy", 2, map[string]*FunctionDesc{
			TickFunction: {Code: code(OpLoop, OpMoveUp, lit(-1), OpYield, OpRepeat), MaxStack: 1, LoopExit: []int{9}},
			"spawn":      {Code: code(OpNop)},
		}),
		NewScriptDesc("straight", 0, map[string]*FunctionDesc{}),
	}
}

func TestEncodeDecodeScripts(t *testing.T) {
	var buf bytes.Buffer
	in := sampleScripts()
	if err := EncodeScripts(&buf, in); err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodeScripts(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d scripts, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i].Name != in[i].Name || out[i].DataCount != in[i].DataCount {
			t.Fatalf("script %d: got %s/%d", i, out[i].Name, out[i].DataCount)
		}
		if len(out[i].Functions) != len(in[i].Functions) {
			t.Fatalf("script %s: function count %d", out[i].Name, len(out[i].Functions))
		}
		for name, fn := range in[i].Functions {
			got := out[i].Functions[name]
			if got == nil || !bytes.Equal(got.Code, fn.Code) || got.MaxStack != fn.MaxStack || !reflect.DeepEqual(got.LoopExit, fn.LoopExit) {
				t.Fatalf("script %s func %s: got %+v want %+v", out[i].Name, name, got, fn)
			}
		}
	}
	if _, ok := out[0].FunctionID("spawn"); !ok {
		t.Fatal("decoded script should resolve function ids")
	}
}

func TestEncodeIsStable(t *testing.T) {
	var a, b bytes.Buffer
	if err := EncodeScripts(&a, sampleScripts()); err != nil {
		t.Fatal(err)
	}
	if err := EncodeScripts(&b, sampleScripts()); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatal("encoding the same scripts twice should give the same bytes")
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad_magic", []byte("NOPE\x80")},
		{"bad_body", append([]byte("STGC"), 0xc1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeScripts(bytes.NewReader(tt.data)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "scripts.stgc")
	if err := WriteFile(path, sampleScripts()); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(out) != 2 || out[0].Name != "fairy" {
		t.Fatalf("unexpected scripts %v", out)
	}
}
