package script

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

var artifactMagic = []byte("STGC")

const artifactVersion = 1

type artifact struct {
	Version int           `msgpack:"version"`
	Scripts []*ScriptDesc `msgpack:"scripts"`
}

// EncodeScripts writes a compiled script set.
func EncodeScripts(w io.Writer, descs []*ScriptDesc) error {
	if _, err := w.Write(artifactMagic); err != nil {
		return err
	}
	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)
	return enc.Encode(&artifact{Version: artifactVersion, Scripts: descs})
}

// DecodeScripts reads a compiled script set and validates every script.
func DecodeScripts(r io.Reader) ([]*ScriptDesc, error) {
	br := bufio.NewReader(r)
	magic := make([]byte, len(artifactMagic))
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, fmt.Errorf("script: read header: %w", err)
	}
	if !bytes.Equal(magic, artifactMagic) {
		return nil, errors.New("script: not a compiled script file")
	}
	var a artifact
	if err := msgpack.NewDecoder(br).Decode(&a); err != nil {
		return nil, fmt.Errorf("script: decode: %w", err)
	}
	if a.Version != artifactVersion {
		return nil, fmt.Errorf("script: unsupported artifact version %d", a.Version)
	}
	for _, d := range a.Scripts {
		if d.Functions == nil {
			d.Functions = map[string]*FunctionDesc{}
		}
		if err := d.Validate(); err != nil {
			return nil, err
		}
		d.index()
	}
	return a.Scripts, nil
}

// WriteFile atomically replaces path with the encoded scripts.
func WriteFile(path string, descs []*ScriptDesc) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := EncodeScripts(f, descs); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// ReadFile loads a compiled script set from disk.
func ReadFile(path string) ([]*ScriptDesc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeScripts(f)
}
