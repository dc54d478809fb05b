package prefabs

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/milk9111/danmaku/asm"
	"github.com/milk9111/danmaku/script"
	"golang.org/x/sync/errgroup"
)

type scriptSource struct {
	fsys fs.FS
	name string
}

// LoadScripts assembles every script source of dir (or the embedded set when
// dir is empty) and links them together.
func LoadScripts(ctx context.Context, dir string) ([]*script.ScriptDesc, error) {
	return LoadScriptsFS(ctx, Scripts(dir))
}

// LoadScriptsFS assembles the .stg and .tengo files at the root of fsys.
// Units are linked in file name order so results do not depend on
// scheduling.
func LoadScriptsFS(ctx context.Context, fsys fs.FS) ([]*script.ScriptDesc, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("prefabs: list scripts: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && isScriptFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	sources := make([]scriptSource, len(names))
	for i, name := range names {
		sources[i] = scriptSource{fsys: fsys, name: name}
	}
	return compileAll(ctx, sources)
}

// CompileFiles assembles and links the given script files in argument
// order. A directory argument contributes its script files.
func CompileFiles(ctx context.Context, paths ...string) ([]*script.ScriptDesc, error) {
	var sources []scriptSource
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("prefabs: load %s: %w", p, err)
		}
		if !info.IsDir() {
			sources = append(sources, scriptSource{fsys: os.DirFS(filepath.Dir(p)), name: filepath.Base(p)})
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("prefabs: list %s: %w", p, err)
		}
		dir := os.DirFS(p)
		for _, e := range entries {
			if !e.IsDir() && isScriptFile(e.Name()) {
				sources = append(sources, scriptSource{fsys: dir, name: e.Name()})
			}
		}
	}
	return compileAll(ctx, sources)
}

func compileAll(ctx context.Context, sources []scriptSource) ([]*script.ScriptDesc, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("prefabs: no script sources found")
	}

	units := make([]*asm.Unit, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(runtime.GOMAXPROCS(0), len(sources)))
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			u, err := compileScript(src.fsys, src.name)
			if err != nil {
				return err
			}
			units[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	descs, err := asm.Link(units...)
	if err != nil {
		return nil, fmt.Errorf("prefabs: link scripts: %w", err)
	}
	return descs, nil
}

func compileScript(fsys fs.FS, name string) (*asm.Unit, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", name, err)
	}
	var u *asm.Unit
	switch strings.ToLower(path.Ext(name)) {
	case ".tengo":
		u, err = asm.Generate(name, data)
	default:
		u, err = asm.Assemble(name, string(data))
	}
	if err != nil {
		return nil, fmt.Errorf("prefabs: compile %s: %w", name, err)
	}
	return u, nil
}
