package script

import (
	"fmt"
	"sort"
)

// TickFunction is the reserved function run once per simulation frame.
const TickFunction = "tick"

// FunctionDesc is the compiled body of one function. It is shared by every
// running instance of its script and must not be modified after loading.
type FunctionDesc struct {
	Code     []byte `msgpack:"code"`
	MaxStack int    `msgpack:"max_stack"`
	// LoopExit holds the offsets just past each loop, ascending.
	LoopExit []int `msgpack:"loop_exit"`
}

// Validate checks the descriptor metadata. It does not decode the code stream.
func (f *FunctionDesc) Validate() error {
	if f == nil {
		return fmt.Errorf("nil function")
	}
	if f.MaxStack < 0 || f.MaxStack > 256 {
		return fmt.Errorf("max stack %d out of range", f.MaxStack)
	}
	for i, off := range f.LoopExit {
		if off < 0 || off > len(f.Code) {
			return fmt.Errorf("loop exit %d out of code range", off)
		}
		if i > 0 && off <= f.LoopExit[i-1] {
			return fmt.Errorf("loop exits not ascending at %d", i)
		}
	}
	return nil
}

// nextExit returns the first loop exit strictly after pointer.
func (f *FunctionDesc) nextExit(pointer int) (int, bool) {
	i := sort.SearchInts(f.LoopExit, pointer+1)
	if i >= len(f.LoopExit) {
		return 0, false
	}
	return f.LoopExit[i], true
}

// ScriptDesc is one compiled behavior script.
type ScriptDesc struct {
	Name string `msgpack:"name"`
	// DataCount is the number of arguments a spawner must supply.
	DataCount int                      `msgpack:"data_count"`
	Functions map[string]*FunctionDesc `msgpack:"functions"`

	ids   map[string]int
	order []string
}

// NewScriptDesc builds a descriptor and resolves function ids.
func NewScriptDesc(name string, dataCount int, functions map[string]*FunctionDesc) *ScriptDesc {
	d := &ScriptDesc{Name: name, DataCount: dataCount, Functions: functions}
	d.index()
	return d
}

func (d *ScriptDesc) index() {
	d.order = make([]string, 0, len(d.Functions))
	for name := range d.Functions {
		d.order = append(d.order, name)
	}
	sort.Strings(d.order)
	d.ids = make(map[string]int, len(d.order))
	for i, name := range d.order {
		d.ids[name] = i
	}
}

// FunctionID resolves a function name to its arena index.
func (d *ScriptDesc) FunctionID(name string) (int, bool) {
	if d.ids == nil {
		d.index()
	}
	id, ok := d.ids[name]
	return id, ok
}

// FunctionNames returns the function names in id order.
func (d *ScriptDesc) FunctionNames() []string {
	if d.ids == nil {
		d.index()
	}
	return append([]string(nil), d.order...)
}

func (d *ScriptDesc) functionAt(id int) (string, *FunctionDesc, bool) {
	if d.ids == nil {
		d.index()
	}
	if id < 0 || id >= len(d.order) {
		return "", nil, false
	}
	name := d.order[id]
	return name, d.Functions[name], true
}

// Has reports whether the script defines name.
func (d *ScriptDesc) Has(name string) bool {
	_, ok := d.Functions[name]
	return ok
}

// Validate checks every function of the script.
func (d *ScriptDesc) Validate() error {
	if d == nil {
		return fmt.Errorf("nil script")
	}
	if d.Name == "" {
		return fmt.Errorf("script has no name")
	}
	if d.DataCount < 0 || d.DataCount > 256 {
		return fmt.Errorf("script %s: data count %d out of range", d.Name, d.DataCount)
	}
	for name, fn := range d.Functions {
		if err := fn.Validate(); err != nil {
			return fmt.Errorf("script %s: func %s: %w", d.Name, name, err)
		}
	}
	return nil
}
