package script

import "fmt"

// Mode selects how much the runner checks the compiled code it executes.
type Mode int

const (
	// Validating checks every index and string and reports violations as a
	// *Fault error.
	Validating Mode = iota
	// Trusted skips explicit checks and panics on violations. Use it only with
	// code produced and validated by the loader.
	Trusted
)

func (m Mode) String() string {
	if m == Trusted {
		return "trusted"
	}
	return "validating"
}

// ParseMode accepts "trusted" or "validating".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "trusted":
		return Trusted, true
	case "validating", "":
		return Validating, true
	}
	return Validating, false
}

// Option configures a ScriptContext.
type Option func(*ScriptContext)

// WithMode sets the execution mode.
func WithMode(m Mode) Option {
	return func(c *ScriptContext) {
		c.mode = m
	}
}

// FunctionContext is the resumable state of one function for one instance.
type FunctionContext struct {
	vars      []float32
	loopStart []int
	pointer   int
}

func newFunctionContext(maxStack int) *FunctionContext {
	return &FunctionContext{
		vars:      make([]float32, maxStack),
		loopStart: make([]int, 0, 2),
	}
}

func (c *FunctionContext) reset() {
	c.loopStart = c.loopStart[:0]
	c.pointer = 0
}

// Pointer returns the resume address.
func (c *FunctionContext) Pointer() int {
	return c.pointer
}

// LoopDepth returns the number of open loop marks.
func (c *FunctionContext) LoopDepth() int {
	return len(c.loopStart)
}

// Locals returns the local value stack. It is owned by the context.
func (c *FunctionContext) Locals() []float32 {
	return c.vars
}

// ScriptContext is one script bound to one entity.
type ScriptContext struct {
	desc *ScriptDesc
	data []float32
	mode Mode

	// contexts is indexed by function id and filled on first call.
	contexts []*FunctionContext
	tickDesc *FunctionDesc
	tick     *FunctionContext
}

// NewScriptContext binds desc to an owned data array.
func NewScriptContext(desc *ScriptDesc, data []float32, opts ...Option) *ScriptContext {
	c := &ScriptContext{
		desc:     desc,
		data:     data,
		contexts: make([]*FunctionContext, len(desc.Functions)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if fn, ok := desc.Functions[TickFunction]; ok {
		id, _ := desc.FunctionID(TickFunction)
		c.tickDesc = fn
		c.tick = newFunctionContext(fn.MaxStack)
		c.contexts[id] = c.tick
	}
	return c
}

// Desc returns the descriptor the instance was created from.
func (c *ScriptContext) Desc() *ScriptDesc {
	return c.desc
}

// Data returns the script data array.
func (c *ScriptContext) Data() []float32 {
	return c.data
}

// Mode returns the execution mode.
func (c *ScriptContext) Mode() Mode {
	return c.mode
}

// HasTick reports whether the script defines a tick function.
func (c *ScriptContext) HasTick() bool {
	return c.tick != nil
}

// Context returns the execution context of name if it was ever invoked.
func (c *ScriptContext) Context(name string) (*FunctionContext, bool) {
	id, ok := c.desc.FunctionID(name)
	if !ok || c.contexts[id] == nil {
		return nil, false
	}
	return c.contexts[id], true
}

// ExecuteFunction runs the named function until it yields or drains. The
// numeric result is reserved for function return values and is never set.
func (c *ScriptContext) ExecuteFunction(name string, game *GameData, temp *Temp) (float32, bool, error) {
	id, ok := c.desc.FunctionID(name)
	if !ok {
		return 0, false, c.abort(&Fault{Kind: FaultNoSuchFunction, Script: c.desc.Name, Function: name, Offset: -1})
	}
	return c.ExecuteID(id, game, temp)
}

// ExecuteID is ExecuteFunction with a pre-resolved function id.
func (c *ScriptContext) ExecuteID(id int, game *GameData, temp *Temp) (float32, bool, error) {
	name, fn, ok := c.desc.functionAt(id)
	if !ok {
		return 0, false, c.abort(&Fault{Kind: FaultNoSuchFunction, Script: c.desc.Name, Offset: -1, Detail: fmt.Sprintf("bad function id %d", id)})
	}
	ctx := c.contexts[id]
	if ctx == nil {
		ctx = newFunctionContext(fn.MaxStack)
		c.contexts[id] = ctx
	}
	return c.run(name, fn, ctx, game, temp)
}

// TickFunction runs the reserved tick function.
func (c *ScriptContext) TickFunction(game *GameData, temp *Temp) (float32, bool, error) {
	if c.tick == nil {
		return 0, false, c.abort(&Fault{Kind: FaultNoTick, Script: c.desc.Name, Function: TickFunction, Offset: -1})
	}
	return c.run(TickFunction, c.tickDesc, c.tick, game, temp)
}

func (c *ScriptContext) run(name string, fn *FunctionDesc, ctx *FunctionContext, game *GameData, temp *Temp) (float32, bool, error) {
	r := &runner{
		script:   c.desc.Name,
		function: name,
		data:     c.data,
		desc:     fn,
		game:     game,
		ctx:      ctx,
		fields:   temp.fields(game),
		checked:  c.mode == Validating,
	}
	v, ok, err := r.execute()
	if err != nil {
		return 0, false, c.abort(err)
	}
	return v, ok, nil
}

func (c *ScriptContext) abort(f *Fault) error {
	if c.mode == Trusted {
		panic(f)
	}
	return f
}
