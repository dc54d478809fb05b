package component

import "github.com/milk9111/danmaku/script"

// Script is an entity's behavior script instance.
type Script struct {
	Ctx *script.ScriptContext
	// Disabled is set once the script faults. The entity keeps living but its
	// script no longer runs.
	Disabled bool
}

var ScriptComponent = NewComponent[Script]()

// ScriptCall queues named functions to run on the entity's script before
// its next tick, such as "spawn" right after it is summoned.
type ScriptCall struct {
	Pending []string
}

// Call appends a function name.
func (c *ScriptCall) Call(name string) {
	c.Pending = append(c.Pending, name)
}

// Take returns the queued names and clears the queue.
func (c *ScriptCall) Take() []string {
	out := c.Pending
	c.Pending = nil
	return out
}

var ScriptCallComponent = NewComponent[ScriptCall]()
