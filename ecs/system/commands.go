package system

import (
	"github.com/milk9111/danmaku/ecs"
	"github.com/milk9111/danmaku/script"
)

// Issued is a script command with the entity whose script emitted it. Source
// is zero for commands that come from the stage schedule.
type Issued struct {
	Source ecs.Entity
	Cmd    script.Command
	// TTL, when positive, limits the lifetime of a summoned entity.
	TTL int
}

// CommandBuffer carries commands from the systems that emit them to
// CommandSystem within one tick.
type CommandBuffer struct {
	items []Issued
}

func NewCommandBuffer() *CommandBuffer {
	return &CommandBuffer{}
}

func (b *CommandBuffer) Push(source ecs.Entity, cmd script.Command) {
	b.items = append(b.items, Issued{Source: source, Cmd: cmd})
}

func (b *CommandBuffer) PushIssued(i Issued) {
	b.items = append(b.items, i)
}

func (b *CommandBuffer) Len() int {
	return len(b.items)
}

// Drain returns the buffered commands in emission order and clears the
// buffer.
func (b *CommandBuffer) Drain() []Issued {
	out := b.items
	b.items = nil
	return out
}
