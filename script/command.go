package script

// Command is an effect emitted by a script and applied by the host once every
// script of the tick has run.
type Command interface {
	command()
}

// MoveUp moves the invoking entity along +Y.
type MoveUp struct {
	Dy float32
}

// SummonEnemy spawns an enemy running the AI script with Args as its data.
type SummonEnemy struct {
	Name    string
	X, Y    float32
	HP      float32
	Collide Collide
	AI      string
	Args    []float32
}

// SummonBullet spawns a bullet running the AI script with Args as its data.
type SummonBullet struct {
	Name    string
	X, Y, Z float32
	Angle   float32
	Collide Collide
	AI      string
	Args    []float32
}

func (MoveUp) command()       {}
func (SummonEnemy) command()  {}
func (SummonBullet) command() {}

// CommandQueue is an append-only FIFO of commands.
type CommandQueue struct {
	items []Command
}

// Push appends a command.
func (q *CommandQueue) Push(cmd Command) {
	if q == nil || cmd == nil {
		return
	}
	q.items = append(q.items, cmd)
}

// Len returns the number of queued commands.
func (q *CommandQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all commands and clears the queue.
func (q *CommandQueue) Drain() []Command {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
