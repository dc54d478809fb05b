package ecs

// EventType names an event kind.
type EventType string

const (
	// EventScriptFault carries a ScriptFault.
	EventScriptFault EventType = "script_fault"
	// EventDespawn carries a Despawn.
	EventDespawn EventType = "despawn"
)

// Event is a generic ECS event payload.
type Event struct {
	Type EventType
	Data any
}

// ScriptFault is pushed when an entity's script stops on a fault.
type ScriptFault struct {
	Entity Entity
	Script string
	Err    error
}

// Despawn is pushed when a system removes an entity on its own.
type Despawn struct {
	Entity Entity
	Reason string
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
