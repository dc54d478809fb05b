package component

// TTL is a simple frame-based time-to-live component. The entity is
// destroyed once Frames counts down to zero.
type TTL struct {
	// Frames remaining for the TTL (in update ticks)
	Frames int
}

var TTLComponent = NewComponent[TTL]()
