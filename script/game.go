package script

// Vec3 is a translation as the host stores it.
type Vec3 struct {
	X, Y, Z float32
}

func (v Vec3) axis(i int) float32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func (v Vec3) withAxis(i int, value float32) Vec3 {
	switch i {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	default:
		v.Z = value
	}
	return v
}

// CalcStack is the scratch stack shared by every function run in one pass.
// Scripts are expected to leave it as they found it.
type CalcStack struct {
	values []float32
}

func (s *CalcStack) Push(v float32) {
	s.values = append(s.values, v)
}

// Pop removes the top value. ok is false when the stack is empty.
func (s *CalcStack) Pop() (v float32, ok bool) {
	n := len(s.values)
	if n == 0 {
		return 0, false
	}
	v = s.values[n-1]
	s.values = s.values[:n-1]
	return v, true
}

// Top returns a pointer to the top value, or nil when empty.
func (s *CalcStack) Top() *float32 {
	if len(s.values) == 0 {
		return nil
	}
	return &s.values[len(s.values)-1]
}

func (s *CalcStack) Len() int {
	return len(s.values)
}

// Values returns a copy of the stack, bottom first.
func (s *CalcStack) Values() []float32 {
	return append([]float32(nil), s.values...)
}

func (s *CalcStack) Reset() {
	s.values = s.values[:0]
}

// Registry answers how many arguments a named AI script declares.
type Registry interface {
	DataCount(name string) (int, bool)
}

// GameData is the simulation state shared by every script run in a pass.
type GameData struct {
	Calc     *CalcStack
	Commands *CommandQueue
	// Player is optional. Scripts replace it wholesale on write.
	Player  *Vec3
	Scripts Registry
}

// NewGameData returns game data with an empty stack and queue.
func NewGameData(scripts Registry, player *Vec3) *GameData {
	return &GameData{
		Calc:     &CalcStack{},
		Commands: &CommandQueue{},
		Player:   player,
		Scripts:  scripts,
	}
}

// FieldAccess reads and writes the host-owned transform fields a script can
// address. ok is false when the addressed transform is not available.
type FieldAccess interface {
	ReadField(f EngineField) (v float32, ok bool)
	WriteField(f EngineField, v float32) (ok bool)
}

// Temp is the per-call state supplied by the caller and not retained.
type Temp struct {
	// Self is the invoking entity's translation, if it has one.
	Self *Vec3
	// Fields overrides the default transform access built from Self and the
	// game's player transform.
	Fields FieldAccess
}

func (t *Temp) fields(game *GameData) FieldAccess {
	if t != nil && t.Fields != nil {
		return t.Fields
	}
	tf := transformFields{game: game}
	if t != nil {
		tf.self = t.Self
	}
	return tf
}

type transformFields struct {
	self *Vec3
	game *GameData
}

func (t transformFields) ReadField(f EngineField) (float32, bool) {
	if f.Player() {
		if t.game == nil || t.game.Player == nil {
			return 0, false
		}
		return t.game.Player.axis(f.Axis()), true
	}
	if t.self == nil {
		return 0, false
	}
	return t.self.axis(f.Axis()), true
}

func (t transformFields) WriteField(f EngineField, v float32) bool {
	if f.Player() {
		if t.game == nil || t.game.Player == nil {
			return false
		}
		next := t.game.Player.withAxis(f.Axis(), v)
		t.game.Player = &next
		return true
	}
	if t.self == nil {
		return false
	}
	*t.self = t.self.withAxis(f.Axis(), v)
	return true
}
