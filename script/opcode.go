package script

import "fmt"

// Op is a single instruction byte.
type Op byte

const (
	OpRepeat       Op = 0
	OpLoop         Op = 1
	OpYield        Op = 2
	OpPush         Op = 3
	OpNop          Op = 4
	OpBreak        Op = 5
	OpMoveUp       Op = 10
	OpSummonEnemy  Op = 11
	OpSummonBullet Op = 12
	OpStore        Op = 20
	OpAdd          Op = 21
	OpSub          Op = 22
	OpMul          Op = 23
)

var opNames = map[Op]string{
	OpRepeat:       "repeat",
	OpLoop:         "loop",
	OpYield:        "yield",
	OpPush:         "push",
	OpNop:          "nop",
	OpBreak:        "break",
	OpMoveUp:       "move_up",
	OpSummonEnemy:  "summon_enemy",
	OpSummonBullet: "summon_bullet",
	OpStore:        "store",
	OpAdd:          "add",
	OpSub:          "sub",
	OpMul:          "mul",
}

// OpByName maps a mnemonic back to its opcode.
func OpByName(name string) (Op, bool) {
	for op, n := range opNames {
		if n == name {
			return op, true
		}
	}
	return 0, false
}

// Known reports whether op is part of the instruction set.
func (op Op) Known() bool {
	_, ok := opNames[op]
	return ok
}

func (op Op) String() string {
	if n, ok := opNames[op]; ok {
		return n
	}
	return fmt.Sprintf("op(%d)", byte(op))
}

// Source is the leading tag byte of an operand.
type Source byte

const (
	SourceLiteral Source = 0
	SourceField   Source = 1
	SourceData    Source = 2
	SourceLocal   Source = 3
)

func (s Source) String() string {
	switch s {
	case SourceLiteral:
		return "literal"
	case SourceField:
		return "field"
	case SourceData:
		return "data"
	case SourceLocal:
		return "var"
	default:
		return fmt.Sprintf("source(%d)", byte(s))
	}
}

// EngineField selects a transform component owned by the host.
type EngineField byte

const (
	FieldSelfX   EngineField = 0
	FieldSelfY   EngineField = 1
	FieldSelfZ   EngineField = 2
	FieldPlayerX EngineField = 3
	FieldPlayerY EngineField = 4
	FieldPlayerZ EngineField = 5
)

var fieldNames = [...]string{"self.x", "self.y", "self.z", "player.x", "player.y", "player.z"}

// FieldByName resolves names like "self.x" or "player.z".
func FieldByName(name string) (EngineField, bool) {
	for i, n := range fieldNames {
		if n == name {
			return EngineField(i), true
		}
	}
	return 0, false
}

// Valid reports whether f names a known field.
func (f EngineField) Valid() bool {
	return int(f) < len(fieldNames)
}

// Player reports whether f addresses the shared player transform.
func (f EngineField) Player() bool {
	return f >= FieldPlayerX && f <= FieldPlayerZ
}

// Axis returns 0, 1 or 2 for x, y, z.
func (f EngineField) Axis() int {
	return int(f) % 3
}

func (f EngineField) String() string {
	if f.Valid() {
		return fieldNames[f]
	}
	return fmt.Sprintf("field(%d)", byte(f))
}
