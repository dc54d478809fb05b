package asm

import (
	"encoding/binary"
	"fmt"
	"math"

	"fortio.org/safecast"
	"github.com/milk9111/danmaku/script"
)

// Operand is one encoded float operand or store destination.
type Operand struct {
	Source script.Source
	// Value is used by literals.
	Value float32
	// Index is the engine field, data index or local index.
	Index byte
}

func Lit(v float32) Operand { return Operand{Source: script.SourceLiteral, Value: v} }

func Field(f script.EngineField) Operand { return Operand{Source: script.SourceField, Index: byte(f)} }

func Data(i byte) Operand { return Operand{Source: script.SourceData, Index: i} }

func Local(i byte) Operand { return Operand{Source: script.SourceLocal, Index: i} }

func (o Operand) isLiteral() bool { return o.Source == script.SourceLiteral }

// Builder encodes one function body. The first error sticks and is returned
// by Function.
type Builder struct {
	code  []byte
	open  []int
	exits []int
	err   error
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Len returns the current code length, which is the offset of the next
// instruction.
func (b *Builder) Len() int {
	return len(b.code)
}

// Err returns the first encoding error.
func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) fail(format string, args ...any) *Builder {
	if b.err == nil {
		b.err = fmt.Errorf(format, args...)
	}
	return b
}

// Op appends a bare opcode.
func (b *Builder) Op(op script.Op) *Builder {
	b.code = append(b.code, byte(op))
	return b
}

// Loop opens a loop.
func (b *Builder) Loop() *Builder {
	b.Op(script.OpLoop)
	b.open = append(b.open, len(b.code))
	return b
}

// Repeat closes the innermost open loop and records its exit. Without an
// open loop it encodes a plain end of function.
func (b *Builder) Repeat() *Builder {
	b.Op(script.OpRepeat)
	if n := len(b.open); n > 0 {
		b.open = b.open[:n-1]
		b.exits = append(b.exits, len(b.code))
	}
	return b
}

// Operand appends a float operand.
func (b *Builder) Operand(o Operand) *Builder {
	b.code = append(b.code, byte(o.Source))
	switch o.Source {
	case script.SourceLiteral:
		b.code = binary.BigEndian.AppendUint32(b.code, math.Float32bits(o.Value))
	case script.SourceField:
		if !script.EngineField(o.Index).Valid() {
			return b.fail("unknown engine field %d", o.Index)
		}
		b.code = append(b.code, o.Index)
	case script.SourceData, script.SourceLocal:
		b.code = append(b.code, o.Index)
	default:
		return b.fail("unknown operand source %d", byte(o.Source))
	}
	return b
}

// Dest appends a store destination.
func (b *Builder) Dest(o Operand) *Builder {
	if o.isLiteral() {
		return b.fail("cannot store into a literal")
	}
	return b.Operand(o)
}

// Str appends a length-prefixed string.
func (b *Builder) Str(s string) *Builder {
	n, err := safecast.Conv[uint16](len(s))
	if err != nil {
		return b.fail("string too long (%d bytes): %w", len(s), err)
	}
	b.code = binary.BigEndian.AppendUint16(b.code, n)
	b.code = append(b.code, s...)
	return b
}

// Collide appends a collision descriptor whose arguments are operands.
func (b *Builder) Collide(kind script.CollideKind, args ...Operand) *Builder {
	n, ok := kind.Arity()
	if !ok {
		return b.fail("unknown collide kind %d", byte(kind))
	}
	if len(args) != n {
		return b.fail("collide %s takes %d args, got %d", kind, n, len(args))
	}
	b.code = append(b.code, byte(kind))
	for _, a := range args {
		b.Operand(a)
	}
	return b
}

func (b *Builder) Push(o Operand) *Builder { return b.Op(script.OpPush).Operand(o) }
func (b *Builder) Store(o Operand) *Builder { return b.Op(script.OpStore).Dest(o) }
func (b *Builder) Break(o Operand) *Builder { return b.Op(script.OpBreak).Operand(o) }
func (b *Builder) MoveUp(o Operand) *Builder { return b.Op(script.OpMoveUp).Operand(o) }
func (b *Builder) Yield() *Builder { return b.Op(script.OpYield) }

// Function finishes the body.
func (b *Builder) Function(maxStack int) (*script.FunctionDesc, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.open) > 0 {
		return nil, fmt.Errorf("%d loop(s) not closed", len(b.open))
	}
	fn := &script.FunctionDesc{
		Code:     append([]byte(nil), b.code...),
		MaxStack: maxStack,
		LoopExit: append([]int(nil), b.exits...),
	}
	// Inner loops close first, so exits are already ascending.
	if err := fn.Validate(); err != nil {
		return nil, err
	}
	return fn, nil
}

// SummonEnemy encodes a summon_enemy. args must match the count the AI
// script declares; Link checks this across units.
func (b *Builder) SummonEnemy(name string, x, y, hp Operand, kind script.CollideKind, collide []Operand, ai string, args ...Operand) *Builder {
	b.Op(script.OpSummonEnemy).Str(name)
	b.Operand(x).Operand(y).Operand(hp)
	b.Collide(kind, collide...).Str(ai)
	for _, a := range args {
		b.Operand(a)
	}
	return b
}

// SummonBullet encodes a summon_bullet.
func (b *Builder) SummonBullet(name string, x, y, z, angle Operand, kind script.CollideKind, collide []Operand, ai string, args ...Operand) *Builder {
	b.Op(script.OpSummonBullet).Str(name)
	b.Operand(x).Operand(y).Operand(z).Operand(angle)
	b.Collide(kind, collide...).Str(ai)
	for _, a := range args {
		b.Operand(a)
	}
	return b
}
