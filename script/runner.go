package script

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// runner interprets one function body against one execution context. It is
// built fresh for every call and never shared.
type runner struct {
	script   string
	function string

	data   []float32
	desc   *FunctionDesc
	game   *GameData
	ctx    *FunctionContext
	fields FieldAccess

	// checked enables explicit bounds and utf-8 checks.
	checked bool

	at int
	op Op
}

func (r *runner) execute() (v float32, ok bool, fault *Fault) {
	defer func() {
		if rec := recover(); rec != nil {
			f, isFault := rec.(*Fault)
			if !isFault {
				panic(rec)
			}
			r.ctx.pointer = r.at
			fault = f
		}
	}()

	code := r.desc.Code
	ctx := r.ctx
	for {
		if ctx.pointer >= len(code) {
			ctx.reset()
			return 0, false, nil
		}
		r.at = ctx.pointer
		r.op = Op(code[ctx.pointer])
		ctx.pointer++

		switch r.op {
		case OpRepeat:
			if n := len(ctx.loopStart); n > 0 {
				ctx.pointer = ctx.loopStart[n-1]
			} else {
				ctx.reset()
				return 0, false, nil
			}
		case OpLoop:
			ctx.loopStart = append(ctx.loopStart, ctx.pointer)
		case OpYield:
			// Resuming at end of code would only reset.
			if ctx.pointer >= len(code) {
				ctx.reset()
			}
			return 0, false, nil
		case OpPush:
			r.game.Calc.Push(r.getF32())
		case OpNop:
		case OpBreak:
			r.breakLoops(r.getF32())
		case OpMoveUp:
			r.game.Commands.Push(MoveUp{Dy: r.getF32()})
		case OpSummonEnemy:
			cmd := SummonEnemy{Name: r.getStr()}
			cmd.X = r.getF32()
			cmd.Y = r.getF32()
			cmd.HP = r.getF32()
			cmd.Collide = r.getCollide()
			cmd.AI = r.getStr()
			cmd.Args = r.getArgs(cmd.AI)
			r.game.Commands.Push(cmd)
		case OpSummonBullet:
			cmd := SummonBullet{Name: r.getStr()}
			cmd.X = r.getF32()
			cmd.Y = r.getF32()
			cmd.Z = r.getF32()
			cmd.Angle = r.getF32()
			cmd.Collide = r.getCollide()
			cmd.AI = r.getStr()
			cmd.Args = r.getArgs(cmd.AI)
			r.game.Commands.Push(cmd)
		case OpStore:
			r.storeF32(r.pop())
		case OpAdd, OpSub, OpMul:
			x := r.pop()
			top := r.game.Calc.Top()
			if top == nil {
				r.fail(FaultStackUnderflow, "")
			}
			switch r.op {
			case OpAdd:
				*top += x
			case OpSub:
				*top -= x
			default:
				*top *= x
			}
		default:
			r.fail(FaultUnknownOp, fmt.Sprintf("byte %d", byte(r.op)))
		}
	}
}

// breakLoops pops up to times loop marks, moving past the next loop exit for
// each one.
func (r *runner) breakLoops(times float32) {
	if !(times >= 1) {
		return
	}
	n := math.Floor(float64(times))
	ctx := r.ctx
	for i := 0.0; i < n; i++ {
		depth := len(ctx.loopStart)
		if depth == 0 {
			return
		}
		ctx.loopStart = ctx.loopStart[:depth-1]
		if exit, ok := r.desc.nextExit(ctx.pointer); ok {
			ctx.pointer = exit
		}
	}
}

func (r *runner) fail(kind FaultKind, detail string) {
	panic(&Fault{
		Kind:     kind,
		Script:   r.script,
		Function: r.function,
		Offset:   r.at,
		Op:       r.op,
		Detail:   detail,
	})
}

func (r *runner) pop() float32 {
	v, ok := r.game.Calc.Pop()
	if !ok {
		r.fail(FaultStackUnderflow, "")
	}
	return v
}

func (r *runner) readByte() byte {
	p := r.ctx.pointer
	if r.checked && p >= len(r.desc.Code) {
		r.fail(FaultCodeBounds, fmt.Sprintf("need 1 byte at %d", p))
	}
	r.ctx.pointer++
	return r.desc.Code[p]
}

func (r *runner) readBytes(n int) []byte {
	p := r.ctx.pointer
	if r.checked && p+n > len(r.desc.Code) {
		r.fail(FaultCodeBounds, fmt.Sprintf("need %d bytes at %d", n, p))
	}
	r.ctx.pointer += n
	return r.desc.Code[p : p+n]
}

func (r *runner) getF32() float32 {
	src := Source(r.readByte())
	switch src {
	case SourceLiteral:
		return math.Float32frombits(binary.BigEndian.Uint32(r.readBytes(4)))
	case SourceField:
		f := r.field()
		v, ok := r.fields.ReadField(f)
		if !ok {
			r.fail(FaultNoTransform, "read "+f.String())
		}
		return v
	case SourceData:
		return r.data[r.dataIndex()]
	case SourceLocal:
		return r.ctx.vars[r.localIndex()]
	default:
		r.fail(FaultUnknownSource, fmt.Sprintf("tag %d", byte(src)))
		return 0
	}
}

func (r *runner) storeF32(v float32) {
	src := Source(r.readByte())
	switch src {
	case SourceField:
		f := r.field()
		if !r.fields.WriteField(f, v) {
			r.fail(FaultNoTransform, "write "+f.String())
		}
	case SourceData:
		r.data[r.dataIndex()] = v
	case SourceLocal:
		r.ctx.vars[r.localIndex()] = v
	default:
		r.fail(FaultUnknownSource, fmt.Sprintf("store tag %d", byte(src)))
	}
}

func (r *runner) field() EngineField {
	f := EngineField(r.readByte())
	if !f.Valid() {
		r.fail(FaultUnknownField, fmt.Sprintf("field %d", byte(f)))
	}
	return f
}

func (r *runner) dataIndex() int {
	i := int(r.readByte())
	if r.checked && i >= len(r.data) {
		r.fail(FaultDataBounds, fmt.Sprintf("data[%d] of %d", i, len(r.data)))
	}
	return i
}

func (r *runner) localIndex() int {
	i := int(r.readByte())
	if r.checked && i >= len(r.ctx.vars) {
		r.fail(FaultLocalBounds, fmt.Sprintf("var[%d] of %d", i, len(r.ctx.vars)))
	}
	return i
}

func (r *runner) getStr() string {
	n := int(binary.BigEndian.Uint16(r.readBytes(2)))
	b := r.readBytes(n)
	if r.checked && !utf8.Valid(b) {
		r.fail(FaultBadString, fmt.Sprintf("%q", b))
	}
	return string(b)
}

func (r *runner) getCollide() Collide {
	kind := CollideKind(r.readByte())
	n, ok := kind.Arity()
	if !ok {
		r.fail(FaultUnknownCollide, fmt.Sprintf("tag %d", byte(kind)))
	}
	args := make([]float32, n)
	for i := range args {
		args[i] = r.getF32()
	}
	return Collide{Kind: kind, Args: args}
}

func (r *runner) getArgs(ai string) []float32 {
	if r.game.Scripts == nil {
		r.fail(FaultUnknownScript, ai)
	}
	n, ok := r.game.Scripts.DataCount(ai)
	if !ok {
		r.fail(FaultUnknownScript, ai)
	}
	args := make([]float32, n)
	for i := range args {
		args[i] = r.getF32()
	}
	return args
}
