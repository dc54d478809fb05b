package asm

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/milk9111/danmaku/script"
)

// Instr is one decoded instruction.
type Instr struct {
	Offset int
	Op     script.Op
	Text   string
}

type decoder struct {
	code []byte
	pos  int
	reg  script.Registry
}

func (d *decoder) readByte() (byte, error) {
	if d.pos >= len(d.code) {
		return 0, fmt.Errorf("truncated at %d", d.pos)
	}
	b := d.code[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) readBytes(n int) ([]byte, error) {
	if d.pos+n > len(d.code) {
		return nil, fmt.Errorf("truncated at %d", d.pos)
	}
	b := d.code[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *decoder) operand() (Operand, error) {
	tag, err := d.readByte()
	if err != nil {
		return Operand{}, err
	}
	src := script.Source(tag)
	switch src {
	case script.SourceLiteral:
		b, err := d.readBytes(4)
		if err != nil {
			return Operand{}, err
		}
		return Lit(math.Float32frombits(binary.BigEndian.Uint32(b))), nil
	case script.SourceField, script.SourceData, script.SourceLocal:
		idx, err := d.readByte()
		if err != nil {
			return Operand{}, err
		}
		if src == script.SourceField && !script.EngineField(idx).Valid() {
			return Operand{}, fmt.Errorf("unknown engine field %d", idx)
		}
		return Operand{Source: src, Index: idx}, nil
	}
	return Operand{}, fmt.Errorf("unknown operand tag %d", tag)
}

func (d *decoder) str() (string, error) {
	b, err := d.readBytes(2)
	if err != nil {
		return "", err
	}
	s, err := d.readBytes(int(binary.BigEndian.Uint16(b)))
	if err != nil {
		return "", err
	}
	return strconv.Quote(string(s)), nil
}

func (d *decoder) operands(n int) ([]string, error) {
	out := make([]string, n)
	for i := range out {
		o, err := d.operand()
		if err != nil {
			return nil, err
		}
		out[i] = formatOperand(o)
	}
	return out, nil
}

func (d *decoder) collide() (string, error) {
	tag, err := d.readByte()
	if err != nil {
		return "", err
	}
	kind := script.CollideKind(tag)
	n, ok := kind.Arity()
	if !ok {
		return "", fmt.Errorf("unknown collide tag %d", tag)
	}
	args, err := d.operands(n)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return kind.String(), nil
	}
	return fmt.Sprintf("%s(%s)", kind, strings.Join(args, ", ")), nil
}

func (d *decoder) summon(floats int) (string, error) {
	name, err := d.str()
	if err != nil {
		return "", err
	}
	parts := []string{name}
	ops, err := d.operands(floats)
	if err != nil {
		return "", err
	}
	parts = append(parts, ops...)
	shape, err := d.collide()
	if err != nil {
		return "", err
	}
	ai, err := d.str()
	if err != nil {
		return "", err
	}
	parts = append(parts, shape, ai)
	aiName, _ := strconv.Unquote(ai)
	if d.reg == nil {
		return "", fmt.Errorf("no registry to resolve ai script %s", ai)
	}
	argc, ok := d.reg.DataCount(aiName)
	if !ok {
		return "", fmt.Errorf("unknown ai script %s", ai)
	}
	args, err := d.operands(argc)
	if err != nil {
		return "", err
	}
	return strings.Join(append(parts, args...), " "), nil
}

// Decode splits a function body into instructions. reg resolves the argument
// count of summoned AI scripts.
func Decode(code []byte, reg script.Registry) ([]Instr, error) {
	d := &decoder{code: code, reg: reg}
	var out []Instr
	for d.pos < len(code) {
		in := Instr{Offset: d.pos, Op: script.Op(code[d.pos])}
		d.pos++
		var text string
		var err error
		switch in.Op {
		case script.OpPush, script.OpBreak, script.OpMoveUp, script.OpStore:
			var o Operand
			if o, err = d.operand(); err == nil {
				text = formatOperand(o)
			}
		case script.OpSummonEnemy:
			text, err = d.summon(3)
		case script.OpSummonBullet:
			text, err = d.summon(4)
		default:
			if !in.Op.Known() {
				err = fmt.Errorf("unknown opcode %d", byte(in.Op))
			}
		}
		if err != nil {
			return out, fmt.Errorf("offset %d (%s): %w", in.Offset, in.Op, err)
		}
		in.Text = strings.TrimSpace(in.Op.String() + " " + text)
		out = append(out, in)
	}
	return out, nil
}

var (
	offsetColor = color.New(color.Faint).SprintFunc()
	opColor     = color.New(color.FgCyan).SprintFunc()
	headColor   = color.New(color.FgYellow, color.Bold).SprintFunc()
)

// Disassemble writes a listing of fn that Assemble accepts back.
func Disassemble(w io.Writer, fn *script.FunctionDesc, reg script.Registry) error {
	instrs, err := Decode(fn.Code, reg)
	for _, in := range instrs {
		mnemonic, rest, _ := strings.Cut(in.Text, " ")
		if _, werr := fmt.Fprintf(w, "    %s %s\t%s\n", opColor(mnemonic), rest, offsetColor(fmt.Sprintf("; %04d", in.Offset))); werr != nil {
			return werr
		}
	}
	return err
}

// DisassembleScript writes every function of desc with its directives.
func DisassembleScript(w io.Writer, desc *script.ScriptDesc, reg script.Registry) error {
	fmt.Fprintf(w, "%s %s\n", headColor(".script"), desc.Name)
	fmt.Fprintf(w, "%s %d\n", headColor(".args"), desc.DataCount)
	names := make([]string, 0, len(desc.Functions))
	for name := range desc.Functions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fn := desc.Functions[name]
		fmt.Fprintf(w, "%s %s %d\n", headColor(".func"), name, fn.MaxStack)
		if err := Disassemble(w, fn, reg); err != nil {
			return fmt.Errorf("%s.%s: %w", desc.Name, name, err)
		}
		fmt.Fprintln(w, headColor(".end"))
	}
	return nil
}
