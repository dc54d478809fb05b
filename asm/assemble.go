package asm

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/milk9111/danmaku/script"
)

// Summon records a summon site so Link can check its argument count.
type Summon struct {
	Script   string
	Function string
	Line     int
	AI       string
	Argc     int
}

// Unit is the output of one source file.
type Unit struct {
	Source  string
	Scripts []*script.ScriptDesc
	Summons []Summon
}

// Error is an assembly error with its position.
type Error struct {
	Source string
	Line   int
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type assembler struct {
	source string
	unit   *Unit
	line   int

	script    *script.ScriptDesc
	fnName    string
	fnStack   int
	fn        *Builder
	hasScript bool
}

// Assemble translates assembler text into scripts.
//
//	.script fairy
//	.args 2
//	.func tick 1
//	    loop
//	    move_up data[0]
//	    yield
//	    repeat
//	.end
func Assemble(source, src string) (*Unit, error) {
	a := &assembler{source: source, unit: &Unit{Source: source}}
	sc := bufio.NewScanner(strings.NewReader(src))
	for sc.Scan() {
		a.line++
		toks, err := tokenize(stripComment(sc.Text()))
		if err != nil {
			return nil, a.errorf("%v", err)
		}
		if len(toks) == 0 {
			continue
		}
		if err := a.statement(toks); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if a.fn != nil {
		return nil, a.errorf("func %s not closed with .end", a.fnName)
	}
	a.finishScript()
	return a.unit, nil
}

func (a *assembler) errorf(format string, args ...any) error {
	return &Error{Source: a.source, Line: a.line, Err: fmt.Errorf(format, args...)}
}

func (a *assembler) finishScript() {
	if a.script != nil {
		a.unit.Scripts = append(a.unit.Scripts, script.NewScriptDesc(a.script.Name, a.script.DataCount, a.script.Functions))
		a.script = nil
	}
}

func (a *assembler) statement(toks []string) error {
	head := toks[0]
	if strings.HasPrefix(head, ".") {
		return a.directive(head, toks[1:])
	}
	if a.fn == nil {
		return a.errorf("instruction %q outside .func", head)
	}
	return a.instruction(head, toks[1:])
}

func (a *assembler) directive(name string, args []string) error {
	switch name {
	case ".script":
		if len(args) != 1 {
			return a.errorf(".script takes a name")
		}
		if a.fn != nil {
			return a.errorf("func %s not closed with .end", a.fnName)
		}
		a.finishScript()
		a.script = &script.ScriptDesc{Name: args[0], Functions: map[string]*script.FunctionDesc{}}
	case ".args":
		if a.script == nil || len(args) != 1 {
			return a.errorf(".args takes a count inside .script")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return a.errorf("bad arg count %q", args[0])
		}
		a.script.DataCount = n
	case ".func":
		if a.script == nil {
			return a.errorf(".func outside .script")
		}
		if a.fn != nil {
			return a.errorf("func %s not closed with .end", a.fnName)
		}
		if len(args) < 1 || len(args) > 2 {
			return a.errorf(".func takes a name and an optional stack size")
		}
		if _, dup := a.script.Functions[args[0]]; dup {
			return a.errorf("func %s already defined", args[0])
		}
		a.fnName, a.fnStack = args[0], 0
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return a.errorf("bad stack size %q", args[1])
			}
			a.fnStack = n
		}
		a.fn = NewBuilder()
	case ".end":
		if a.fn == nil {
			return a.errorf(".end without .func")
		}
		fn, err := a.fn.Function(a.fnStack)
		if err != nil {
			return a.errorf("func %s: %v", a.fnName, err)
		}
		a.script.Functions[a.fnName] = fn
		a.fn = nil
	default:
		return a.errorf("unknown directive %s", name)
	}
	return nil
}

func (a *assembler) instruction(name string, args []string) error {
	op, ok := script.OpByName(name)
	if !ok {
		return a.errorf("unknown instruction %q", name)
	}
	b := a.fn
	switch op {
	case script.OpLoop, script.OpRepeat, script.OpYield, script.OpNop, script.OpAdd, script.OpSub, script.OpMul:
		if len(args) != 0 {
			return a.errorf("%s takes no operands", name)
		}
		switch op {
		case script.OpLoop:
			b.Loop()
		case script.OpRepeat:
			b.Repeat()
		default:
			b.Op(op)
		}
	case script.OpPush, script.OpBreak, script.OpMoveUp, script.OpStore:
		if len(args) != 1 {
			return a.errorf("%s takes one operand", name)
		}
		o, err := ParseOperand(args[0])
		if err != nil {
			return a.errorf("%v", err)
		}
		if op == script.OpStore {
			b.Store(o)
		} else {
			b.Op(op).Operand(o)
		}
	case script.OpSummonEnemy, script.OpSummonBullet:
		if err := a.summon(op, args); err != nil {
			return err
		}
	}
	if err := b.Err(); err != nil {
		return a.errorf("%v", err)
	}
	return nil
}

func (a *assembler) summon(op script.Op, args []string) error {
	floats := 3
	if op == script.OpSummonBullet {
		floats = 4
	}
	if len(args) < floats+3 {
		return a.errorf("%s needs a name, %d operands, a shape and an ai name", op, floats)
	}
	name, err := unquote(args[0])
	if err != nil {
		return a.errorf("%v", err)
	}
	ops := make([]Operand, floats)
	for i := range ops {
		if ops[i], err = ParseOperand(args[1+i]); err != nil {
			return a.errorf("%v", err)
		}
	}
	kind, collide, err := ParseCollide(args[1+floats])
	if err != nil {
		return a.errorf("%v", err)
	}
	ai, err := unquote(args[2+floats])
	if err != nil {
		return a.errorf("%v", err)
	}
	rest := args[3+floats:]
	extra := make([]Operand, len(rest))
	for i, tok := range rest {
		if extra[i], err = ParseOperand(tok); err != nil {
			return a.errorf("%v", err)
		}
	}
	if op == script.OpSummonEnemy {
		a.fn.SummonEnemy(name, ops[0], ops[1], ops[2], kind, collide, ai, extra...)
	} else {
		a.fn.SummonBullet(name, ops[0], ops[1], ops[2], ops[3], kind, collide, ai, extra...)
	}
	a.unit.Summons = append(a.unit.Summons, Summon{
		Script:   a.script.Name,
		Function: a.fnName,
		Line:     a.line,
		AI:       ai,
		Argc:     len(extra),
	})
	return nil
}

// Link checks every summon against the declared argument counts of all
// units and returns their scripts.
func Link(units ...*Unit) ([]*script.ScriptDesc, error) {
	declared := map[string]int{}
	var out []*script.ScriptDesc
	for _, u := range units {
		for _, d := range u.Scripts {
			if _, dup := declared[d.Name]; dup {
				return nil, fmt.Errorf("%s: script %s defined twice", u.Source, d.Name)
			}
			declared[d.Name] = d.DataCount
			out = append(out, d)
		}
	}
	for _, u := range units {
		for _, s := range u.Summons {
			n, ok := declared[s.AI]
			if !ok {
				return nil, &Error{Source: u.Source, Line: s.Line, Err: fmt.Errorf("unknown ai script %q", s.AI)}
			}
			if n != s.Argc {
				return nil, &Error{Source: u.Source, Line: s.Line, Err: fmt.Errorf("ai script %s takes %d args, got %d", s.AI, n, s.Argc)}
			}
		}
	}
	return out, nil
}

func stripComment(line string) string {
	inStr := false
	for i, r := range line {
		switch {
		case r == '"':
			inStr = !inStr
		case !inStr && (r == ';' || r == '#'):
			return line[:i]
		}
	}
	return line
}

// tokenize splits on whitespace, keeping quoted strings and parenthesised
// groups whole.
func tokenize(line string) ([]string, error) {
	var toks []string
	var cur strings.Builder
	inStr, depth := false, 0
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range line {
		switch {
		case inStr:
			cur.WriteRune(r)
			if r == '"' {
				inStr = false
			}
		case r == '"':
			inStr = true
			cur.WriteRune(r)
		case r == '(':
			depth++
			cur.WriteRune(r)
		case r == ')':
			depth--
			cur.WriteRune(r)
		case (r == ' ' || r == '\t' || r == ',') && depth == 0:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	if inStr {
		return nil, fmt.Errorf("unterminated string")
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parentheses")
	}
	flush()
	return toks, nil
}

func unquote(tok string) (string, error) {
	s, err := strconv.Unquote(tok)
	if err != nil {
		return "", fmt.Errorf("expected quoted string, got %s", tok)
	}
	return s, nil
}
