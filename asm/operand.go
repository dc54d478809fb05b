package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/milk9111/danmaku/script"
)

// ParseOperand reads `1.5`, `self.x`, `player.z`, `data[3]` or `var[0]`.
func ParseOperand(tok string) (Operand, error) {
	if f, ok := script.FieldByName(tok); ok {
		return Field(f), nil
	}
	if idx, ok, err := indexed(tok, "data"); ok {
		return Data(idx), err
	}
	if idx, ok, err := indexed(tok, "var"); ok {
		return Local(idx), err
	}
	v, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return Operand{}, fmt.Errorf("bad operand %q", tok)
	}
	return Lit(float32(v)), nil
}

func indexed(tok, prefix string) (byte, bool, error) {
	rest, ok := strings.CutPrefix(tok, prefix+"[")
	if !ok {
		return 0, false, nil
	}
	rest, ok = strings.CutSuffix(rest, "]")
	if !ok {
		return 0, true, fmt.Errorf("bad operand %q", tok)
	}
	n, err := strconv.ParseUint(rest, 10, 8)
	if err != nil {
		return 0, true, fmt.Errorf("bad index in %q", tok)
	}
	return byte(n), true, nil
}

// ParseCollide reads `circle(8)`, `rect(4, data[0])` or `none`.
func ParseCollide(tok string) (script.CollideKind, []Operand, error) {
	name, inner, hasArgs := strings.Cut(tok, "(")
	kind, ok := script.CollideKindByName(strings.TrimSpace(name))
	if !ok {
		return 0, nil, fmt.Errorf("unknown collide shape %q", name)
	}
	var args []Operand
	if hasArgs {
		inner, ok = strings.CutSuffix(inner, ")")
		if !ok {
			return 0, nil, fmt.Errorf("unterminated collide %q", tok)
		}
		for _, part := range strings.Split(inner, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			o, err := ParseOperand(part)
			if err != nil {
				return 0, nil, err
			}
			args = append(args, o)
		}
	}
	if n, _ := kind.Arity(); n != len(args) {
		return 0, nil, fmt.Errorf("collide %s takes %d args, got %d", kind, n, len(args))
	}
	return kind, args, nil
}

func formatOperand(o Operand) string {
	switch o.Source {
	case script.SourceLiteral:
		return strconv.FormatFloat(float64(o.Value), 'g', -1, 32)
	case script.SourceField:
		return script.EngineField(o.Index).String()
	case script.SourceData:
		return fmt.Sprintf("data[%d]", o.Index)
	case script.SourceLocal:
		return fmt.Sprintf("var[%d]", o.Index)
	}
	return fmt.Sprintf("?%d", byte(o.Source))
}
