package script

import (
	"errors"
	"fmt"
)

// FaultKind classifies a contract violation between compiled code and the VM.
type FaultKind int

const (
	FaultUnknownOp FaultKind = iota + 1
	FaultUnknownSource
	FaultUnknownField
	FaultUnknownCollide
	FaultUnknownScript
	FaultNoSuchFunction
	FaultNoTick
	FaultNoTransform
	FaultCodeBounds
	FaultDataBounds
	FaultLocalBounds
	FaultStackUnderflow
	FaultBadString
)

var faultNames = map[FaultKind]string{
	FaultUnknownOp:      "unknown opcode",
	FaultUnknownSource:  "unknown operand tag",
	FaultUnknownField:   "unknown engine field",
	FaultUnknownCollide: "unknown collide tag",
	FaultUnknownScript:  "unknown ai script",
	FaultNoSuchFunction: "no such function",
	FaultNoTick:         "script has no tick function",
	FaultNoTransform:    "transform not available",
	FaultCodeBounds:     "code stream truncated",
	FaultDataBounds:     "data index out of range",
	FaultLocalBounds:    "local index out of range",
	FaultStackUnderflow: "calc stack underflow",
	FaultBadString:      "malformed utf-8 string",
}

func (k FaultKind) String() string {
	if n, ok := faultNames[k]; ok {
		return n
	}
	return fmt.Sprintf("fault(%d)", int(k))
}

// Error lets a kind be used as a sentinel with errors.Is.
func (k FaultKind) Error() string {
	return "script: " + k.String()
}

var (
	ErrNoSuchFunction error = FaultNoSuchFunction
	ErrNoTick         error = FaultNoTick
)

// Fault aborts a function run. Effects already applied are kept.
type Fault struct {
	Kind     FaultKind
	Script   string
	Function string
	// Offset is the address of the instruction that faulted, or -1.
	Offset int
	Op     Op
	Detail string
}

func (f *Fault) Error() string {
	msg := fmt.Sprintf("script %s: %s", f.Script, f.Kind)
	if f.Function != "" {
		msg += " in " + f.Function
	}
	if f.Offset >= 0 {
		msg += fmt.Sprintf(" at %d (%s)", f.Offset, f.Op)
	}
	if f.Detail != "" {
		msg += ": " + f.Detail
	}
	return msg
}

func (f *Fault) Unwrap() error {
	return f.Kind
}

// AsFault extracts a *Fault from err.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
