package asm

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// Generate runs a tengo program that writes assembler text through emit()
// and assembles the result. It is meant for patterns that are tedious to
// write by hand, like rings of bullets:
//
//	fmt := import("fmt")
//	emit(".script ring")
//	emit(".func tick")
//	for i := 0; i < 12; i++ {
//		emit(fmt.sprintf(`summon_bullet "rice" self.x self.y 0 %d circle(4) "straight" 3`, i*30))
//	}
//	emit(".end")
func Generate(source string, src []byte) (*Unit, error) {
	var lines []string
	emit := &tengo.UserFunction{Name: "emit", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, arg := range args {
			s, ok := tengo.ToString(arg)
			if !ok {
				return nil, tengo.ErrInvalidArgumentType{Name: "line", Expected: "string", Found: arg.TypeName()}
			}
			parts = append(parts, s)
		}
		lines = append(lines, strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	s := tengo.NewScript(src)
	if err := s.Add("emit", emit); err != nil {
		return nil, err
	}
	s.SetImports(stdlib.GetModuleMap("fmt", "math", "text"))
	if _, err := s.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return Assemble(source, strings.Join(lines, "\n"))
}
