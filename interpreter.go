package main

import (
	"fmt"

	"github.com/jcorbin/flock/internal/bytecode"
)

// span is a half-open range of instruction indices [lo, hi).
type span struct{ lo, hi int }

// functionTable maps function names to their bodies for one scan of one
// span; each scan builds its own, so a body sees only the functions defined
// within it.
type functionTable map[string]span

// define registers the function whose OpFunc is at prog[at], returning the
// index just past its body.
func (funcs functionTable) define(prog bytecode.Program, at, hi int) (next int, err error) {
	lo, end, err := prog.Body(at, hi)
	if err != nil {
		return 0, err
	}
	funcs[prog[at].Name] = span{lo, end}
	return end, nil
}

// UndefinedFunctionError is returned when RUN names a function not defined
// earlier in the same body.
type UndefinedFunctionError struct {
	Name string
	At   int
}

func (err *UndefinedFunctionError) Error() string {
	return fmt.Sprintf("undefined function %q run @%v", err.Name, err.At)
}

// interpret executes prog[lo:hi] in a fresh function scope. Definitions are
// only registered; their bodies run on RUN, recursively.
func (eng *Engine) interpret(prog bytecode.Program, lo, hi int) error {
	funcs := make(functionTable)
	for at := lo; at < hi; {
		in := prog[at]
		if eng.logfn != nil {
			eng.logf(">", "@%v %v", at, in)
		}
		switch in.Op {
		case bytecode.OpPrint:
			if in.Symbol >= bytecode.NumSymbols {
				return &bytecode.InvalidInstructionError{At: at, Instruction: in}
			}
			if err := eng.emit(in.Symbol); err != nil {
				return err
			}
			at++

		case bytecode.OpFunc:
			next, err := funcs.define(prog, at, hi)
			if err != nil {
				return err
			}
			at = next

		case bytecode.OpRun:
			body, defined := funcs[in.Name]
			if !defined {
				return &UndefinedFunctionError{Name: in.Name, At: at}
			}
			if err := eng.call(prog, body); err != nil {
				return err
			}
			at++

		default:
			return &bytecode.InvalidInstructionError{At: at, Instruction: in}
		}
	}
	return nil
}

func (eng *Engine) call(prog bytecode.Program, body span) error {
	defer eng.withLogPrefix("  ")()
	return eng.interpret(prog, body.lo, body.hi)
}
