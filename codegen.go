package main

import (
	"github.com/jcorbin/flock/internal/bytecode"
)

// Artifact is the compiled form of a program: a sequence of steps that
// reproduces the interpreter's emissions without walking the instruction
// buffer again. Calls are bound to their callee's steps at compile time.
type Artifact struct {
	steps []step
}

type emitFunc func(sym bytecode.Symbol) error

type step func(emit emitFunc) error

// Invoke runs the artifact, emitting through emit.
func (art *Artifact) Invoke(emit emitFunc) error {
	for _, st := range art.steps {
		if err := st(emit); err != nil {
			return err
		}
	}
	return nil
}

// Len returns how many steps the artifact's top level holds.
func (art *Artifact) Len() int { return len(art.steps) }

// Compile generates an Artifact for prog. Compilation itself never fails:
// an instruction that would fail when interpreted compiles into a step that
// fails the same way, after the same prior emissions.
func Compile(prog bytecode.Program) *Artifact {
	gen := codegen{
		prog:   prog,
		bodies: make(map[span]*Artifact),
	}
	return gen.compile(span{0, len(prog)})
}

type codegen struct {
	prog bytecode.Program

	// bodies memoizes compiled function bodies, which depend only on their
	// span since each body scans with a fresh function table
	bodies map[span]*Artifact
}

func (gen *codegen) compile(sp span) *Artifact {
	if art, ok := gen.bodies[sp]; ok {
		return art
	}
	art := &Artifact{}
	gen.bodies[sp] = art

	funcs := make(functionTable)
	for at := sp.lo; at < sp.hi; {
		in := gen.prog[at]
		switch in.Op {
		case bytecode.OpPrint:
			if in.Symbol >= bytecode.NumSymbols {
				return art.failWith(&bytecode.InvalidInstructionError{At: at, Instruction: in})
			}
			sym := in.Symbol
			art.steps = append(art.steps, func(emit emitFunc) error { return emit(sym) })
			at++

		case bytecode.OpFunc:
			next, err := funcs.define(gen.prog, at, sp.hi)
			if err != nil {
				return art.failWith(err)
			}
			at = next

		case bytecode.OpRun:
			body, defined := funcs[in.Name]
			if !defined {
				return art.failWith(&UndefinedFunctionError{Name: in.Name, At: at})
			}
			art.steps = append(art.steps, gen.compile(body).Invoke)
			at++

		default:
			return art.failWith(&bytecode.InvalidInstructionError{At: at, Instruction: in})
		}
	}
	return art
}

// failWith ends art with a step returning err; nothing after it could run.
func (art *Artifact) failWith(err error) *Artifact {
	art.steps = append(art.steps, func(emitFunc) error { return err })
	return art
}
