// Package bytecode lexes flock source and emits it into a flat instruction
// buffer, with function bodies stored inline after their definitions.
package bytecode

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// Op is an instruction opcode.
type Op uint8

const (
	OpPrint Op = iota + 1 // emit Symbol
	OpFunc                // define Name as the body that follows, up through End
	OpRun                 // invoke Name
)

func (op Op) String() string {
	switch op {
	case OpPrint:
		return "print"
	case OpFunc:
		return "fun"
	case OpRun:
		return "run"
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// Symbol identifies one of the printable symbols; its display value comes
// from a configured symbol table.
type Symbol uint8

const (
	SymbolA Symbol = iota
	SymbolB
	SymbolC
	SymbolD

	NumSymbols = 4
)

func (sym Symbol) String() string {
	if sym < NumSymbols {
		return string(rune('a' + sym))
	}
	return fmt.Sprintf("Symbol(%d)", uint8(sym))
}

// Instruction is one entry in a Program. Only the fields meaningful for its
// Op are set, so that structurally equal programs compare equal.
type Instruction struct {
	Op     Op
	Symbol Symbol // OpPrint
	Name   string // OpFunc, OpRun
	End    int    // OpFunc: index of the last body instruction
}

// Print builds an OpPrint instruction.
func Print(sym Symbol) Instruction { return Instruction{Op: OpPrint, Symbol: sym} }

// Func builds an OpFunc instruction.
func Func(name string, end int) Instruction { return Instruction{Op: OpFunc, Name: name, End: end} }

// Run builds an OpRun instruction.
func Run(name string) Instruction { return Instruction{Op: OpRun, Name: name} }

func (in Instruction) String() string {
	switch in.Op {
	case OpPrint:
		return fmt.Sprintf("print %v", in.Symbol)
	case OpFunc:
		return fmt.Sprintf("fun %v ..@%v", in.Name, in.End)
	case OpRun:
		return fmt.Sprintf("run %v", in.Name)
	}
	return fmt.Sprintf("%v %v %q %v", in.Op, in.Symbol, in.Name, in.End)
}

// Program is a flat instruction buffer; function bodies are stored inline
// after their OpFunc.
type Program []Instruction

// Equal reports whether prog and other hold the same instructions.
func (prog Program) Equal(other Program) bool { return slices.Equal(prog, other) }

// Clone returns a copy of prog that shares no storage with it.
func (prog Program) Clone() Program { return slices.Clone(prog) }

// Hash returns a 64-bit digest of prog's content; structurally equal programs
// hash equally.
func (prog Program) Hash() uint64 {
	d := xxhash.New()
	var buf []byte
	for _, in := range prog {
		buf = append(buf[:0], byte(in.Op), byte(in.Symbol))
		buf = binary.AppendUvarint(buf, uint64(len(in.Name)))
		buf = append(buf, in.Name...)
		buf = binary.AppendVarint(buf, int64(in.End))
		d.Write(buf)
	}
	return d.Sum64()
}

// Body returns the half-open index range of the function body defined at at,
// checking that it lies within [at, hi).
func (prog Program) Body(at, hi int) (lo, end int, err error) {
	in := prog[at]
	if in.Op != OpFunc || in.End < at || in.End >= hi {
		return 0, 0, &InvalidInstructionError{At: at, Instruction: in}
	}
	return at + 1, in.End + 1, nil
}
