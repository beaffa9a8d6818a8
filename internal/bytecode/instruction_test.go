package bytecode_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/flock/internal/bytecode"
)

func mustEmit(t *testing.T, src string) bytecode.Program {
	prog, err := bytecode.Emit(bytecode.Lex(src))
	require.NoError(t, err, "must emit %q", src)
	return prog
}

func TestProgram_Hash(t *testing.T) {
	progs := []bytecode.Program{
		mustEmit(t, "a b c d"),
		mustEmit(t, "a b c"),
		mustEmit(t, "d c b a"),
		mustEmit(t, "fun greet a end run greet"),
		mustEmit(t, "fun greeT a end run greeT"),
		mustEmit(t, "fun g a end run g"),
		mustEmit(t, "fun g a b end run g"),
		mustEmit(t, "fun g a end b run g"),
		{bytecode.Func("ab", 0)},
		{bytecode.Func("a", 0), bytecode.Run("b")},
	}
	seen := make(map[uint64]int)
	for i, prog := range progs {
		h := prog.Hash()
		if j, dup := seen[h]; dup {
			t.Errorf("program #%v hashes the same as #%v:\n%v%v", i, j, progs[j], prog)
		}
		seen[h] = i
	}

	assert.Equal(t,
		mustEmit(t, "A  B\nC d").Hash(),
		mustEmit(t, "a b c d").Hash(),
		"expected formatting to not matter")
}

func TestProgram_Clone(t *testing.T) {
	prog := mustEmit(t, "fun f a end run f")
	clone := prog.Clone()
	require.True(t, prog.Equal(clone))
	clone[1] = bytecode.Print(bytecode.SymbolB)
	assert.False(t, prog.Equal(clone), "expected clone to not share storage")
	assert.Equal(t, bytecode.Print(bytecode.SymbolA), prog[1])
}

func TestProgram_Body(t *testing.T) {
	prog := bytecode.Program{
		bytecode.Func("ok", 1),
		bytecode.Print(bytecode.SymbolA),
		bytecode.Func("past", 9),
		bytecode.Func("before", 0),
		bytecode.Run("ok"),
	}

	lo, hi, err := prog.Body(0, len(prog))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, []int{lo, hi})

	for _, at := range []int{2, 3, 4} {
		_, _, err := prog.Body(at, len(prog))
		var inv *bytecode.InvalidInstructionError
		if assert.True(t, errors.As(err, &inv), "expected InvalidInstructionError @%v", at) {
			assert.Equal(t, at, inv.At)
		}
	}

	_, _, err = prog.Body(0, 1)
	assert.Error(t, err, "expected body past the enclosing range to fail")
}

func TestDump(t *testing.T) {
	prog := mustEmit(t, "c fun x fun y d end run y a end fun e end run x run e")
	assert.Equal(t, ""+
		"# Program (9 instructions)\n"+
		"  @0 print c\n"+
		"  @1 fun x ..@5\n"+
		"  @2   fun y ..@3\n"+
		"  @3     print d\n"+
		"  @4   run y\n"+
		"  @5   print a\n"+
		"  @6 fun e ..@6 (empty)\n"+
		"  @7 run x\n"+
		"  @8 run e\n",
		prog.String())
}
