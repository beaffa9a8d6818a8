package bytecode

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmit(t *testing.T) {
	for _, tc := range []struct {
		name   string
		src    string
		expect Program
	}{
		{
			name:   "empty",
			src:    "",
			expect: nil,
		},
		{
			name: "symbols",
			src:  "a b c d",
			expect: Program{
				Print(SymbolA),
				Print(SymbolB),
				Print(SymbolC),
				Print(SymbolD),
			},
		},
		{
			name: "greet",
			src:  "fun greet a end run greet",
			expect: Program{
				Func("greet", 1),
				Print(SymbolA),
				Run("greet"),
			},
		},
		{
			name: "empty body",
			src:  "fun f end run f",
			expect: Program{
				Func("f", 0),
				Run("f"),
			},
		},
		{
			name: "nested",
			src:  "fun outer fun inner b end run inner end run outer",
			expect: Program{
				Func("outer", 3),
				Func("inner", 2),
				Print(SymbolB),
				Run("inner"),
				Run("outer"),
			},
		},
		{
			name: "deeply nested",
			src:  "c fun x fun y fun z d end run z end a end run x b",
			expect: Program{
				Print(SymbolC),
				Func("x", 6),
				Func("y", 5),
				Func("z", 4),
				Print(SymbolD),
				Run("z"),
				Print(SymbolA),
				Run("x"),
				Print(SymbolB),
			},
		},
		{
			name: "keywords any case",
			src:  "FUN Greet A END rUn Greet",
			expect: Program{
				Func("Greet", 1),
				Print(SymbolA),
				Run("Greet"),
			},
		},
		{
			name: "run before fun still emits",
			src:  "run later fun later a end",
			expect: Program{
				Run("later"),
				Func("later", 2),
				Print(SymbolA),
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			prog, err := Emit(Lex(tc.src))
			require.NoError(t, err)
			if !assert.Equal(t, tc.expect, prog) {
				t.Logf("got:\n%v", prog)
			}
		})
	}
}

func TestEmit_errors(t *testing.T) {
	for _, tc := range []struct {
		name   string
		src    string
		check  func(t *testing.T, err error)
		errStr string
	}{
		{
			name: "unknown token",
			src:  "x",
			check: func(t *testing.T, err error) {
				var unk *UnknownTokenError
				require.True(t, errors.As(err, &unk), "expected UnknownTokenError")
				assert.Equal(t, "x", unk.Token.Text)
			},
			errStr: `input:1:1: unknown token "x"`,
		},
		{
			name: "unknown token in body",
			src:  "fun f a zz end",
			check: func(t *testing.T, err error) {
				var unk *UnknownTokenError
				require.True(t, errors.As(err, &unk), "expected UnknownTokenError")
				assert.Equal(t, "zz", unk.Token.Text)
			},
			errStr: `input:1:9: unknown token "zz"`,
		},
		{
			name: "keyword name",
			src:  "fun end",
			check: func(t *testing.T, err error) {
				var inv *InvalidNameError
				require.True(t, errors.As(err, &inv), "expected InvalidNameError")
				assert.False(t, inv.Missing)
				assert.Equal(t, KindEnd, inv.Name.Kind)
			},
			errStr: `input:1:5: invalid function name "END" after FUN`,
		},
		{
			name: "symbol name",
			src:  "run a",
			check: func(t *testing.T, err error) {
				var inv *InvalidNameError
				require.True(t, errors.As(err, &inv), "expected InvalidNameError")
				assert.Equal(t, KindRun, inv.After.Kind)
			},
			errStr: `input:1:5: invalid function name "A" after RUN`,
		},
		{
			name: "missing fun name",
			src:  "fun",
			check: func(t *testing.T, err error) {
				var inv *InvalidNameError
				require.True(t, errors.As(err, &inv), "expected InvalidNameError")
				assert.True(t, inv.Missing)
			},
			errStr: `input:1:1: missing function name after FUN`,
		},
		{
			name: "missing run name",
			src:  "a run",
			check: func(t *testing.T, err error) {
				var inv *InvalidNameError
				require.True(t, errors.As(err, &inv), "expected InvalidNameError")
				assert.True(t, inv.Missing)
			},
			errStr: `input:1:3: missing function name after RUN`,
		},
		{
			name: "unterminated",
			src:  "fun f a",
			check: func(t *testing.T, err error) {
				var unt *UnterminatedFunctionError
				require.True(t, errors.As(err, &unt), "expected UnterminatedFunctionError")
				assert.Equal(t, "f", unt.Name)
			},
			errStr: `input:1:1: function f has no END`,
		},
		{
			name: "unterminated outer",
			src:  "fun f fun g a end",
			check: func(t *testing.T, err error) {
				var unt *UnterminatedFunctionError
				require.True(t, errors.As(err, &unt), "expected UnterminatedFunctionError")
				assert.Equal(t, "f", unt.Name)
			},
			errStr: `input:1:1: function f has no END`,
		},
		{
			name: "stray end",
			src:  "end",
			check: func(t *testing.T, err error) {
				var une *UnexpectedEndError
				require.True(t, errors.As(err, &une), "expected UnexpectedEndError")
			},
			errStr: `input:1:1: unexpected END outside of a function`,
		},
		{
			name: "extra end",
			src:  "fun f a end end",
			check: func(t *testing.T, err error) {
				var une *UnexpectedEndError
				require.True(t, errors.As(err, &une), "expected UnexpectedEndError")
				assert.Equal(t, 13, une.Token.Loc.Column)
			},
			errStr: `input:1:13: unexpected END outside of a function`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			prog, err := Emit(Lex(tc.src))
			require.Error(t, err)
			assert.Nil(t, prog, "expected no partial program")
			tc.check(t, err)
			assert.EqualError(t, err, tc.errStr)
		})
	}
}

func TestEmitter_statementAtEOF(t *testing.T) {
	em := emitter{tokens: Lex("a")}
	require.NoError(t, em.statement())
	err := em.statement()
	var eoi *UnexpectedEndOfInputError
	assert.True(t, errors.As(err, &eoi), "expected UnexpectedEndOfInputError, got %v", err)
	assert.Equal(t, Program{Print(SymbolA)}, em.prog)
}

func TestEmit_idempotent(t *testing.T) {
	const src = "fun outer fun inner b end run inner end run outer a"
	one, err := Emit(Lex(src))
	require.NoError(t, err)
	two, err := Emit(Lex(src))
	require.NoError(t, err)
	assert.True(t, one.Equal(two), "expected structurally equal programs")
	assert.Equal(t, one.Hash(), two.Hash(), "expected equal hashes")
}

func TestEmit_backpatch(t *testing.T) {
	prog, err := Emit(Lex("fun outer a fun inner b c end d end run outer"))
	require.NoError(t, err)
	for at, in := range prog {
		if in.Op != OpFunc {
			continue
		}
		lo, hi, err := prog.Body(at, len(prog))
		require.NoError(t, err, "body @%v", at)
		assert.Equal(t, at+1, lo)
		assert.Equal(t, in.End+1, hi)
		assert.NotEqual(t, OpFunc, prog[in.End].Op, "function @%v should not end on its own header", at)
	}
}
