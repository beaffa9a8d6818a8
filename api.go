package main

import (
	"io"
	"strings"

	"github.com/jcorbin/flock/internal/bytecode"
	"github.com/jcorbin/flock/internal/fileinput"
)

// New creates an Engine; unless given one by WithCache, a tiered engine gets
// its own Cache built from its threshold.
func New(opts ...Option) *Engine {
	var eng Engine
	defaultOptions.apply(&eng)
	Options(opts...).apply(&eng)
	if eng.tiered && eng.cache == nil {
		eng.cache = NewCache(eng.threshold)
	}
	return &eng
}

// Cache returns the engine's compilation cache, nil if tiering is disabled.
func (eng *Engine) Cache() *Cache {
	if !eng.tiered {
		return nil
	}
	return eng.cache
}

// Exec lexes, emits, and executes program text.
func (eng *Engine) Exec(src string) error {
	return eng.ExecReader(fileinput.Named("input", strings.NewReader(src)))
}

// ExecReader executes the program read from r, naming token locations after
// r if it has a Name() string method.
func (eng *Engine) ExecReader(r io.Reader) error {
	tokens, err := bytecode.Scan(&fileinput.Input{Queue: []io.Reader{r}})
	if err != nil {
		return err
	}
	prog, err := bytecode.Emit(tokens)
	if err != nil {
		return err
	}
	return eng.ExecProgram(prog)
}

// ExecProgram executes an already emitted program, flushing output
// afterward even if execution failed.
func (eng *Engine) ExecProgram(prog bytecode.Program) (rerr error) {
	defer func() {
		if ferr := eng.flush(); rerr == nil {
			rerr = ferr
		}
	}()

	if !eng.tiered {
		eng.metrics.observe(TierCold)
		return eng.interpret(prog, 0, len(prog))
	}

	entry := eng.cache.Lookup(prog)
	tier, art, count := entry.enter()
	eng.metrics.observe(tier)
	switch tier {
	case TierCompiled:
		eng.logf("*", "compiled %016x #%v", entry.Key(), count)
		return art.Invoke(eng.emit)
	case TierWarm:
		eng.metrics.promoted()
		eng.logf("+", "warm up %016x #%v", entry.Key(), count)
	default:
		eng.logf("-", "interpret %016x #%v", entry.Key(), count)
	}
	return eng.interpret(prog, 0, len(prog))
}
