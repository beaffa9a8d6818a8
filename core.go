package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jcorbin/flock/internal/bytecode"
	"github.com/jcorbin/flock/internal/flushio"
	"github.com/jcorbin/flock/internal/runeio"
)

// Engine executes programs, interpreting them until the Cache promotes them
// to a compiled Artifact. An Engine is not safe for concurrent use, but many
// engines may share one Cache.
type Engine struct {
	logging

	out     flushio.WriteFlusher
	outErr  error // from flushing a replaced output
	sink    Sink
	symbols SymbolTable

	tiered    bool
	threshold int
	cache     *Cache
	metrics   *Metrics

	closers []io.Closer
}

// Sink receives the display value of every executed print instruction, in
// execution order.
type Sink interface {
	Emit(value string) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(value string) error

// Emit calls f.
func (f SinkFunc) Emit(value string) error { return f(value) }

// lineSink writes one value per line.
type lineSink struct{ out flushio.WriteFlusher }

func (ls lineSink) Emit(value string) error {
	_, err := runeio.WriteLine(ls.out, value)
	return err
}

func (eng *Engine) emit(sym bytecode.Symbol) error {
	value, ok := eng.symbols.Lookup(sym)
	if !ok {
		return &bytecode.InvalidInstructionError{At: -1, Instruction: bytecode.Print(sym)}
	}
	return eng.sink.Emit(value)
}

func (eng *Engine) flush() error {
	err := eng.outErr
	eng.outErr = nil
	if eng.out != nil {
		if ferr := eng.out.Flush(); err == nil {
			err = ferr
		}
	}
	return err
}

// Close flushes output and closes anything handed to the engine by its
// options, returning the first error.
func (eng *Engine) Close() (err error) {
	err = eng.flush()
	for i := len(eng.closers) - 1; i >= 0; i-- {
		if cerr := eng.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	eng.closers = nil
	return err
}

type logging struct {
	logfn func(mess string, args ...interface{})

	markWidth int
}

func (log *logging) withLogPrefix(prefix string) func() {
	logfn := log.logfn
	if logfn == nil {
		return func() {}
	}
	log.logfn = func(mess string, args ...interface{}) {
		logfn(prefix+mess, args...)
	}
	return func() {
		log.logfn = logfn
	}
}

func (log *logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if n := log.markWidth - len(mark); n > 0 {
		for _, r := range mark {
			mark = strings.Repeat(string(r), n) + mark
			break
		}
	} else if n < 0 {
		log.markWidth = len(mark)
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}
