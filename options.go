package main

import (
	"io"

	"github.com/jcorbin/flock/internal/flushio"
)

// Option configures an Engine under New.
type Option interface{ apply(eng *Engine) }

// Options combines any number of options into one, applied in order.
func Options(opts ...Option) Option {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, impl)
		}
	}
	if len(res) == 1 {
		return res[0]
	}
	return res
}

type options []Option

func (opts options) apply(eng *Engine) {
	for _, opt := range opts {
		opt.apply(eng)
	}
}

var defaultOptions = Options(
	WithConfig(DefaultConfig()),
	WithOutput(io.Discard),
)

// WithConfig sets the threshold, tiering switch, and symbol table.
func WithConfig(cfg Config) Option { return configOption(cfg) }

// WithThreshold sets the promotion threshold used when New creates the
// engine's cache; it has no effect on a cache given by WithCache.
func WithThreshold(n int) Option { return thresholdOption(n) }

// WithTiering enables or disables the compilation cache.
func WithTiering(enabled bool) Option { return tieringOption(enabled) }

// WithSymbols sets the symbol table.
func WithSymbols(st SymbolTable) Option { return symbolsOption(st) }

// WithCache shares an existing cache with the engine.
func WithCache(cache *Cache) Option { return cacheOption{cache} }

// WithMetrics records executions and promotions into m.
func WithMetrics(m *Metrics) Option { return metricsOption{m} }

// WithOutput writes each printed value as a line on w, replacing any prior
// output or sink. The prior output is flushed; if that fails, the engine's
// next flush returns the error.
func WithOutput(w io.Writer) Option { return outputOption{w} }

// WithTee additionally copies printed lines to w; if w is an io.Closer,
// Engine.Close closes it.
func WithTee(w io.Writer) Option { return teeOption{w} }

// WithSink sends printed values to sink instead of an output stream.
func WithSink(sink Sink) Option { return sinkOption{sink} }

// WithLogf enables trace logging through logfn.
func WithLogf(logfn func(mess string, args ...interface{})) Option { return logfnOption(logfn) }

type configOption Config
type thresholdOption int
type tieringOption bool
type symbolsOption SymbolTable
type cacheOption struct{ *Cache }
type metricsOption struct{ *Metrics }
type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type sinkOption struct{ Sink }
type logfnOption func(mess string, args ...interface{})

func (cfg configOption) apply(eng *Engine) {
	eng.threshold = cfg.Threshold
	eng.tiered = cfg.Tiered
	eng.symbols = cfg.Symbols
}

func (n thresholdOption) apply(eng *Engine) { eng.threshold = int(n) }
func (b tieringOption) apply(eng *Engine) { eng.tiered = bool(b) }
func (st symbolsOption) apply(eng *Engine) { eng.symbols = SymbolTable(st) }
func (c cacheOption) apply(eng *Engine) { eng.cache = c.Cache }
func (m metricsOption) apply(eng *Engine) { eng.metrics = m.Metrics }
func (logfn logfnOption) apply(eng *Engine) { eng.logfn = logfn }

func (o outputOption) apply(eng *Engine) {
	if eng.out != nil {
		if err := eng.out.Flush(); err != nil && eng.outErr == nil {
			eng.outErr = err
		}
	}
	eng.out = flushio.NewWriteFlusher(o.Writer)
	eng.sink = lineSink{eng.out}
}

func (o teeOption) apply(eng *Engine) {
	eng.out = flushio.Tee(eng.out, flushio.NewWriteFlusher(o.Writer))
	eng.sink = lineSink{eng.out}
	if cl, ok := o.Writer.(io.Closer); ok {
		eng.closers = append(eng.closers, cl)
	}
}

func (o sinkOption) apply(eng *Engine) {
	eng.sink = o.Sink
}
