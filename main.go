package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jcorbin/flock/internal/bytecode"
	"github.com/jcorbin/flock/internal/fileinput"
	"github.com/jcorbin/flock/internal/logio"
	"github.com/jcorbin/flock/internal/panicerr"
)

func main() {
	ctx := context.Background()

	cmd, err := parseCommand(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(2)
	}

	logger, err := newLogger(cmd.trace)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	cmd.fs = afero.NewOsFs()
	cmd.stdin = os.Stdin
	cmd.stdout = os.Stdout
	cmd.log = logger

	if err := cmd.run(ctx); err != nil {
		logger.Error("run failed", errorFields(err)...)
		logger.Sync()
		os.Exit(exitStatus(err))
	}
}

// exit statuses beyond 1 (a program or file error) and 2 (bad usage)
const (
	exitPanic  = 3
	exitGoexit = 4
)

func exitStatus(err error) int {
	if perr, ok := panicerr.As(err); ok {
		if perr.Exit {
			return exitGoexit
		}
		return exitPanic
	}
	return 1
}

func errorFields(err error) []zap.Field {
	fields := []zap.Field{zap.Error(err)}
	if perr, ok := panicerr.As(err); ok && !perr.Exit {
		fields = append(fields, zap.ByteString("stack", perr.Stack))
	}
	return fields
}

func newLogger(trace bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	if trace {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

type command struct {
	fs     afero.Fs
	stdin  io.Reader
	stdout io.Writer
	log    *zap.Logger

	configPath  string
	threshold   int
	setThresh   bool
	noTier      bool
	repeat      int
	trace       bool
	dump        bool
	stats       bool
	metricsFile string
	files       []string
}

func parseCommand(args []string, stderr io.Writer) (*command, error) {
	var cmd command
	flags := flag.NewFlagSet("flock", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: flock [options] [FILE...]\n\n")
		fmt.Fprintf(stderr, "Runs each program FILE (or stdin), concurrently, sharing one compilation cache.\n\n")
		flags.PrintDefaults()
	}
	flags.StringVarP(&cmd.configPath, "config", "c", "", "YAML config file")
	flags.IntVarP(&cmd.threshold, "threshold", "t", DefaultThreshold, "interpreted executions before promotion")
	flags.BoolVar(&cmd.noTier, "no-tier", false, "always interpret, never promote")
	flags.IntVarP(&cmd.repeat, "repeat", "n", 1, "execute each program this many times")
	flags.BoolVar(&cmd.trace, "trace", false, "enable trace logging")
	flags.BoolVar(&cmd.dump, "dump", false, "log each program's bytecode listing")
	flags.BoolVar(&cmd.stats, "stats", false, "log cache statistics when done")
	flags.StringVar(&cmd.metricsFile, "metrics-file", "", "write prometheus metrics to this textfile when done")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	cmd.setThresh = flags.Changed("threshold")
	cmd.files = flags.Args()
	if cmd.repeat < 1 {
		return nil, errors.Errorf("invalid --repeat %v, must be at least 1", cmd.repeat)
	}
	return &cmd, nil
}

func (cmd *command) config() (Config, error) {
	cfg := DefaultConfig()
	if cmd.configPath != "" {
		var err error
		if cfg, err = LoadConfig(cmd.fs, cmd.configPath); err != nil {
			return cfg, err
		}
	}
	if cmd.setThresh {
		cfg.Threshold = cmd.threshold
	}
	if cmd.noTier {
		cfg.Tiered = false
	}
	return cfg, cfg.Validate()
}

type source struct {
	name string
	data []byte
}

func (cmd *command) sources() ([]source, error) {
	if len(cmd.files) == 0 {
		return cmd.appendSource(nil, "-")
	}
	var srcs []source
	for _, name := range cmd.files {
		var err error
		if srcs, err = cmd.appendSource(srcs, name); err != nil {
			return nil, err
		}
	}
	return srcs, nil
}

func (cmd *command) appendSource(srcs []source, name string) ([]source, error) {
	if name == "-" {
		data, err := io.ReadAll(cmd.stdin)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read stdin")
		}
		return append(srcs, source{"<stdin>", data}), nil
	}
	data, err := afero.ReadFile(cmd.fs, name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %v", name)
	}
	return append(srcs, source{name, data}), nil
}

func (cmd *command) run(ctx context.Context) error {
	cfg, err := cmd.config()
	if err != nil {
		return err
	}

	srcs, err := cmd.sources()
	if err != nil {
		return err
	}

	var cache *Cache
	if cfg.Tiered {
		cache = NewCache(cfg.Threshold)
	}

	var (
		reg     *prometheus.Registry
		metrics *Metrics
	)
	if cmd.metricsFile != "" {
		reg = prometheus.NewRegistry()
		metrics = NewMetrics(reg)
		if cache != nil {
			if err := WatchCache(reg, cache); err != nil {
				return errors.Wrap(err, "failed to register cache metrics")
			}
		}
	}

	// a failing program does not cancel the others
	outputs := make([]bytes.Buffer, len(srcs))
	var eg errgroup.Group
	for i, src := range srcs {
		i, src := i, src
		eg.Go(func() error {
			return panicerr.Recover(src.name, func() error {
				return cmd.runSource(ctx, src, &outputs[i],
					WithConfig(cfg),
					WithCache(cache),
					WithMetrics(metrics))
			})
		})
	}
	err = eg.Wait()

	for i := range outputs {
		if _, werr := outputs[i].WriteTo(cmd.stdout); err == nil {
			err = werr
		}
	}

	if cmd.stats && cache != nil {
		st := cache.Stats()
		cmd.log.Info("cache stats",
			zap.Int("threshold", cache.Threshold()),
			zap.Int("entries", st.Entries),
			zap.Int64("interpreted", st.Interpreted),
			zap.Int64("compiled", st.Compiled),
			zap.Int64("promotions", st.Promotions))
	}

	if reg != nil {
		if merr := prometheus.WriteToTextfile(cmd.metricsFile, reg); err == nil && merr != nil {
			err = errors.Wrapf(merr, "failed to write metrics to %v", cmd.metricsFile)
		}
	}

	return err
}

func (cmd *command) runSource(ctx context.Context, src source, out io.Writer, opts ...Option) error {
	log := cmd.log.Sugar().With("file", src.name)
	if cmd.trace {
		opts = append(opts,
			WithLogf(log.Debugf),
			WithTee(&logio.Writer{Logf: log.Debugf, Prefix: "out: "}))
	}
	eng := New(append([]Option{WithOutput(out)}, opts...)...)

	if cmd.dump {
		prog, err := bytecode.Emit(bytecode.Lex(string(src.data)))
		if err != nil {
			return errors.Wrapf(err, "%v", src.name)
		}
		lw := &logio.Writer{Logf: log.Infof}
		bytecode.Dump(lw, prog)
		lw.Close()
	}

	for i := 1; i <= cmd.repeat; i++ {
		if err := ctx.Err(); err != nil {
			eng.Close()
			return err
		}
		r := fileinput.Named(src.name, bytes.NewReader(src.data))
		if err := eng.ExecReader(r); err != nil {
			eng.Close()
			return errors.Wrapf(err, "%v execution #%v", src.name, i)
		}
	}
	return eng.Close()
}
