package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/jcorbin/flock/internal/bytecode"
)

// DefaultThreshold is how many times a program is interpreted before its
// next execution promotes it.
const DefaultThreshold = 10

// SymbolTable maps each print symbol to its display value.
type SymbolTable [bytecode.NumSymbols]string

// DefaultSymbols is the stock symbol table.
var DefaultSymbols = SymbolTable{"duck", "goose", "swan", "finch"}

// Lookup returns the display value of sym.
func (st SymbolTable) Lookup(sym bytecode.Symbol) (string, bool) {
	if int(sym) < len(st) {
		return st[sym], true
	}
	return "", false
}

// UnmarshalYAML decodes a mapping like {a: duck, b: goose}; keys are the
// symbol letters in any case, and symbols left out keep their prior value.
func (st *SymbolTable) UnmarshalYAML(node *yaml.Node) error {
	var values map[string]string
	if err := node.Decode(&values); err != nil {
		return err
	}
	for key, value := range values {
		tok := bytecode.Classify(key)
		sym, ok := tok.Kind.Symbol()
		if !ok {
			return fmt.Errorf("line %v: unknown symbol %q", node.Line, key)
		}
		st[sym] = value
	}
	return nil
}

// MarshalYAML encodes st as a mapping from symbol letter to value.
func (st SymbolTable) MarshalYAML() (interface{}, error) {
	values := make(map[string]string, len(st))
	for i, value := range st {
		values[bytecode.Symbol(i).String()] = value
	}
	return values, nil
}

// Config collects the tunables of an Engine.
type Config struct {
	// Threshold is how many executions of a program are interpreted before
	// promotion; must not be negative.
	Threshold int `yaml:"threshold"`

	// Tiered enables the compilation cache; when false every execution is
	// interpreted.
	Tiered bool `yaml:"tiered"`

	Symbols SymbolTable `yaml:"symbols"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Threshold: DefaultThreshold,
		Tiered:    true,
		Symbols:   DefaultSymbols,
	}
}

// Validate checks cfg for values that New cannot use.
func (cfg Config) Validate() error {
	if cfg.Threshold < 0 {
		return errors.Errorf("invalid threshold %v, must not be negative", cfg.Threshold)
	}
	return nil
}

// ParseConfig decodes YAML over DefaultConfig, rejecting unknown fields.
func ParseConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return cfg, errors.Wrap(err, "failed to decode config")
	}
	return cfg, cfg.Validate()
}

// LoadConfig reads a YAML config file from fs.
func LoadConfig(fs afero.Fs, name string) (Config, error) {
	data, err := afero.ReadFile(fs, name)
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to read config %v", name)
	}
	cfg, err := ParseConfig(bytes.NewReader(data))
	if err != nil {
		return Config{}, errors.WithMessagef(err, "config %v", name)
	}
	return cfg, nil
}

// String returns cfg as YAML, or a "!config" comment line describing why it
// could not be encoded.
func (cfg Config) String() string {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Sprintf("# !config(%v)\n", err)
	}
	return string(data)
}
