package gen

import (
	"errors"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/syssam/atomflag/compiler/load"
)

// Defaults used by NewConfig.
const (
	// DefaultHeader marks generated files, see https://go.dev/s/generatedcode.
	DefaultHeader = "Code generated by atomflag. DO NOT EDIT."
	// DefaultSuffix is appended to the snake-cased flag-set name.
	DefaultSuffix = "_atomic.go"
)

// Config holds the global codegen configuration.
type Config struct {
	// Header is the comment written at the top of each generated file.
	Header string
	// Suffix is the generated file name suffix.
	Suffix string
	// Workers bounds the number of wrappers generated concurrently.
	Workers int
	// Dir is the directory the loader runs the build system in.
	Dir string
	// BuildFlags are passed to the loader.
	BuildFlags []string
	// Manifest configures types without comment directives.
	Manifest *load.Manifest
	// Logger receives generation progress. Never nil after NewConfig.
	Logger *zap.Logger
}

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets the file header comment.
func WithHeader(header string) Option {
	return func(c *Config) error {
		if strings.TrimSpace(header) == "" {
			return NewConfigError("Header", nil, "header cannot be empty")
		}
		c.Header = header
		return nil
	}
}

// WithSuffix sets the generated file name suffix, e.g. "_atomic.go".
func WithSuffix(suffix string) Option {
	return func(c *Config) error {
		if !strings.HasSuffix(suffix, ".go") || strings.HasSuffix(suffix, "_test.go") {
			return NewConfigError("Suffix", suffix, "suffix must end with .go and must not name a test file")
		}
		c.Suffix = suffix
		return nil
	}
}

// WithWorkers sets the number of parallel workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithDir sets the directory packages are loaded from.
func WithDir(dir string) Option {
	return func(c *Config) error {
		c.Dir = dir
		return nil
	}
}

// WithBuildFlags sets custom build flags for loading packages.
func WithBuildFlags(flags ...string) Option {
	return func(c *Config) error {
		c.BuildFlags = append(c.BuildFlags, flags...)
		return nil
	}
}

// WithManifest sets the manifest selecting and configuring flag sets.
func WithManifest(m *load.Manifest) Option {
	return func(c *Config) error {
		c.Manifest = m
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Header:  DefaultHeader,
		Suffix:  DefaultSuffix,
		Workers: runtime.GOMAXPROCS(0),
		Logger:  zap.NewNop(),
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// LoadConfig returns the loader configuration matching c.
func (c *Config) LoadConfig() *load.Config {
	return &load.Config{
		Dir:             c.Dir,
		BuildFlags:      c.BuildFlags,
		Manifest:        c.Manifest,
		GeneratedSuffix: c.Suffix,
	}
}
