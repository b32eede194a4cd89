// Package compiler is the entry point of atomflag code generation. It
// loads the requested packages, finds the flag sets marked for
// generation and writes an atomic wrapper next to each of them.
//
//	cfg := gen.MustNewConfig(gen.WithWorkers(4))
//	if err := compiler.Generate(ctx, cfg, "./..."); err != nil {
//		log.Fatal(err)
//	}
package compiler

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/syssam/atomflag/compiler/gen"
	"github.com/syssam/atomflag/compiler/load"
)

// Generate loads the packages matching patterns and generates the wrappers
// of their flag sets. Declarations that fail to load or resolve are
// reported in the returned error; the remaining ones are still generated.
func Generate(ctx context.Context, cfg *gen.Config, patterns ...string) error {
	if cfg == nil {
		cfg = gen.MustNewConfig()
	}
	sets, loadErr := load.Load(ctx, cfg.LoadConfig(), patterns...)
	if len(sets) == 0 {
		if loadErr == nil && cfg.Logger != nil {
			cfg.Logger.Warn("no flag sets found", zap.Strings("patterns", patterns))
		}
		return loadErr
	}
	return errors.Join(loadErr, gen.NewGenerator(cfg).Generate(ctx, sets))
}

// Load returns the flag sets Generate would process, without writing
// anything.
func Load(ctx context.Context, cfg *gen.Config, patterns ...string) ([]*load.FlagSet, error) {
	if cfg == nil {
		cfg = gen.MustNewConfig()
	}
	return load.Load(ctx, cfg.LoadConfig(), patterns...)
}
