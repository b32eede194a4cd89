package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/syssam/atomflag/compiler"
	"github.com/syssam/atomflag/compiler/gen"
	"github.com/syssam/atomflag/compiler/load"
)

// genFlags are the generation flags shared by gen, preview and watch.
type genFlags struct {
	manifest string
	header   string
	suffix   string
	workers  int
	tags     string
}

func (f *genFlags) register(set *pflag.FlagSet) {
	set.StringVar(&f.manifest, "manifest", "", "manifest configuring flag sets (default "+load.DefaultManifest+" if present)")
	set.StringVar(&f.header, "header", gen.DefaultHeader, "header comment of generated files")
	set.StringVar(&f.suffix, "suffix", gen.DefaultSuffix, "generated file name suffix")
	set.IntVar(&f.workers, "workers", 0, "number of wrappers generated concurrently (default GOMAXPROCS)")
	set.StringVar(&f.tags, "tags", "", "comma-separated build tags used when loading packages")
}

// config builds the generator configuration from the flags.
func (f *genFlags) config(logger *zap.Logger, dir string) (*gen.Config, error) {
	opts := []gen.Option{
		gen.WithLogger(logger),
		gen.WithHeader(f.header),
		gen.WithSuffix(f.suffix),
		gen.WithDir(dir),
	}
	if f.workers != 0 {
		opts = append(opts, gen.WithWorkers(f.workers))
	}
	if f.tags != "" {
		opts = append(opts, gen.WithBuildFlags("-tags="+f.tags))
	}
	m, err := f.readManifest(dir)
	if err != nil {
		return nil, err
	}
	if m != nil {
		opts = append(opts, gen.WithManifest(m))
	}
	cfg, err := gen.NewConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyAll(opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readManifest reads the manifest named by --manifest, or the default
// manifest of dir when it exists.
func (f *genFlags) readManifest(dir string) (*load.Manifest, error) {
	path := f.manifest
	if path == "" {
		path = filepath.Join(dir, load.DefaultManifest)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
	}
	m, err := load.ReadManifest(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return m, nil
}

func (c *cli) newGenCmd() *cobra.Command {
	var flags genFlags
	cmd := &cobra.Command{
		Use:   "gen [packages]",
		Short: "Generate the wrappers of the flag sets in packages",
		Example: `  atomflag gen .
  atomflag gen --tags integration ./...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config(c.logger, "")
			if err != nil {
				return err
			}
			return compiler.Generate(cmd.Context(), cfg, args...)
		},
	}
	flags.register(cmd.Flags())
	return cmd
}
