package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/syssam/atomflag/compiler"
	"github.com/syssam/atomflag/compiler/gen"
)

func (c *cli) newPreviewCmd() *cobra.Command {
	var flags genFlags
	cmd := &cobra.Command{
		Use:   "preview [packages]",
		Short: "Print the wrappers that gen would write",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config(c.logger, "")
			if err != nil {
				return err
			}
			sets, err := compiler.Load(cmd.Context(), cfg, args...)
			errs := []error{err}
			for _, fs := range sets {
				w, err := gen.Synthesize(fs)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				path := filepath.Join(fs.Dir, w.FileName(cfg.Suffix))
				out, err := gen.Render(gen.Emit(w, cfg.Header), path)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "// %s\n%s\n", path, out)
			}
			return errors.Join(errs...)
		},
	}
	flags.register(cmd.Flags())
	return cmd
}
