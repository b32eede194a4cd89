package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/syssam/atomflag/compiler/watch"
)

func (c *cli) newWatchCmd() *cobra.Command {
	var (
		flags    genFlags
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch [dir] [packages]",
		Short: "Regenerate wrappers whenever the sources in dir change",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir, args = args[0], args[1:]
			}
			cfg, err := flags.config(c.logger, dir)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return watch.New(cfg, dir, args,
				watch.WithDebounce(debounce),
				watch.WithManifest(flags.manifest),
			).Run(ctx)
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before regenerating")
	return cmd
}
