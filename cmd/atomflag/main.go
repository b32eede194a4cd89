// atomflag generates atomic wrappers for bit-flag types.
//
//	//go:generate go run github.com/syssam/atomflag/cmd/atomflag gen .
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cli holds the flags shared by all commands.
type cli struct {
	verbose bool
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{logger: zap.NewNop()}
	root := &cobra.Command{
		Use:   "atomflag",
		Short: "Generate atomic wrappers for bit-flag types",
		Long: `atomflag generates, for every integer type marked with

	//atomflag:gen [ownership="Arc"|"Rc"]

a wrapper type AtomicT holding the flag set in a sync/atomic integer.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if c.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			c.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.logger.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")
	root.AddCommand(
		c.newGenCmd(),
		c.newPreviewCmd(),
		c.newWatchCmd(),
		newVersionCmd(),
	)
	return root
}
