package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

type app struct {
	verbose bool
	log     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: slog.New(slog.DiscardHandler)}

	root := &cobra.Command{
		Use:   "listfield",
		Short: "Edit key/value maps and message type tags",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if a.verbose {
				level = slog.LevelDebug
			}
			a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(a.editCmd())
	root.AddCommand(a.suggestCmd())
	root.AddCommand(a.serveCmd())
	root.AddCommand(a.operationsCmd())
	return root
}
