package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/pathbridge/transport"
)

var mkfifoCmd = &cobra.Command{
	Use:   "mkfifo",
	Short: "Create both named pipes",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := cfg.Pipes.Paths()
		mode := cfg.Pipes.GetMode()
		for _, p := range []string{paths.Request, paths.Response} {
			if err := transport.EnsureFIFO(p, mode); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	},
}
