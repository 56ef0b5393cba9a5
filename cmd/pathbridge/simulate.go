package main

import (
	"github.com/spf13/cobra"

	"github.com/zero-day-ai/pathbridge/companion"
	"github.com/zero-day-ai/pathbridge/transport"
)

var (
	simWidth   int
	simHeight  int
	simBlocked []string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the reference grid companion on the configured pipes",
	Long: `Runs an in-process companion over a grid of cells named C<x>_<y>.
Heuristics are octile distances; costs and routes come from an A* search
that avoids the --blocked cells. The companion exits when the planner sends
shutdown and prints the accumulated route cost.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := cfg.Pipes.Paths()
		if cfg.Pipes.ShouldCreate() {
			for _, p := range []string{paths.Request, paths.Response} {
				if err := transport.EnsureFIFO(p, cfg.Pipes.GetMode()); err != nil {
					return err
				}
			}
		}

		logger.Info("waiting for planner", "request", paths.Request, "response", paths.Response)
		d, err := transport.OpenCompanion(paths, transport.WithLogger(logger))
		if err != nil {
			return err
		}
		defer d.Close()

		sim := companion.NewSim(cmd.OutOrStdout(),
			companion.WithGrid(simWidth, simHeight),
			companion.WithBlocked(simBlocked...))
		return companion.Serve(cmd.Context(), d, cfg.Protocol.Format(), sim, logger)
	},
}

func init() {
	simulateCmd.Flags().IntVar(&simWidth, "width", companion.DefaultGridSize, "grid width in cells")
	simulateCmd.Flags().IntVar(&simHeight, "height", companion.DefaultGridSize, "grid height in cells")
	simulateCmd.Flags().StringSliceVar(&simBlocked, "blocked", nil, "impassable cells, e.g. C1_1,C1_2")
}
