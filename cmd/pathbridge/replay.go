package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/zero-day-ai/pathbridge"
	"github.com/zero-day-ai/pathbridge/companion"
	"github.com/zero-day-ai/pathbridge/routesink"
	"github.com/zero-day-ai/pathbridge/telemetry"
	"github.com/zero-day-ai/pathbridge/transport"
)

var replayDump bool

// stopGrace bounds how long a launched companion gets to exit on SIGTERM.
const stopGrace = 5 * time.Second

var launchCompanion = companion.Launch

var replayCmd = &cobra.Command{
	Use:   "replay <plan>",
	Short: "Cost a plan with the companion and replay its routes",
	Long: `Reads a plan, one action per line ("MOVE_TO ROBOT C1_1 C4_2"), asks the
companion for the heuristic and cost of every action, replays the plan so the
companion prints each route, then sends shutdown.

If companion.start is set the companion command is launched first.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&replayDump, "dump", false, "print the memo tables before shutdown")
}

func runReplay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open plan: %w", err)
	}
	plan, err := pathbridge.ReadPlan(f)
	pathbridge.CloseWithLog(f, logger, "plan file")
	if err != nil {
		return err
	}
	if len(plan) == 0 || !plan[len(plan)-1].IsGoal() {
		plan = append(plan, pathbridge.Goal())
	}

	paths := cfg.Pipes.Paths()
	if cfg.Pipes.ShouldCreate() {
		for _, p := range []string{paths.Request, paths.Response} {
			if err := transport.EnsureFIFO(p, cfg.Pipes.GetMode()); err != nil {
				return err
			}
		}
	}

	var proc *companion.Process
	if cfg.Companion != nil && cfg.Companion.Start {
		proc, err = launchCompanion(ctx, companion.Config{
			Command: cfg.Companion.Command,
			Args:    cfg.Companion.Args,
			WorkDir: cfg.Companion.WorkDir,
			Paths:   paths,
		}, logger)
		if err != nil {
			return err
		}
		// A no-op once the companion has exited after shutdown.
		defer func() {
			if _, err := proc.Stop(stopGrace); err != nil {
				logger.Warn("failed to stop companion", "error", err)
			}
		}()
	}

	opts, cleanup, err := sessionOptions(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	s, err := pathbridge.Open(ctx, append(opts, pathbridge.WithPaths(paths))...)
	if err != nil {
		return err
	}

	var h, c float64
	for _, a := range plan {
		h += s.Heuristic(ctx, a)
		c += s.Cost(ctx, a)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "; heuristic %.2f, cost %.2f\n", h, c)

	s.AnnouncePlan(ctx, plan)

	if replayDump {
		if err := s.Dump(cmd.OutOrStdout()); err != nil {
			logger.Warn("failed to dump memo tables", "error", err)
		}
	}

	if err := s.Close(ctx); err != nil {
		return err
	}

	if proc != nil {
		res, err := proc.Wait()
		if err != nil {
			return err
		}
		if res.ExitCode != 0 {
			return fmt.Errorf("companion exited with code %d", res.ExitCode)
		}
	}
	return nil
}

// sessionOptions builds the session options from the loaded configuration.
// cleanup flushes the tracer and meter providers.
func sessionOptions(ctx context.Context) ([]pathbridge.Option, func(), error) {
	classifier, err := cfg.Actions.Classifier()
	if err != nil {
		return nil, nil, err
	}

	opts := []pathbridge.Option{
		pathbridge.WithLogger(logger),
		pathbridge.WithClassifier(classifier),
		pathbridge.WithCellMarker(cfg.Actions.GetCellMarker()),
		pathbridge.WithFormat(cfg.Protocol.Format()),
		pathbridge.WithOutput(os.Stdout),
	}
	cleanup := func() {}

	if cfg.RouteSink.Enabled() {
		ttl, err := cfg.RouteSink.GetTTL()
		if err != nil {
			return nil, nil, err
		}
		sink, err := routesink.NewRedis(routesink.Options{
			URL:    cfg.RouteSink.URL,
			Prefix: cfg.RouteSink.Prefix,
			TTL:    ttl,
		})
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, pathbridge.WithRouteSink(sink))
	}

	if cfg.Telemetry.IsEnabled() {
		tp := telemetry.NewTracerProvider("pathbridge", logger, telemetry.NewLogExporter(logger))
		mp := telemetry.NewMeterProvider("pathbridge", logger,
			sdkmetric.NewPeriodicReader(telemetry.NewLogMetricExporter(logger)))
		opts = append(opts,
			pathbridge.WithTracerProvider(tp),
			pathbridge.WithMeterProvider(mp))
		cleanup = func() {
			sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(sctx); err != nil {
				logger.Warn("failed to shut down tracer provider", "error", err)
			}
			if err := mp.Shutdown(sctx); err != nil {
				logger.Warn("failed to shut down meter provider", "error", err)
			}
		}
	}

	return opts, cleanup, nil
}
