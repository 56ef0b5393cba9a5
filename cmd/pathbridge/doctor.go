package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/pathbridge/health"
)

var errUnhealthy = errors.New("preflight failed")

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check pipes, companion binary and route sink",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := cfg.Pipes.Paths()
		checks := []health.Status{
			health.PipeCheck(paths.Request).Named("request pipe"),
			health.PipeCheck(paths.Response).Named("response pipe"),
		}
		if cfg.Companion != nil && cfg.Companion.Command != "" {
			checks = append(checks, health.BinaryCheck(cfg.Companion.Command).Named("companion"))
		}
		if cfg.RouteSink.Enabled() {
			checks = append(checks, health.RedisCheck(cmd.Context(), cfg.RouteSink.URL).Named("route sink"))
		}

		overall := health.Combine(checks...)
		printStatus(cmd.OutOrStdout(), checks, overall)
		if overall.IsUnhealthy() {
			return errUnhealthy
		}
		return nil
	},
}

func printStatus(w io.Writer, checks []health.Status, overall health.Status) {
	for _, c := range checks {
		fmt.Fprintf(w, "%-14s %-9s %s\n", c.Name, c.Status, c.Message)
	}
	fmt.Fprintf(w, "%-14s %-9s %s\n", "overall", overall.Status, overall.Message)
}
