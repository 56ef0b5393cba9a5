// Command pathbridge drives and inspects the bridge between a task planner and
// its path-planning companion.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/pathbridge/config"
)

var (
	configPath string
	envFile    string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pathbridge",
	Short: "Bridge between a symbolic task planner and a path planner",
	Long: `pathbridge connects a task planner to a companion path planner over two
named pipes. Move costs and heuristics are memoized per pair of cells, and the
final plan is replayed to the companion so it can print the concrete routes.

Configuration is read from pathbridge.yaml (searched upwards from the current
directory unless --config is given) and PATHBRIDGE_* environment variables,
optionally loaded from a .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnvFile(envFile); err != nil {
			return err
		}

		var err error
		cfg, err = loadConfig(configPath)
		if err != nil {
			return err
		}
		if err := cfg.ApplyOSEnv(); err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger = newLogger(cfg.Log, os.Stderr)
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to pathbridge.yaml")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with PATHBRIDGE_* overrides")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(doctorCmd, mkfifoCmd, simulateCmd, replayCmd)
}

// loadConfig reads path, or searches for pathbridge.yaml when path is empty.
// Having no file at all is fine; defaults apply.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	c, err := config.LoadFromDir(".")
	if err != nil {
		return &config.Config{}, nil
	}
	return c, nil
}

func newLogger(lc *config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch lc.GetLevel() {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if lc.GetFormat() == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errUnhealthy) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}
