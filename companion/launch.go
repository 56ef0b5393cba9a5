package companion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/zero-day-ai/pathbridge/bridgeerr"
	"github.com/zero-day-ai/pathbridge/transport"
)

// Config describes how to start an external companion.
type Config struct {
	// Command is the name or path of the companion executable (required).
	Command string

	Args    []string
	WorkDir string

	// Env is the child environment in "KEY=value" form. Nil inherits the
	// parent's.
	Env []string

	// Paths are created as named pipes before the child starts when
	// CreatePipes is set.
	Paths       transport.Paths
	CreatePipes bool
	PipeMode    fs.FileMode

	// Stdout and Stderr receive the child's output. Nil means the parent's.
	Stdout io.Writer
	Stderr io.Writer
}

// Result is how a companion process ended.
type Result struct {
	ExitCode int
	Duration time.Duration
}

// Process is a running companion.
type Process struct {
	cmd    *exec.Cmd
	start  time.Time
	logger *slog.Logger
	done   chan struct{}
	result *Result
	err    error
}

// Launch creates the pipes if asked to and starts the companion. The child
// blocks on its pipe opens until the planner opens its ends, so Launch
// returns as soon as the process is running.
func Launch(ctx context.Context, cfg Config, logger *slog.Logger) (*Process, error) {
	if cfg.Command == "" {
		return nil, bridgeerr.New("companion", "launch", bridgeerr.ErrCodeInvalidConfig,
			"command is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.CreatePipes {
		mode := cfg.PipeMode
		if mode == 0 {
			mode = 0o600
		}
		for _, p := range []string{cfg.Paths.Request, cfg.Paths.Response} {
			if err := transport.EnsureFIFO(p, mode); err != nil {
				return nil, err
			}
		}
	}

	cmd := exec.CommandContext(ctx, cfg.Command, cfg.Args...)
	cmd.Dir = cfg.WorkDir
	if cfg.Env != nil {
		cmd.Env = cfg.Env
	}
	cmd.Stdout = cfg.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = cfg.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Start(); err != nil {
		return nil, bridgeerr.Newf("companion", "launch", bridgeerr.ErrCodeTransportFailure,
			"failed to start %s", cfg.Command).WithCause(err)
	}

	p := &Process{
		cmd:    cmd,
		start:  time.Now(),
		logger: logger.With("companion_pid", cmd.Process.Pid),
		done:   make(chan struct{}),
	}
	p.logger.Info("companion started", "command", cfg.Command, "args", cfg.Args)
	go p.wait()
	return p, nil
}

func (p *Process) wait() {
	defer close(p.done)

	err := p.cmd.Wait()
	p.result = &Result{Duration: time.Since(p.start)}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		p.result.ExitCode = exitErr.ExitCode()
	default:
		p.err = fmt.Errorf("companion wait failed: %w", err)
	}
	p.logger.Info("companion exited",
		"exit_code", p.result.ExitCode,
		"duration", p.result.Duration)
}

// Pid returns the child's process id.
func (p *Process) Pid() int { return p.cmd.Process.Pid }

// Done is closed when the process has exited.
func (p *Process) Done() <-chan struct{} { return p.done }

// Wait blocks until the process exits. A non-zero exit code is reported in
// the Result, not as an error.
func (p *Process) Wait() (*Result, error) {
	<-p.done
	return p.result, p.err
}

// Stop asks the companion to terminate and kills it if it is still running
// after grace.
func (p *Process) Stop(grace time.Duration) (*Result, error) {
	select {
	case <-p.done:
		return p.result, p.err
	default:
	}

	if err := p.cmd.Process.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
		p.logger.Warn("failed to signal companion", "error", err)
	}

	select {
	case <-p.done:
	case <-time.After(grace):
		p.logger.Warn("companion did not stop, killing", "grace", grace)
		if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return nil, fmt.Errorf("kill companion: %w", err)
		}
		<-p.done
	}
	return p.result, p.err
}
