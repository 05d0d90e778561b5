// Package process runs external programs with timeouts and captured output.
package process

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	"go.trai.ch/warren/internal/core/domain"
	"go.trai.ch/warren/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// maxCaptureBytes caps the captured stdout and stderr of a single process.
	maxCaptureBytes = 4 << 20

	// maxErrorOutput caps the stderr excerpt attached to process errors.
	maxErrorOutput = 2048

	// waitDelay bounds how long Wait blocks on output pipes after the process was killed.
	waitDelay = 5 * time.Second
)

// Runner implements ports.ProcessRunner using os/exec.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run executes c without a shell and waits for it to exit.
func (r *Runner) Run(ctx context.Context, c domain.Command) (*domain.ProcessResult, error) {
	if c.Program == "" {
		return nil, domain.ErrEmptyCommand
	}

	runCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	//nolint:gosec // argument vector, no shell involved
	cmd := exec.CommandContext(runCtx, c.Program, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	stdout := newCapture(r.logger, "stdout", maxCaptureBytes)
	stderr := newCapture(r.logger, "stderr", maxCaptureBytes)
	cmd.Stdout = tee(stdout, c.Stdout)
	cmd.Stderr = tee(stderr, c.Stderr)

	r.logger.Debug("running command", "command", c.String(), "timeout", c.Timeout)

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	_ = stdout.Close()
	_ = stderr.Close()

	result := &domain.ProcessResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: elapsed,
	}

	if runErr == nil {
		r.logger.Debug("command finished", "command", c.Program, "duration", elapsed)
		return result, nil
	}

	if ctx.Err() == nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		result.ExitCode = -1
		return result, zerr.With(
			zerr.With(zerr.Wrap(domain.ErrProcessTimeout, c.String()), "timeout", c.Timeout.String()),
			"command", c.Program,
		)
	}

	if ctx.Err() != nil {
		result.ExitCode = -1
		return result, zerr.With(zerr.Wrap(ctx.Err(), "command cancelled"), "command", c.String())
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		err := zerr.With(zerr.Wrap(domain.ErrProcessFailed, c.String()), "exit_code", result.ExitCode)
		if excerpt := tail(result.Stderr, maxErrorOutput); excerpt != "" {
			err = zerr.With(err, "stderr", excerpt)
		}
		return result, err
	}

	return nil, zerr.With(domain.Fail(domain.ErrProcessStartFailed, runErr), "command", c.String())
}

func tee(capture io.Writer, stream io.Writer) io.Writer {
	if stream == nil {
		return capture
	}
	return io.MultiWriter(capture, stream)
}

// tail returns at most n trailing bytes of s.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
