package process

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"

	"go.trai.ch/warren/internal/core/domain"
	"go.trai.ch/warren/internal/core/ports"
	"go.trai.ch/zerr"
)

// activationScript sources the environment's activate script and replaces the shell
// with the requested command. The environment path arrives as $1 and the command as
// the remaining positional parameters, so neither is ever parsed by the shell.
const activationScript = `. "$1/bin/activate" && shift && exec "$@"`

// Activator implements ports.ActivationRunner on top of a ProcessRunner.
type Activator struct {
	runner ports.ProcessRunner
}

// NewActivator creates a new Activator.
func NewActivator(runner ports.ProcessRunner) *Activator {
	return &Activator{runner: runner}
}

// RunActivated runs cmd with envPath's activate script sourced.
func (a *Activator) RunActivated(
	ctx context.Context,
	envPath string,
	cmd domain.Command,
) (*domain.ProcessResult, error) {
	if runtime.GOOS == "windows" {
		return nil, zerr.With(domain.ErrUnsupportedPlatform, "operation", "activate")
	}
	if cmd.Program == "" {
		return nil, domain.ErrEmptyCommand
	}
	if envPath == "" || strings.ContainsAny(envPath, "\x00\n") {
		return nil, zerr.Wrap(domain.ErrUnsafeActivationPath, "cannot activate environment")
	}
	for _, arg := range cmd.Args {
		if strings.ContainsRune(arg, 0) {
			return nil, zerr.Wrap(domain.ErrUnsafeActivationPath, "command argument contains NUL")
		}
	}

	args := make([]string, 0, len(cmd.Args)+5)
	args = append(args, "-c", activationScript, "warren-activate", filepath.Clean(envPath), cmd.Program)
	args = append(args, cmd.Args...)

	return a.runner.Run(ctx, domain.Command{
		Program: "/bin/sh",
		Args:    args,
		Env:     cmd.Env,
		Dir:     cmd.Dir,
		Timeout: cmd.Timeout,
		Stdout:  cmd.Stdout,
		Stderr:  cmd.Stderr,
	})
}
