// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/warren/internal/core/domain"
)

// ProcessRunner executes external programs without a shell.
//
//go:generate mockgen -source=process.go -destination=mocks/mock_process.go -package=mocks
type ProcessRunner interface {
	// Run executes cmd and waits for it to finish.
	//
	// The returned result is populated whenever the process started, including when it
	// exits with a non-zero status, so callers can inspect the output of a failure.
	// A non-zero exit yields domain.ErrProcessFailed and an exceeded timeout yields
	// domain.ErrProcessTimeout.
	Run(ctx context.Context, cmd domain.Command) (*domain.ProcessResult, error)
}

// ActivationRunner runs a command inside an activated environment.
//
// This is the only place a shell is involved. The activation script is constant and
// both the environment path and the command are passed as positional parameters.
type ActivationRunner interface {
	RunActivated(ctx context.Context, envPath string, cmd domain.Command) (*domain.ProcessResult, error)
}
