package ports

import (
	"context"

	"go.trai.ch/warren/internal/core/domain"
)

// EnsureOptions controls WithEnvironment.
type EnsureOptions struct {
	// CreateIfMissing creates the environment with the default interpreter when absent.
	CreateIfMissing bool
}

// EnvironmentManager owns the lifecycle of the environments under the base path.
//
//go:generate mockgen -source=environment.go -destination=mocks/mock_environment.go -package=mocks
type EnvironmentManager interface {
	// Exists reports whether name is a complete environment. It never fails.
	Exists(name string) bool
	// Path returns the directory of a validated environment name.
	Path(name string) (string, error)
	// Python returns the interpreter path inside a validated environment name.
	Python(name string) (string, error)

	// Create makes a new environment, or reports StatusExists when one is already present.
	Create(ctx context.Context, name, interpreterHint string) (*domain.CreateResult, error)
	// Delete removes an environment. The default environment requires force.
	Delete(ctx context.Context, name string, force bool) (*domain.DeleteResult, error)
	// List returns the sorted names of all environments.
	List(ctx context.Context) ([]string, error)
	// Details returns every environment with its package count, version and description.
	Details(ctx context.Context) ([]domain.Environment, error)
	// SetDescription records a description for an existing environment.
	SetDescription(ctx context.Context, name, text string) error

	// WithEnvironment runs fn under the environment's lock once it is known to exist.
	WithEnvironment(
		ctx context.Context,
		name string,
		opts EnsureOptions,
		fn func(ctx context.Context, python string) error,
	) error
}
