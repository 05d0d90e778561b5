package ports

import (
	"context"

	"go.trai.ch/warren/internal/core/domain"
)

// PackageInstaller manages the packages installed in an environment.
//
//go:generate mockgen -source=installer.go -destination=mocks/mock_installer.go -package=mocks
type PackageInstaller interface {
	// Install installs specs into env, creating env when it does not exist yet.
	Install(ctx context.Context, env string, specs []string) (*domain.InstallResult, error)
	// Uninstall removes specs from an existing env.
	Uninstall(ctx context.Context, env string, specs []string) (*domain.UninstallResult, error)
	// List returns canonical package names mapped to installed versions.
	List(ctx context.Context, env string) (map[string]string, error)
}
