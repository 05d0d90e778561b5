// Package app implements the application layer for warren.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.trai.ch/warren/internal/core/domain"
	"go.trai.ch/warren/internal/core/ports"
	"go.trai.ch/zerr"
)

// Operation names recorded with metrics.
const (
	OpCreate    = "create"
	OpDelete    = "delete"
	OpList      = "list"
	OpDetails   = "details"
	OpDescribe  = "describe"
	OpInstall   = "install"
	OpUninstall = "uninstall"
	OpPackages  = "packages"
	OpRun       = "run"
)

// App maps caller requests onto the environment manager and the package installer
// and reports each outcome as a domain.Report.
//
// Requests rejected as invalid input become reports with StatusError. Internal failures are
// returned as errors.
type App struct {
	envs       ports.EnvironmentManager
	installer  ports.PackageInstaller
	activator  ports.ActivationRunner
	metrics    ports.Metrics
	logger     ports.Logger
	defaultEnv string
	runTimeout time.Duration
}

// New creates a new App instance.
func New(
	cfg *domain.Config,
	envs ports.EnvironmentManager,
	installer ports.PackageInstaller,
	activator ports.ActivationRunner,
	metrics ports.Metrics,
	logger ports.Logger,
) *App {
	return &App{
		envs:       envs,
		installer:  installer,
		activator:  activator,
		metrics:    metrics,
		logger:     logger,
		defaultEnv: cfg.DefaultEnv,
		runTimeout: cfg.RunTimeout,
	}
}

// DefaultEnv returns the environment used when a request names none.
func (a *App) DefaultEnv() string {
	return a.defaultEnv
}

func (a *App) resolve(name string) string {
	if name == "" {
		return a.defaultEnv
	}
	return name
}

// finish records the outcome of op and converts invalid input into an error report.
func (a *App) finish(op, env string, start time.Time, report *domain.Report, err error) (*domain.Report, error) {
	if err != nil {
		if !domain.IsInvalidInput(err) {
			a.metrics.ObserveOperation(op, string(domain.StatusError), time.Since(start))
			return nil, err
		}
		report = &domain.Report{Status: domain.StatusError, Env: env, Message: err.Error()}
	}

	a.metrics.ObserveOperation(op, string(report.Status), time.Since(start))
	return report, nil
}

// Create creates the named environment, or the default one when name is empty.
func (a *App) Create(ctx context.Context, name, python string) (*domain.Report, error) {
	start := time.Now()
	env := a.resolve(name)

	res, err := a.envs.Create(ctx, env, python)
	if err != nil {
		return a.finish(OpCreate, env, start, nil, err)
	}

	report := &domain.Report{Status: res.Status, Env: env}
	switch res.Status {
	case domain.StatusExists:
		report.Message = fmt.Sprintf("environment %q already exists at %s", env, res.Path)
	default:
		report.Message = fmt.Sprintf("created environment %q at %s using %s", env, res.Path, res.Interpreter)
	}
	return a.finish(OpCreate, env, start, report, nil)
}

// Delete removes the named environment. The default environment requires force.
func (a *App) Delete(ctx context.Context, name string, force bool) (*domain.Report, error) {
	start := time.Now()
	env := a.resolve(name)

	res, err := a.envs.Delete(ctx, env, force)
	if err != nil {
		return a.finish(OpDelete, env, start, nil, err)
	}

	report := &domain.Report{Status: res.Status, Env: env}
	switch res.Status {
	case domain.StatusConfirmationRequired:
		report.Message = fmt.Sprintf("%q is the default environment; delete it with force", env)
	case domain.StatusNotFound:
		report.Message = fmt.Sprintf("environment %q does not exist", env)
	default:
		report.Message = fmt.Sprintf("deleted environment %q", env)
	}
	return a.finish(OpDelete, env, start, report, nil)
}

// List reports the names of all environments.
func (a *App) List(ctx context.Context) (*domain.Report, error) {
	start := time.Now()

	names, err := a.envs.List(ctx)
	if err != nil {
		return a.finish(OpList, "", start, nil, err)
	}

	report := &domain.Report{
		Status:  domain.StatusSuccess,
		Message: fmt.Sprintf("%d environment(s)", len(names)),
		Names:   names,
	}
	return a.finish(OpList, "", start, report, nil)
}

// Details reports every environment with its package count, interpreter version and description.
func (a *App) Details(ctx context.Context) (*domain.Report, error) {
	start := time.Now()

	envs, err := a.envs.Details(ctx)
	if err != nil {
		return a.finish(OpDetails, "", start, nil, err)
	}

	report := &domain.Report{
		Status:       domain.StatusSuccess,
		Message:      fmt.Sprintf("%d environment(s)", len(envs)),
		Environments: envs,
	}
	return a.finish(OpDetails, "", start, report, nil)
}

// Describe records a description for an existing environment.
func (a *App) Describe(ctx context.Context, name, text string) (*domain.Report, error) {
	start := time.Now()
	env := a.resolve(name)

	if err := a.envs.SetDescription(ctx, env, text); err != nil {
		return a.finish(OpDescribe, env, start, nil, err)
	}

	report := &domain.Report{
		Status:  domain.StatusSuccess,
		Env:     env,
		Message: fmt.Sprintf("updated description of %q", env),
	}
	return a.finish(OpDescribe, env, start, report, nil)
}

// Install installs packages into the named environment, creating it when needed.
func (a *App) Install(ctx context.Context, name string, packages []string) (*domain.Report, error) {
	start := time.Now()
	env := a.resolve(name)

	res, err := a.installer.Install(ctx, env, packages)
	if err != nil {
		return a.finish(OpInstall, env, start, nil, err)
	}

	report := &domain.Report{
		Status:   res.Status,
		Env:      env,
		Tier:     res.Tier,
		Packages: res.Packages,
		Message:  summarize("installed", res.Packages),
	}
	return a.finish(OpInstall, env, start, report, nil)
}

// Uninstall removes packages from the named environment.
func (a *App) Uninstall(ctx context.Context, name string, packages []string) (*domain.Report, error) {
	start := time.Now()
	env := a.resolve(name)

	res, err := a.installer.Uninstall(ctx, env, packages)
	if err != nil {
		return a.finish(OpUninstall, env, start, nil, err)
	}

	report := &domain.Report{
		Status:   res.Status,
		Env:      env,
		Packages: res.Packages,
		Message:  summarize("uninstalled", res.Packages),
	}
	return a.finish(OpUninstall, env, start, report, nil)
}

// Packages reports the packages installed in the named environment.
func (a *App) Packages(ctx context.Context, name string) (*domain.Report, error) {
	start := time.Now()
	env := a.resolve(name)

	installed, err := a.installer.List(ctx, env)
	if err != nil {
		return a.finish(OpPackages, env, start, nil, err)
	}

	report := &domain.Report{
		Status:    domain.StatusSuccess,
		Env:       env,
		Installed: installed,
		Message:   fmt.Sprintf("%d package(s) installed", len(installed)),
	}
	return a.finish(OpPackages, env, start, report, nil)
}

// Run executes argv inside the activated environment, streaming its output to stdout and stderr.
// It returns the exit code of the command.
func (a *App) Run(ctx context.Context, name string, argv []string, stdout, stderr io.Writer) (int, error) {
	start := time.Now()
	env := a.resolve(name)

	code, err := a.run(ctx, env, argv, stdout, stderr)

	status := domain.StatusSuccess
	if err != nil || code != 0 {
		status = domain.StatusError
	}
	a.metrics.ObserveOperation(OpRun, string(status), time.Since(start))

	return code, err
}

func (a *App) run(ctx context.Context, env string, argv []string, stdout, stderr io.Writer) (int, error) {
	if len(argv) == 0 {
		return 0, zerr.Wrap(domain.ErrInvalidInput, "a command to run is required")
	}

	dir, err := a.envs.Path(env)
	if err != nil {
		return 0, err
	}
	if !a.envs.Exists(env) {
		return 0, zerr.With(
			zerr.Wrap(domain.ErrEnvironmentNotFound, fmt.Sprintf("environment %q does not exist", env)),
			"env", env,
		)
	}

	// Commands run without the environment lock; runTimeout bounds them.
	res, err := a.activator.RunActivated(ctx, dir, domain.Command{
		Program: argv[0],
		Args:    argv[1:],
		Stdout:  stdout,
		Stderr:  stderr,
		Timeout: a.runTimeout,
	})
	if err != nil {
		if res != nil && res.ExitCode > 0 && errors.Is(err, domain.ErrProcessFailed) {
			a.logger.Debug("command exited with non-zero status", "env", env, "exit_code", res.ExitCode)
			return res.ExitCode, nil
		}
		if errors.Is(err, domain.ErrProcessTimeout) {
			a.logger.Warn("command timed out", "env", env, "timeout", a.runTimeout)
		}
		return -1, err
	}
	return res.ExitCode, nil
}

func summarize(verb string, outcomes []domain.PackageOutcome) string {
	ok := 0
	for _, o := range outcomes {
		if o.Status == domain.PackageSuccess {
			ok++
		}
	}
	return fmt.Sprintf("%s %d of %d package(s)", verb, ok, len(outcomes))
}
