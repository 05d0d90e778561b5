// Package venv manages the lifecycle of Python virtual environments under a base directory.
package venv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"time"

	"go.trai.ch/warren/internal/core/domain"
	"go.trai.ch/warren/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// interpreterFamily prefixes bare version hints such as "3.12".
const interpreterFamily = "python"

var versionHint = regexp.MustCompile(`^\d+(\.\d+)*$`)

// Manager implements ports.EnvironmentManager on the local filesystem.
type Manager struct {
	basePath       string
	defaultEnv     string
	python         string
	execTimeout    time.Duration
	packageTimeout time.Duration

	locker   ports.Locker
	runner   ports.ProcessRunner
	metadata ports.MetadataStore
	logger   ports.Logger
	tracer   ports.Tracer

	probes singleflight.Group
}

// NewManager creates a Manager for the environments under cfg.BasePath.
func NewManager(
	cfg *domain.Config,
	locker ports.Locker,
	runner ports.ProcessRunner,
	metadata ports.MetadataStore,
	logger ports.Logger,
	tracer ports.Tracer,
) *Manager {
	return &Manager{
		basePath:       cfg.BasePath,
		defaultEnv:     cfg.DefaultEnv,
		python:         cfg.Python,
		execTimeout:    cfg.ExecTimeout,
		packageTimeout: cfg.PackageTimeout,
		locker:         locker,
		runner:         runner,
		metadata:       metadata,
		logger:         logger,
		tracer:         tracer,
	}
}

// BasePath returns the directory holding the environments.
func (m *Manager) BasePath() string {
	return m.basePath
}

// DefaultEnv returns the name used when a caller does not name an environment.
func (m *Manager) DefaultEnv() string {
	return m.defaultEnv
}

// Exists reports whether name is a complete environment.
// Invalid names and filesystem errors both report false.
func (m *Manager) Exists(name string) bool {
	if domain.ValidateName(name) != nil {
		return false
	}
	return isEnvironment(filepath.Join(m.basePath, name))
}

// Path returns the directory of the environment called name.
func (m *Manager) Path(name string) (string, error) {
	if err := domain.ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(m.basePath, name), nil
}

// Python returns the interpreter of the environment called name.
func (m *Manager) Python(name string) (string, error) {
	dir, err := m.Path(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, domain.PythonRelPath()), nil
}

// Create makes the environment called name using the interpreter selected by hint.
// An environment that already exists is reported with StatusExists and left untouched.
func (m *Manager) Create(ctx context.Context, name, hint string) (*domain.CreateResult, error) {
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}

	ctx, span := m.tracer.Start(ctx, "env.create")
	defer span.End()
	span.SetAttribute("env", name)

	var res *domain.CreateResult
	err := m.locker.WithLock(ctx, name, func(ctx context.Context) error {
		var err error
		res, err = m.create(ctx, name, hint)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("status", string(res.Status))
	return res, nil
}

// create must be called with the lock for name held.
func (m *Manager) create(ctx context.Context, name, hint string) (*domain.CreateResult, error) {
	dir := filepath.Join(m.basePath, name)
	if isEnvironment(dir) {
		return &domain.CreateResult{Name: name, Path: dir, Status: domain.StatusExists}, nil
	}

	interpreter := m.resolveInterpreter(hint)

	if err := m.bootstrap(ctx, interpreter, dir); err != nil {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			m.logger.Warn("failed to remove partial environment", "path", dir, "error", rmErr.Error())
		}
		err = domain.Fail(domain.ErrEnvironmentCreateFailed, err)
		err = zerr.With(err, "env", name)
		return nil, zerr.With(err, "interpreter", interpreter)
	}

	m.logger.Info("environment created", "env", name, "interpreter", interpreter)

	return &domain.CreateResult{
		Name:        name,
		Path:        dir,
		Status:      domain.StatusCreated,
		Interpreter: interpreter,
	}, nil
}

// bootstrap creates the environment without pip, installs pip from the bundled wheel and upgrades it.
func (m *Manager) bootstrap(ctx context.Context, interpreter, dir string) error {
	if err := os.MkdirAll(m.basePath, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create base directory"), "path", m.basePath)
	}

	envPython := filepath.Join(dir, domain.PythonRelPath())

	steps := []domain.Command{
		{Program: interpreter, Args: []string{"-I", "-m", "venv", "--without-pip", dir}},
		{Program: envPython, Args: []string{"-m", "ensurepip", "--upgrade", "--default-pip"}},
		{Program: envPython, Args: []string{"-m", "pip", "install", "--upgrade", "pip"}},
	}

	for _, step := range steps {
		step.Timeout = m.packageTimeout
		m.logger.Debug("running bootstrap step", "command", step.String())
		if _, err := m.runner.Run(ctx, step); err != nil {
			return err
		}
	}

	return nil
}

func (m *Manager) resolveInterpreter(hint string) string {
	switch {
	case hint == "":
		return m.python
	case versionHint.MatchString(hint):
		return interpreterFamily + hint
	default:
		return hint
	}
}

// Delete removes the environment called name.
// The default environment is only removed when force is set.
func (m *Manager) Delete(ctx context.Context, name string, force bool) (*domain.DeleteResult, error) {
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}

	ctx, span := m.tracer.Start(ctx, "env.delete")
	defer span.End()
	span.SetAttribute("env", name)
	span.SetAttribute("force", force)

	var res *domain.DeleteResult
	err := m.locker.WithLock(ctx, name, func(ctx context.Context) error {
		var err error
		res, err = m.delete(ctx, name, force)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("status", string(res.Status))
	return res, nil
}

func (m *Manager) delete(ctx context.Context, name string, force bool) (*domain.DeleteResult, error) {
	if name == m.defaultEnv && !force {
		return &domain.DeleteResult{Name: name, Status: domain.StatusConfirmationRequired}, nil
	}

	dir := filepath.Join(m.basePath, name)
	if !isEnvironment(dir) {
		return &domain.DeleteResult{Name: name, Status: domain.StatusNotFound}, nil
	}

	if err := os.RemoveAll(dir); err != nil {
		return nil, zerr.With(domain.Fail(domain.ErrEnvironmentDeleteFailed, err), "env", name)
	}

	if err := m.metadata.Remove(ctx, name); err != nil {
		m.logger.Warn("failed to remove environment metadata", "env", name, "error", err.Error())
	}

	m.logger.Info("environment deleted", "env", name)

	return &domain.DeleteResult{Name: name, Status: domain.StatusDeleted}, nil
}

// SetDescription records text as the description of an existing environment.
func (m *Manager) SetDescription(ctx context.Context, name, text string) error {
	if err := domain.ValidateName(name); err != nil {
		return err
	}

	ctx, span := m.tracer.Start(ctx, "env.describe")
	defer span.End()
	span.SetAttribute("env", name)

	err := m.locker.WithLock(ctx, name, func(ctx context.Context) error {
		if !isEnvironment(filepath.Join(m.basePath, name)) {
			return notFound(name)
		}
		return m.metadata.SetDescription(ctx, name, text)
	})
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// WithEnvironment runs fn under the lock for name once the environment exists,
// creating it with the default interpreter first when opts ask for that.
func (m *Manager) WithEnvironment(
	ctx context.Context,
	name string,
	opts ports.EnsureOptions,
	fn func(ctx context.Context, python string) error,
) error {
	if err := domain.ValidateName(name); err != nil {
		return err
	}

	return m.locker.WithLock(ctx, name, func(ctx context.Context) error {
		dir := filepath.Join(m.basePath, name)
		if !isEnvironment(dir) {
			if !opts.CreateIfMissing {
				return notFound(name)
			}
			if _, err := m.create(ctx, name, ""); err != nil {
				return err
			}
		}
		return fn(ctx, filepath.Join(dir, domain.PythonRelPath()))
	})
}

func notFound(name string) error {
	return zerr.With(
		zerr.Wrap(domain.ErrEnvironmentNotFound, fmt.Sprintf("environment %q does not exist", name)),
		"env", name,
	)
}

// isEnvironment reports whether dir holds both the marker file and an executable interpreter.
func isEnvironment(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, domain.MarkerFileName)); err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(dir, domain.PythonRelPath()))
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
