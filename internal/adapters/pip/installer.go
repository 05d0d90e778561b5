// Package pip installs and removes Python packages inside managed environments.
package pip

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"go.trai.ch/warren/internal/core/domain"
	"go.trai.ch/warren/internal/core/ports"
	"go.trai.ch/zerr"
)

// listScript prints the installed distributions as a JSON object of name to version.
const listScript = `import json, importlib.metadata as m
print(json.dumps({d.metadata["Name"]: d.version for d in m.distributions() if d.metadata["Name"]}))`

const (
	outcomeSuccess = "success"
	outcomeFailed  = "failed"
	outcomePartial = "partial"
)

// pipEnv keeps pip from prompting or checking for its own updates.
var pipEnv = []string{"PIP_NO_INPUT=1", "PIP_DISABLE_PIP_VERSION_CHECK=1"}

// Installer implements ports.PackageInstaller with pip.
type Installer struct {
	envs           ports.EnvironmentManager
	runner         ports.ProcessRunner
	logger         ports.Logger
	tracer         ports.Tracer
	metrics        ports.Metrics
	execTimeout    time.Duration
	packageTimeout time.Duration
	eligible       map[string]struct{}
}

// NewInstaller creates an Installer. cfg.NoBinaryPackages extends DefaultNoBinaryPackages.
func NewInstaller(
	cfg *domain.Config,
	envs ports.EnvironmentManager,
	runner ports.ProcessRunner,
	logger ports.Logger,
	tracer ports.Tracer,
	metrics ports.Metrics,
) *Installer {
	return &Installer{
		envs:           envs,
		runner:         runner,
		logger:         logger,
		tracer:         tracer,
		metrics:        metrics,
		execTimeout:    cfg.ExecTimeout,
		packageTimeout: cfg.PackageTimeout,
		eligible:       eligibleSet(cfg.NoBinaryPackages),
	}
}

// Install installs specs into env, creating env first when it does not exist.
//
// The bulk install is retried with source builds for eligible packages and then package by
// package, but only when its output points at a native build failure. Requested packages
// missing after the resolving tier are reported as not found.
func (i *Installer) Install(ctx context.Context, env string, specs []string) (*domain.InstallResult, error) {
	parsed, err := domain.ParsePackageSpecs(specs)
	if err != nil {
		return nil, err
	}
	if len(parsed) == 0 {
		return nil, zerr.Wrap(domain.ErrNoPackages, "at least one package specifier is required")
	}

	ctx, span := i.tracer.Start(ctx, "packages.install")
	defer span.End()
	span.SetAttribute("env", env)
	span.SetAttribute("packages", rawSpecs(parsed))

	var res *domain.InstallResult
	err = i.envs.WithEnvironment(ctx, env, ports.EnsureOptions{CreateIfMissing: true},
		func(ctx context.Context, python string) error {
			tier, failures, err := i.install(ctx, python, parsed)
			if err != nil {
				return err
			}
			span.SetAttribute("tier", string(tier))

			installed, err := i.list(ctx, python)
			if err != nil {
				return err
			}

			res = classifyInstall(env, tier, parsed, installed, failures)
			return nil
		})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("status", string(res.Status))
	i.logger.Info("packages installed", "env", env, "tier", string(res.Tier), "status", string(res.Status))
	return res, nil
}

// install runs the tiers and returns the one that resolved, with per-package failure output from the last tier.
func (i *Installer) install(
	ctx context.Context,
	python string,
	specs []domain.PackageSpec,
) (domain.InstallTier, map[string]string, error) {
	raws := rawSpecs(specs)

	res, err := i.pip(ctx, python, append([]string{"install", "--"}, raws...))
	i.metrics.ObserveInstallTier(string(domain.TierBulk), outcome(err))
	if err == nil {
		return domain.TierBulk, nil, nil
	}
	if ctx.Err() != nil {
		return "", nil, domain.Fail(domain.ErrPackageInstallFailed, err)
	}

	output := failureOutput(res, err)
	if !IsBuildFailure(output) {
		return "", nil, domain.Fail(domain.ErrPackageInstallFailed, err)
	}

	if eligible := i.eligibleNames(specs); len(eligible) > 0 {
		i.logger.Warn("bulk install failed to build, retrying from source", "packages", strings.Join(eligible, ","))

		args := append([]string{"install", "--no-binary=" + strings.Join(eligible, ","), "--"}, raws...)
		_, err = i.pip(ctx, python, args)
		i.metrics.ObserveInstallTier(string(domain.TierNoBinary), outcome(err))
		if err == nil {
			return domain.TierNoBinary, nil, nil
		}
		if ctx.Err() != nil {
			return "", nil, domain.Fail(domain.ErrPackageInstallFailed, err)
		}
	}

	i.logger.Warn("installing packages one at a time", "packages", len(specs))

	failures := map[string]string{}
	for _, spec := range specs {
		res, err := i.pip(ctx, python, []string{"install", "--", spec.Raw})
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			return "", nil, domain.Fail(domain.ErrPackageInstallFailed, err)
		}
		i.logger.Warn("package failed to install", "package", spec.Raw)
		failures[spec.Name] = failureOutput(res, err)
	}

	tierOutcome := outcomeSuccess
	if len(failures) > 0 {
		tierOutcome = outcomePartial
	}
	i.metrics.ObserveInstallTier(string(domain.TierPerPackage), tierOutcome)

	return domain.TierPerPackage, failures, nil
}

func classifyInstall(
	env string,
	tier domain.InstallTier,
	specs []domain.PackageSpec,
	installed map[string]string,
	failures map[string]string,
) *domain.InstallResult {
	res := &domain.InstallResult{Env: env, Status: domain.StatusSuccess, Tier: tier}

	for _, spec := range specs {
		out := domain.PackageOutcome{Package: spec.Raw}
		if version, ok := installed[spec.Name]; ok {
			out.Status = domain.PackageSuccess
			out.Version = version
		} else {
			out.Status = domain.PackageNotFound
			out.Output = failures[spec.Name]
			res.Status = domain.StatusPartial
		}
		res.Packages = append(res.Packages, out)
	}

	return res
}

// Uninstall removes specs from an existing env with a single pip invocation.
// Packages that were not installed are reported as not found; packages still present afterwards as failed.
func (i *Installer) Uninstall(ctx context.Context, env string, specs []string) (*domain.UninstallResult, error) {
	parsed, err := domain.ParsePackageSpecs(specs)
	if err != nil {
		return nil, err
	}
	if len(parsed) == 0 {
		return nil, zerr.Wrap(domain.ErrNoPackages, "at least one package name is required")
	}

	ctx, span := i.tracer.Start(ctx, "packages.uninstall")
	defer span.End()
	span.SetAttribute("env", env)
	span.SetAttribute("packages", rawSpecs(parsed))

	var res *domain.UninstallResult
	err = i.envs.WithEnvironment(ctx, env, ports.EnsureOptions{}, func(ctx context.Context, python string) error {
		before, err := i.list(ctx, python)
		if err != nil {
			return err
		}

		var present []string
		for _, spec := range parsed {
			if _, ok := before[spec.Name]; ok && !slices.Contains(present, spec.Name) {
				present = append(present, spec.Name)
			}
		}

		var output string
		if len(present) > 0 {
			pipRes, err := i.pip(ctx, python, append([]string{"uninstall", "-y", "--"}, present...))
			if err != nil {
				if ctx.Err() != nil {
					return domain.Fail(domain.ErrPackageUninstallFailed, err)
				}
				i.logger.Warn("pip uninstall reported a failure", "env", env, "error", err.Error())
				output = failureOutput(pipRes, err)
			}
		}

		after, err := i.list(ctx, python)
		if err != nil {
			return err
		}

		res = classifyUninstall(env, parsed, before, after, output)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("status", string(res.Status))
	i.logger.Info("packages uninstalled", "env", env, "status", string(res.Status))
	return res, nil
}

func classifyUninstall(
	env string,
	specs []domain.PackageSpec,
	before, after map[string]string,
	output string,
) *domain.UninstallResult {
	res := &domain.UninstallResult{Env: env, Status: domain.StatusSuccess}

	for _, spec := range specs {
		out := domain.PackageOutcome{Package: spec.Raw}
		_, wasInstalled := before[spec.Name]
		_, stillInstalled := after[spec.Name]

		switch {
		case !wasInstalled:
			out.Status = domain.PackageNotFound
		case stillInstalled:
			out.Status = domain.PackageFailed
			out.Output = output
			res.Status = domain.StatusPartial
		default:
			out.Status = domain.PackageSuccess
		}
		res.Packages = append(res.Packages, out)
	}

	return res
}

// List returns the installed distributions of an existing env keyed by canonical name.
func (i *Installer) List(ctx context.Context, env string) (map[string]string, error) {
	ctx, span := i.tracer.Start(ctx, "packages.list")
	defer span.End()
	span.SetAttribute("env", env)

	var installed map[string]string
	err := i.envs.WithEnvironment(ctx, env, ports.EnsureOptions{}, func(ctx context.Context, python string) error {
		var err error
		installed, err = i.list(ctx, python)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("installed", len(installed))
	return installed, nil
}

func (i *Installer) list(ctx context.Context, python string) (map[string]string, error) {
	res, err := i.runner.Run(ctx, domain.Command{
		Program: python,
		Args:    []string{"-c", listScript},
		Timeout: i.execTimeout,
	})
	if err != nil {
		return nil, domain.Fail(domain.ErrPackageListFailed, err)
	}

	var raw map[string]string
	if err := json.Unmarshal([]byte(res.Stdout), &raw); err != nil {
		return nil, domain.Fail(domain.ErrPackageListFailed, err)
	}

	installed := make(map[string]string, len(raw))
	for name, version := range raw {
		installed[domain.CanonicalPackageName(name)] = version
	}
	return installed, nil
}

func (i *Installer) pip(ctx context.Context, python string, args []string) (*domain.ProcessResult, error) {
	return i.runner.Run(ctx, domain.Command{
		Program: python,
		Args:    append([]string{"-m", "pip"}, args...),
		Env:     pipEnv,
		Timeout: i.packageTimeout,
	})
}

func rawSpecs(specs []domain.PackageSpec) []string {
	raws := make([]string, len(specs))
	for idx, spec := range specs {
		raws[idx] = spec.Raw
	}
	return raws
}

// failureOutput joins the captured output of a failed run with its error text.
func failureOutput(res *domain.ProcessResult, err error) string {
	out := res.Combined()
	if err == nil {
		return out
	}
	if out == "" {
		return err.Error()
	}
	return out + "\n" + err.Error()
}

func outcome(err error) string {
	if err != nil {
		return outcomeFailed
	}
	return outcomeSuccess
}
