package pip_test

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/warren/internal/adapters/pip"
	"go.trai.ch/warren/internal/adapters/telemetry"
	"go.trai.ch/warren/internal/core/domain"
	"go.trai.ch/warren/internal/core/ports"
	"go.trai.ch/warren/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

const testPython = "/venvs/data/bin/python"

// fakePip emulates an environment's package set and pip's behaviour for install attempts.
type fakePip struct {
	mu        sync.Mutex
	installed map[string]string
	calls     [][]string
	// install decides the outcome of one "pip install" invocation.
	install func(args []string) (*domain.ProcessResult, error)
	// uninstall decides which of the named packages are actually removed.
	uninstall func(names []string) []string
}

func (p *fakePip) run(_ context.Context, cmd domain.Command) (*domain.ProcessResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cmd.Args[0] == "-c" {
		data, err := json.Marshal(p.installed)
		if err != nil {
			return nil, err
		}
		return &domain.ProcessResult{Stdout: string(data) + "\n"}, nil
	}

	args := cmd.Args[2:]
	p.calls = append(p.calls, slices.Clone(args))

	// Hooks see operands and options only; "--" just ends option parsing.
	rest := slices.DeleteFunc(slices.Clone(args[1:]), func(a string) bool { return a == "--" })

	switch args[0] {
	case "install":
		return p.install(rest)
	case "uninstall":
		names := rest[1:]
		if p.uninstall != nil {
			names = p.uninstall(names)
		}
		for _, n := range names {
			delete(p.installed, n)
		}
		return &domain.ProcessResult{}, nil
	}
	return nil, zerr.New("unexpected pip command")
}

func (p *fakePip) add(name, version string) {
	p.installed[name] = version
}

func (p *fakePip) recorded() [][]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.calls)
}

func pipFailure(stderr string) (*domain.ProcessResult, error) {
	err := zerr.With(zerr.Wrap(domain.ErrProcessFailed, "python -m pip install"), "exit_code", 1)
	return &domain.ProcessResult{Stderr: stderr, ExitCode: 1}, err
}

type fixture struct {
	installer *pip.Installer
	pip       *fakePip
	metrics   *mocks.MockMetrics
	envs      *mocks.MockEnvironmentManager
	runner    *mocks.MockProcessRunner
}

func newFixture(t *testing.T, extraEligible ...string) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()

	f := &fixture{
		pip:     &fakePip{installed: map[string]string{"pip": "24.0"}},
		metrics: mocks.NewMockMetrics(ctrl),
		envs:    mocks.NewMockEnvironmentManager(ctrl),
		runner:  mocks.NewMockProcessRunner(ctrl),
	}

	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(f.pip.run).AnyTimes()

	cfg := &domain.Config{
		ExecTimeout:      time.Second,
		PackageTimeout:   time.Minute,
		NoBinaryPackages: extraEligible,
	}
	f.installer = pip.NewInstaller(cfg, f.envs, f.runner, log, telemetry.NewNoOpTracer(), f.metrics)
	return f
}

func (f *fixture) expectEnvironment(create bool) {
	f.envs.EXPECT().
		WithEnvironment(gomock.Any(), "data", ports.EnsureOptions{CreateIfMissing: create}, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ ports.EnsureOptions,
			fn func(context.Context, string) error,
		) error {
			return fn(ctx, testPython)
		})
}

func TestInstaller_Install_Bulk(t *testing.T) {
	f := newFixture(t)
	f.expectEnvironment(true)
	f.metrics.EXPECT().ObserveInstallTier("bulk", "success")

	f.pip.install = func(args []string) (*domain.ProcessResult, error) {
		assert.Equal(t, []string{"numpy==1.26.4", "Requests[socks]"}, args)
		f.pip.add("numpy", "1.26.4")
		f.pip.add("requests", "2.31.0")
		return &domain.ProcessResult{}, nil
	}

	res, err := f.installer.Install(context.Background(), "data", []string{"numpy==1.26.4", " ", "Requests[socks]"})
	require.NoError(t, err)

	assert.Equal(t, &domain.InstallResult{
		Env:    "data",
		Status: domain.StatusSuccess,
		Tier:   domain.TierBulk,
		Packages: []domain.PackageOutcome{
			{Package: "numpy==1.26.4", Status: domain.PackageSuccess, Version: "1.26.4"},
			{Package: "Requests[socks]", Status: domain.PackageSuccess, Version: "2.31.0"},
		},
	}, res)
	assert.Len(t, f.pip.recorded(), 1)
}

func TestInstaller_Install_PipCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	envs := mocks.NewMockEnvironmentManager(ctrl)
	runner := mocks.NewMockProcessRunner(ctrl)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	metrics := mocks.NewMockMetrics(ctrl)
	metrics.EXPECT().ObserveInstallTier("bulk", "success")

	envs.EXPECT().WithEnvironment(gomock.Any(), "data", ports.EnsureOptions{CreateIfMissing: true}, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ ports.EnsureOptions, fn func(context.Context, string) error) error {
			return fn(ctx, testPython)
		})

	var got []domain.Command
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd domain.Command) (*domain.ProcessResult, error) {
			got = append(got, cmd)
			if cmd.Args[0] == "-c" {
				return &domain.ProcessResult{Stdout: `{"six": "1.16.0"}`}, nil
			}
			return &domain.ProcessResult{}, nil
		},
	).Times(2)

	cfg := &domain.Config{ExecTimeout: time.Second, PackageTimeout: time.Minute}
	installer := pip.NewInstaller(cfg, envs, runner, log, telemetry.NewNoOpTracer(), metrics)

	_, err := installer.Install(context.Background(), "data", []string{"six"})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, testPython, got[0].Program)
	assert.Equal(t, []string{"-m", "pip", "install", "--", "six"}, got[0].Args)
	assert.Equal(t, time.Minute, got[0].Timeout)
	assert.Contains(t, got[0].Env, "PIP_NO_INPUT=1")

	assert.Equal(t, testPython, got[1].Program)
	assert.Equal(t, "-c", got[1].Args[0])
	assert.Equal(t, time.Second, got[1].Timeout)
}

func TestInstaller_Install_MissingPackageIsPartial(t *testing.T) {
	f := newFixture(t)
	f.expectEnvironment(true)
	gomock.InOrder(
		f.metrics.EXPECT().ObserveInstallTier("bulk", "failed"),
		f.metrics.EXPECT().ObserveInstallTier("no_binary", "failed"),
		f.metrics.EXPECT().ObserveInstallTier("per_package", "partial"),
	)

	const notFound = "ERROR: No matching distribution found for nonexistent-package-xyz"
	f.pip.install = func(args []string) (*domain.ProcessResult, error) {
		if slices.Contains(args, "nonexistent-package-xyz") {
			return pipFailure(notFound)
		}
		f.pip.add("numpy", "2.0.1")
		return &domain.ProcessResult{}, nil
	}

	res, err := f.installer.Install(context.Background(), "data", []string{"numpy", "nonexistent-package-xyz"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPartial, res.Status)
	assert.Equal(t, domain.TierPerPackage, res.Tier)
	require.Len(t, res.Packages, 2)
	assert.Equal(t, domain.PackageOutcome{Package: "numpy", Status: domain.PackageSuccess, Version: "2.0.1"}, res.Packages[0])
	assert.Equal(t, domain.PackageNotFound, res.Packages[1].Status)
	assert.Contains(t, res.Packages[1].Output, notFound)

	assert.Equal(t, [][]string{
		{"install", "--", "numpy", "nonexistent-package-xyz"},
		{"install", "--no-binary=numpy", "--", "numpy", "nonexistent-package-xyz"},
		{"install", "--", "numpy"},
		{"install", "--", "nonexistent-package-xyz"},
	}, f.pip.recorded())
}

func TestInstaller_Install_NoBinaryTierResolves(t *testing.T) {
	f := newFixture(t)
	f.expectEnvironment(true)
	gomock.InOrder(
		f.metrics.EXPECT().ObserveInstallTier("bulk", "failed"),
		f.metrics.EXPECT().ObserveInstallTier("no_binary", "success"),
	)

	f.pip.install = func(args []string) (*domain.ProcessResult, error) {
		if !strings.HasPrefix(args[0], "--no-binary=") {
			return pipFailure("  error: subprocess-exited-with-error\n  Failed building wheel for lxml")
		}
		f.pip.add("lxml", "5.2.1")
		f.pip.add("scikit-learn", "1.5.0")
		f.pip.add("six", "1.16.0")
		return &domain.ProcessResult{}, nil
	}

	res, err := f.installer.Install(context.Background(), "data", []string{"lxml>=5", "six", "Scikit_Learn", "lxml"})
	require.NoError(t, err)

	assert.Equal(t, domain.TierNoBinary, res.Tier)
	assert.Equal(t, domain.StatusSuccess, res.Status)
	assert.Equal(t, "--no-binary=lxml,scikit-learn", f.pip.recorded()[1][1])
}

func TestInstaller_Install_UnrecognisedFailureSurfaces(t *testing.T) {
	f := newFixture(t)
	f.expectEnvironment(true)
	f.metrics.EXPECT().ObserveInstallTier("bulk", "failed")

	var cause error
	f.pip.install = func([]string) (*domain.ProcessResult, error) {
		res, err := pipFailure("ERROR: Could not install packages due to an OSError: [Errno 28] No space left on device")
		cause = err
		return res, err
	}

	res, err := f.installer.Install(context.Background(), "data", []string{"numpy"})
	require.Error(t, err)
	assert.Nil(t, res)
	require.ErrorIs(t, err, domain.ErrProcessFailed)
	require.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, domain.ErrPackageInstallFailed)
	assert.Len(t, f.pip.recorded(), 1, "no fallback tier runs")
}

func TestInstaller_Install_BuildFailureWithoutEligiblePackages(t *testing.T) {
	f := newFixture(t)
	f.expectEnvironment(true)
	gomock.InOrder(
		f.metrics.EXPECT().ObserveInstallTier("bulk", "failed"),
		f.metrics.EXPECT().ObserveInstallTier("per_package", "success"),
	)

	bulk := true
	f.pip.install = func(args []string) (*domain.ProcessResult, error) {
		if bulk {
			bulk = false
			return pipFailure("ERROR: Failed to build installable wheels for some pyproject.toml based projects")
		}
		f.pip.add(domain.CanonicalPackageName(args[0]), "1.0")
		return &domain.ProcessResult{}, nil
	}

	res, err := f.installer.Install(context.Background(), "data", []string{"httpx", "attrs"})
	require.NoError(t, err)

	assert.Equal(t, domain.TierPerPackage, res.Tier)
	assert.Equal(t, domain.StatusSuccess, res.Status)
	assert.Equal(t, [][]string{
		{"install", "--", "httpx", "attrs"},
		{"install", "--", "httpx"},
		{"install", "--", "attrs"},
	}, f.pip.recorded())
}

func TestInstaller_Install_ConfiguredEligiblePackage(t *testing.T) {
	f := newFixture(t, "My_Native.Pkg")
	f.expectEnvironment(true)
	gomock.InOrder(
		f.metrics.EXPECT().ObserveInstallTier("bulk", "failed"),
		f.metrics.EXPECT().ObserveInstallTier("no_binary", "success"),
	)

	f.pip.install = func(args []string) (*domain.ProcessResult, error) {
		if args[0] == "--no-binary=my-native-pkg" {
			f.pip.add("my-native-pkg", "0.1")
			return &domain.ProcessResult{}, nil
		}
		return pipFailure("fatal error: Python.h: No such file or directory")
	}

	res, err := f.installer.Install(context.Background(), "data", []string{"my-native-pkg"})
	require.NoError(t, err)
	assert.Equal(t, domain.TierNoBinary, res.Tier)
}

func TestInstaller_Install_NoPackages(t *testing.T) {
	f := newFixture(t)

	_, err := f.installer.Install(context.Background(), "data", []string{"", "  "})
	require.ErrorIs(t, err, domain.ErrNoPackages)
	assert.True(t, domain.IsInvalidInput(err))
}

func TestInstaller_Install_RejectsOptionLikeSpecs(t *testing.T) {
	tests := [][]string{
		{"--target=/tmp/elsewhere", "--index-url=http://mirror.invalid/simple"},
		{"numpy", "-e", "./local"},
		{"-r requirements.txt"},
		{"  --user"},
	}

	for _, specs := range tests {
		t.Run(strings.Join(specs, " "), func(t *testing.T) {
			f := newFixture(t)

			res, err := f.installer.Install(context.Background(), "data", specs)
			require.ErrorIs(t, err, domain.ErrInvalidPackageSpec)
			assert.True(t, domain.IsInvalidInput(err))
			assert.Nil(t, res)
			assert.Empty(t, f.pip.recorded(), "pip is never invoked")
		})
	}
}

func TestInstaller_Uninstall_RejectsOptionLikeSpecs(t *testing.T) {
	f := newFixture(t)

	_, err := f.installer.Uninstall(context.Background(), "data", []string{"numpy", "--yes"})
	require.ErrorIs(t, err, domain.ErrInvalidPackageSpec)
	assert.Empty(t, f.pip.recorded())
}

func TestInstaller_Install_OptionsEndBeforeSpecs(t *testing.T) {
	f := newFixture(t)
	f.expectEnvironment(true)
	gomock.InOrder(
		f.metrics.EXPECT().ObserveInstallTier("bulk", "failed"),
		f.metrics.EXPECT().ObserveInstallTier("no_binary", "failed"),
		f.metrics.EXPECT().ObserveInstallTier("per_package", "partial"),
	)
	f.pip.install = func([]string) (*domain.ProcessResult, error) {
		return pipFailure("Failed building wheel for numpy")
	}

	_, err := f.installer.Install(context.Background(), "data", []string{"numpy"})
	require.NoError(t, err)

	for _, args := range f.pip.recorded() {
		sep := slices.Index(args, "--")
		require.Positive(t, sep, "every install separates options from specifiers: %v", args)
		assert.Equal(t, "numpy", args[sep+1])
	}
}

func TestInstaller_Install_DirectReference(t *testing.T) {
	f := newFixture(t)
	f.expectEnvironment(true)
	f.metrics.EXPECT().ObserveInstallTier("bulk", "success")

	const wheel = "https://files.example.com/packages/My_Pkg-1.0-py3-none-any.whl"
	f.pip.install = func(args []string) (*domain.ProcessResult, error) {
		assert.Equal(t, []string{wheel}, args)
		f.pip.add("my-pkg", "1.0")
		return &domain.ProcessResult{}, nil
	}

	res, err := f.installer.Install(context.Background(), "data", []string{wheel})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusSuccess, res.Status)
	assert.Equal(t, []domain.PackageOutcome{
		{Package: wheel, Status: domain.PackageSuccess, Version: "1.0"},
	}, res.Packages)
}

func TestInstaller_Install_EnvironmentError(t *testing.T) {
	f := newFixture(t)
	f.envs.EXPECT().
		WithEnvironment(gomock.Any(), "data", gomock.Any(), gomock.Any()).
		Return(domain.ErrEnvironmentCreateFailed)

	_, err := f.installer.Install(context.Background(), "data", []string{"numpy"})
	require.ErrorIs(t, err, domain.ErrEnvironmentCreateFailed)
}

func TestInstaller_Uninstall(t *testing.T) {
	f := newFixture(t)
	f.expectEnvironment(false)
	f.pip.add("numpy", "2.0.1")
	f.pip.add("pandas", "2.2.2")
	f.pip.uninstall = func(names []string) []string {
		return []string{"numpy"}
	}

	res, err := f.installer.Uninstall(context.Background(), "data", []string{"NumPy", "pandas", "ghost"})
	require.NoError(t, err)

	assert.Equal(t, &domain.UninstallResult{
		Env:    "data",
		Status: domain.StatusPartial,
		Packages: []domain.PackageOutcome{
			{Package: "NumPy", Status: domain.PackageSuccess},
			{Package: "pandas", Status: domain.PackageFailed},
			{Package: "ghost", Status: domain.PackageNotFound},
		},
	}, res)
	assert.Equal(t, [][]string{{"uninstall", "-y", "--", "numpy", "pandas"}}, f.pip.recorded())
}

func TestInstaller_Uninstall_NothingInstalled(t *testing.T) {
	f := newFixture(t)
	f.expectEnvironment(false)

	res, err := f.installer.Uninstall(context.Background(), "data", []string{"ghost"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusSuccess, res.Status)
	assert.Equal(t, []domain.PackageOutcome{{Package: "ghost", Status: domain.PackageNotFound}}, res.Packages)
	assert.Empty(t, f.pip.recorded(), "pip uninstall is skipped")
}

func TestInstaller_Uninstall_MissingEnvironment(t *testing.T) {
	f := newFixture(t)
	f.envs.EXPECT().
		WithEnvironment(gomock.Any(), "data", ports.EnsureOptions{}, gomock.Any()).
		Return(zerr.Wrap(domain.ErrEnvironmentNotFound, "environment \"data\" does not exist"))

	_, err := f.installer.Uninstall(context.Background(), "data", []string{"numpy"})
	require.ErrorIs(t, err, domain.ErrEnvironmentNotFound)
}

func TestInstaller_List(t *testing.T) {
	f := newFixture(t)
	f.expectEnvironment(false)
	f.pip.add("Scikit_Learn", "1.5.0")
	f.pip.add("zope.interface", "6.4")

	got, err := f.installer.List(context.Background(), "data")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"pip":            "24.0",
		"scikit-learn":   "1.5.0",
		"zope-interface": "6.4",
	}, got)
}

func TestInstaller_List_BadOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockProcessRunner(ctrl)
	envs := mocks.NewMockEnvironmentManager(ctrl)

	envs.EXPECT().WithEnvironment(gomock.Any(), "data", ports.EnsureOptions{}, gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ports.EnsureOptions, fn func(context.Context, string) error) error {
			return fn(ctx, testPython)
		})
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(&domain.ProcessResult{Stdout: "Traceback"}, nil)

	installer := pip.NewInstaller(&domain.Config{}, envs, runner, nil, telemetry.NewNoOpTracer(), nil)

	_, err := installer.List(context.Background(), "data")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPackageListFailed)
}

func TestIsBuildFailure(t *testing.T) {
	tests := []struct {
		output string
		want   bool
	}{
		{output: "Failed building wheel for numpy", want: true},
		{output: "ERROR: Could not build wheels for pyarrow, which is required", want: true},
		{output: "error: subprocess-exited-with-error", want: true},
		{output: "Building wheel for lxml (pyproject.toml) did not run successfully.", want: true},
		{output: "error: command 'gcc' failed with exit status 1", want: true},
		{output: "error: Microsoft Visual C++ 14.0 or greater is required.", want: true},
		{output: "fatal error: ffi.h: No such file or directory", want: true},
		{output: "ERROR: Could not find a version that satisfies the requirement foo", want: true},
		{output: "note: This error originates from a subprocess.\nlegacy-install-failure", want: true},
		{output: "error: metadata-generation-failed", want: true},
		{output: "ERROR: Could not install packages due to an OSError", want: false},
		{output: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			assert.Equal(t, tt.want, pip.IsBuildFailure(tt.output))
		})
	}
}
