package process_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/warren/internal/adapters/process"
	"go.trai.ch/warren/internal/core/domain"
	"go.trai.ch/warren/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newRunner(t *testing.T) *process.Runner {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests rely on a POSIX shell")
	}

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	return process.NewRunner(log)
}

func TestRunner_Run_CapturesOutput(t *testing.T) {
	r := newRunner(t)

	res, err := r.Run(context.Background(), domain.Command{
		Program: "sh",
		Args:    []string{"-c", "echo line1; echo line2; echo problem >&2"},
	})
	require.NoError(t, err)

	assert.Equal(t, "line1\nline2\n", res.Stdout)
	assert.Equal(t, "problem\n", res.Stderr)
	assert.Equal(t, 0, res.ExitCode)
}

func TestRunner_Run_NonZeroExit(t *testing.T) {
	r := newRunner(t)

	res, err := r.Run(context.Background(), domain.Command{
		Program: "sh",
		Args:    []string{"-c", "echo partial; echo broken >&2; exit 3"},
	})
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrProcessFailed)

	require.NotNil(t, res, "result is returned alongside the failure")
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "partial\n", res.Stdout)
	assert.Contains(t, res.Stderr, "broken")
}

func TestRunner_Run_Timeout(t *testing.T) {
	r := newRunner(t)

	start := time.Now()
	_, err := r.Run(context.Background(), domain.Command{
		Program: "sh",
		Args:    []string{"-c", "sleep 30 & sleep 30; wait"},
		Timeout: 100 * time.Millisecond,
	})
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrProcessTimeout)
	assert.Contains(t, err.Error(), "sleep 30")
	assert.Less(t, time.Since(start), 10*time.Second, "process group should be killed on timeout")
}

func TestRunner_Run_ParentCancellation(t *testing.T) {
	r := newRunner(t)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := r.Run(ctx, domain.Command{
		Program: "sleep",
		Args:    []string{"30"},
		Timeout: time.Minute,
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrProcessTimeout)
}

func TestRunner_Run_MissingProgram(t *testing.T) {
	r := newRunner(t)

	res, err := r.Run(context.Background(), domain.Command{Program: "warren-does-not-exist-42"})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorContains(t, err, domain.ErrProcessStartFailed.Error())
}

func TestRunner_Run_EmptyCommand(t *testing.T) {
	r := newRunner(t)

	_, err := r.Run(context.Background(), domain.Command{})
	require.ErrorIs(t, err, domain.ErrEmptyCommand)
}

func TestRunner_Run_EnvironmentAndDir(t *testing.T) {
	r := newRunner(t)
	dir := t.TempDir()

	res, err := r.Run(context.Background(), domain.Command{
		Program: "sh",
		Args:    []string{"-c", `printf '%s:' "$WARREN_TEST_VAR"; pwd`},
		Env:     []string{"WARREN_TEST_VAR=value-123"},
		Dir:     dir,
	})
	require.NoError(t, err)

	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Contains(t, res.Stdout, "value-123:")
	assert.Contains(t, res.Stdout, resolved)
}

func TestRunner_Run_StreamsToWriters(t *testing.T) {
	r := newRunner(t)

	var out bytes.Buffer
	res, err := r.Run(context.Background(), domain.Command{
		Program: "sh",
		Args:    []string{"-c", "echo streamed"},
		Stdout:  &out,
	})
	require.NoError(t, err)
	assert.Equal(t, "streamed\n", out.String())
	assert.Equal(t, "streamed\n", res.Stdout)
}

func TestRunner_Run_LogsOutputLines(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("tests rely on a POSIX shell")
	}

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	var mu sync.Mutex
	var lines []string
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).Do(func(msg string, args ...any) {
		if len(args) == 2 && args[0] == "stream" {
			mu.Lock()
			lines = append(lines, msg)
			mu.Unlock()
		}
	}).AnyTimes()

	r := process.NewRunner(log)
	_, err := r.Run(context.Background(), domain.Command{
		Program: "sh",
		Args:    []string{"-c", "printf 'first\\nsecond\\nno-newline'"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second", "no-newline"}, lines)
}

func writeActivateScript(t *testing.T, envDir string) {
	t.Helper()
	binDir := filepath.Join(envDir, "bin")
	require.NoError(t, os.MkdirAll(binDir, domain.DirPerm))
	script := "export WARREN_ACTIVE=yes\n"
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "activate"), []byte(script), domain.FilePerm))
}

func TestActivator_RunActivated(t *testing.T) {
	r := newRunner(t)
	a := process.NewActivator(r)

	// The path deliberately contains shell metacharacters.
	envDir := filepath.Join(t.TempDir(), "env; echo injected $(id)")
	writeActivateScript(t, envDir)

	res, err := a.RunActivated(context.Background(), envDir, domain.Command{
		Program: "sh",
		Args:    []string{"-c", `printf '%s|%s' "$WARREN_ACTIVE" "$1"`, "argv0", "arg with spaces"},
	})
	require.NoError(t, err)
	assert.Equal(t, "yes|arg with spaces", res.Stdout)
	assert.NotContains(t, res.Stdout, "injected")
}

func TestActivator_RejectsUnsafePaths(t *testing.T) {
	r := newRunner(t)
	a := process.NewActivator(r)

	for _, path := range []string{"", "env\nrm -rf /", "env\x00"} {
		_, err := a.RunActivated(context.Background(), path, domain.Command{Program: "true"})
		require.ErrorIs(t, err, domain.ErrUnsafeActivationPath, "path %q", path)
	}
}

func TestActivator_PropagatesExitCode(t *testing.T) {
	r := newRunner(t)
	a := process.NewActivator(r)

	envDir := t.TempDir()
	writeActivateScript(t, envDir)

	res, err := a.RunActivated(context.Background(), envDir, domain.Command{
		Program: "sh",
		Args:    []string{"-c", "exit 7"},
	})
	require.ErrorIs(t, err, domain.ErrProcessFailed)
	assert.Equal(t, 7, res.ExitCode)
}
