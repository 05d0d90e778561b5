package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrInvalidInput is the base error for requests that were rejected before any work was done.
	ErrInvalidInput = zerr.New("invalid input")

	// ErrInvalidEnvName is returned when an environment name fails validation.
	ErrInvalidEnvName = zerr.New("invalid environment name")

	// ErrReservedEnvName is returned when an environment name collides with a reserved name.
	ErrReservedEnvName = zerr.New("environment name is reserved")

	// ErrEnvironmentNotFound is returned when an operation requires an environment that does not exist.
	ErrEnvironmentNotFound = zerr.New("environment not found")

	// ErrNoPackages is returned when an install or uninstall request names no packages.
	ErrNoPackages = zerr.New("no packages specified")

	// ErrInvalidPackageSpec is returned when a package specifier could be mistaken for an installer option.
	ErrInvalidPackageSpec = zerr.New("invalid package specifier")

	// ErrUnsupportedPlatform is returned when an operation is not available on the current OS.
	ErrUnsupportedPlatform = zerr.New("operation not supported on this platform")

	// ErrEnvironmentCreateFailed is returned when an environment cannot be created.
	ErrEnvironmentCreateFailed = zerr.New("failed to create environment")

	// ErrEnvironmentDeleteFailed is returned when an environment directory cannot be removed.
	ErrEnvironmentDeleteFailed = zerr.New("failed to delete environment")

	// ErrEnvironmentListFailed is returned when the base directory cannot be read.
	ErrEnvironmentListFailed = zerr.New("failed to list environments")

	// ErrMetadataReadFailed is returned when the metadata document cannot be read.
	ErrMetadataReadFailed = zerr.New("failed to read environment metadata")

	// ErrMetadataWriteFailed is returned when the metadata document cannot be written.
	ErrMetadataWriteFailed = zerr.New("failed to write environment metadata")

	// ErrPackageInstallFailed is returned when packages cannot be installed.
	ErrPackageInstallFailed = zerr.New("failed to install packages")

	// ErrPackageUninstallFailed is returned when packages cannot be uninstalled.
	ErrPackageUninstallFailed = zerr.New("failed to uninstall packages")

	// ErrPackageListFailed is returned when the installed package set cannot be read.
	ErrPackageListFailed = zerr.New("failed to list installed packages")

	// ErrProcessStartFailed is returned when an external command cannot be started.
	ErrProcessStartFailed = zerr.New("failed to start process")

	// ErrProcessFailed is returned when an external command exits with a non-zero status.
	ErrProcessFailed = zerr.New("process exited with non-zero status")

	// ErrProcessTimeout is returned when an external command exceeds its time limit.
	ErrProcessTimeout = zerr.New("process timed out")

	// ErrEmptyCommand is returned when a command has no program to run.
	ErrEmptyCommand = zerr.New("empty command")

	// ErrUnsafeActivationPath is returned when an environment path cannot be passed to a shell safely.
	ErrUnsafeActivationPath = zerr.New("environment path contains characters that cannot be passed to a shell")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when a loaded configuration fails validation.
	ErrInvalidConfig = zerr.New("invalid configuration")
)

// invalidInput lists the sentinels that classify an error as caller error rather than internal failure.
var invalidInput = []error{
	ErrInvalidInput,
	ErrInvalidEnvName,
	ErrReservedEnvName,
	ErrEnvironmentNotFound,
	ErrNoPackages,
	ErrInvalidPackageSpec,
	ErrUnsafeActivationPath,
}

// IsInvalidInput reports whether err was caused by a rejected request.
func IsInvalidInput(err error) bool {
	if err == nil {
		return false
	}
	for _, sentinel := range invalidInput {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// Fail ties cause to the failure sentinel so that errors.Is matches both the sentinel and
// anything in the cause chain. It returns nil when cause is nil.
func Fail(sentinel, cause error) error {
	if cause == nil {
		return nil
	}
	return &failure{sentinel: sentinel, cause: cause}
}

// failure renders like zerr.Wrap(cause, sentinel.Error()) and reports the sentinel as its message.
type failure struct {
	sentinel error
	cause    error
}

func (f *failure) Error() string {
	return f.sentinel.Error() + ": " + f.cause.Error()
}

// Message returns the sentinel's message without the cause chain.
func (f *failure) Message() string {
	return f.sentinel.Error()
}

// Metadata returns an empty map; metadata is attached by wrapping with zerr.With.
func (f *failure) Metadata() map[string]any {
	return map[string]any{}
}

func (f *failure) Unwrap() error {
	return f.cause
}

func (f *failure) Is(target error) bool {
	return target == f.sentinel
}
