package domain

import "time"

const (
	// DefaultExecTimeout bounds short probes such as interpreter version checks.
	DefaultExecTimeout = 30 * time.Second

	// DefaultPackageTimeout bounds environment creation and installer invocations.
	DefaultPackageTimeout = 300 * time.Second

	// DefaultRunTimeout bounds commands run inside an activated environment.
	DefaultRunTimeout = 30 * time.Minute
)

// Config is the resolved runtime configuration.
type Config struct {
	BasePath       string
	DefaultEnv     string
	Python         string
	ExecTimeout    time.Duration
	PackageTimeout time.Duration
	RunTimeout     time.Duration
	// NoBinaryPackages extends the built-in set of packages eligible for source-build fallback.
	NoBinaryPackages []string
	LogLevel         string
	LogJSON          bool
	MetricsListen    string
}

// DefaultConfig returns the configuration used when no file or overrides are present.
func DefaultConfig() *Config {
	return &Config{
		BasePath:       DefaultBasePath(),
		DefaultEnv:     DefaultEnvName,
		Python:         DefaultPython(),
		ExecTimeout:    DefaultExecTimeout,
		PackageTimeout: DefaultPackageTimeout,
		RunTimeout:     DefaultRunTimeout,
		LogLevel:       "info",
	}
}
