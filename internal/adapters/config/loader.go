// Package config provides the configuration loader for warren.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.trai.ch/warren/internal/core/domain"
	"go.trai.ch/warren/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the configuration file version understood by this loader.
const SupportedVersion = "1"

// Environment variables that override file settings.
const (
	EnvBasePath         = "WARREN_BASE_PATH"
	EnvDefaultEnv       = "WARREN_DEFAULT_ENV"
	EnvPython           = "WARREN_PYTHON"
	EnvExecTimeoutMs    = "WARREN_EXEC_TIMEOUT_MS"
	EnvPackageTimeoutMs = "WARREN_PACKAGE_TIMEOUT_MS"
	EnvRunTimeoutMs     = "WARREN_RUN_TIMEOUT_MS"
	EnvNoBinaryPackages = "WARREN_NO_BINARY_PACKAGES"
	EnvLogLevel         = "WARREN_LOG_LEVEL"
	EnvLogJSON          = "WARREN_LOG_JSON"
	EnvMetricsListen    = "WARREN_METRICS_LISTEN"
)

// Loader implements ports.ConfigLoader using a YAML file, a dotenv file and the process environment.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load resolves the configuration for cwd.
//
// Precedence, lowest first: built-in defaults, warren.yaml, .env next to the
// configuration file (or in cwd), and the process environment.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	cfg := domain.DefaultConfig()
	baseDir := cwd

	configPath, found := l.findConfiguration(cwd)
	if found {
		var file Configfile
		if err := readAndUnmarshalYAML(configPath, &file); err != nil {
			return nil, zerr.With(err, "path", configPath)
		}
		if file.Version != "" && file.Version != SupportedVersion {
			l.Logger.Warn("unsupported config version, continuing", "path", configPath, "version", file.Version)
		}
		baseDir = filepath.Dir(configPath)
		if err := applyFile(cfg, &file, baseDir); err != nil {
			return nil, zerr.With(err, "path", configPath)
		}
	}

	dotenv, err := readDotEnv(filepath.Join(baseDir, domain.DotEnvFileName))
	if err != nil {
		return nil, err
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	if err := applyEnv(cfg, lookup, cwd); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// findConfiguration walks up from cwd looking for warren.yaml and falls back to
// the user configuration directory.
func (l *Loader) findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	if userDir, err := os.UserConfigDir(); err == nil {
		candidate := filepath.Join(userDir, "warren", domain.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}

	return "", false
}

func applyFile(cfg *domain.Config, file *Configfile, configDir string) error {
	if file.BasePath != "" {
		basePath, err := resolvePath(file.BasePath, configDir)
		if err != nil {
			return err
		}
		cfg.BasePath = basePath
	}
	if file.DefaultEnv != "" {
		cfg.DefaultEnv = file.DefaultEnv
	}
	if file.Python != "" {
		cfg.Python = file.Python
	}
	if file.Timeouts.ExecMs != 0 {
		cfg.ExecTimeout = time.Duration(file.Timeouts.ExecMs) * time.Millisecond
	}
	if file.Timeouts.PackageMs != 0 {
		cfg.PackageTimeout = time.Duration(file.Timeouts.PackageMs) * time.Millisecond
	}
	if file.Timeouts.RunMs != 0 {
		cfg.RunTimeout = time.Duration(file.Timeouts.RunMs) * time.Millisecond
	}
	cfg.NoBinaryPackages = append(cfg.NoBinaryPackages, file.Fallback.NoBinaryPackages...)
	if file.Log.Level != "" {
		cfg.LogLevel = file.Log.Level
	}
	if file.Log.JSON != nil {
		cfg.LogJSON = *file.Log.JSON
	}
	if file.Metrics.Listen != "" {
		cfg.MetricsListen = file.Metrics.Listen
	}
	return nil
}

func applyEnv(cfg *domain.Config, lookup func(string) (string, bool), cwd string) error {
	if v, ok := lookup(EnvBasePath); ok && v != "" {
		basePath, err := resolvePath(v, cwd)
		if err != nil {
			return err
		}
		cfg.BasePath = basePath
	}
	if v, ok := lookup(EnvDefaultEnv); ok && v != "" {
		cfg.DefaultEnv = v
	}
	if v, ok := lookup(EnvPython); ok && v != "" {
		cfg.Python = v
	}
	if v, ok := lookup(EnvExecTimeoutMs); ok && v != "" {
		d, err := parseMillis(EnvExecTimeoutMs, v)
		if err != nil {
			return err
		}
		cfg.ExecTimeout = d
	}
	if v, ok := lookup(EnvPackageTimeoutMs); ok && v != "" {
		d, err := parseMillis(EnvPackageTimeoutMs, v)
		if err != nil {
			return err
		}
		cfg.PackageTimeout = d
	}
	if v, ok := lookup(EnvRunTimeoutMs); ok && v != "" {
		d, err := parseMillis(EnvRunTimeoutMs, v)
		if err != nil {
			return err
		}
		cfg.RunTimeout = d
	}
	if v, ok := lookup(EnvNoBinaryPackages); ok && v != "" {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.NoBinaryPackages = append(cfg.NoBinaryPackages, name)
			}
		}
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvLogJSON); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return zerr.With(domain.Fail(domain.ErrInvalidConfig, err), "variable", EnvLogJSON)
		}
		cfg.LogJSON = enabled
	}
	if v, ok := lookup(EnvMetricsListen); ok {
		cfg.MetricsListen = v
	}
	return nil
}

func validate(cfg *domain.Config) error {
	if err := domain.ValidateName(cfg.DefaultEnv); err != nil {
		return zerr.With(domain.Fail(domain.ErrInvalidConfig, err), "field", "defaultEnv")
	}
	if cfg.ExecTimeout <= 0 {
		return zerr.With(domain.ErrInvalidConfig, "field", "timeouts.execMs")
	}
	if cfg.PackageTimeout <= 0 {
		return zerr.With(domain.ErrInvalidConfig, "field", "timeouts.packageMs")
	}
	if cfg.RunTimeout <= 0 {
		return zerr.With(domain.ErrInvalidConfig, "field", "timeouts.runMs")
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return zerr.With(zerr.With(domain.ErrInvalidConfig, "field", "log.level"), "value", cfg.LogLevel)
	}
	return nil
}

func parseMillis(name, value string) (time.Duration, error) {
	ms, err := strconv.Atoi(value)
	if err != nil {
		return 0, zerr.With(domain.Fail(domain.ErrInvalidConfig, err), "variable", name)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// resolvePath expands a leading ~ and makes relative paths absolute against baseDir.
func resolvePath(path, baseDir string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", zerr.Wrap(err, "failed to resolve home directory")
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	return filepath.Clean(filepath.Join(baseDir, path)), nil
}

func readDotEnv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, zerr.With(domain.Fail(domain.ErrConfigReadFailed, err), "path", path)
	}
	return values, nil
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is discovered by findConfiguration
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return domain.Fail(domain.ErrConfigReadFailed, err)
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return domain.Fail(domain.ErrConfigParseFailed, parseErr)
	}

	return nil
}
