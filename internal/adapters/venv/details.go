package venv

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"go.trai.ch/warren/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// List returns the sorted names of the directories under the base path that carry a marker file.
// A missing base path yields an empty list.
func (m *Manager) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(m.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, zerr.With(domain.Fail(domain.ErrEnvironmentListFailed, err), "path", m.basePath)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || domain.ValidateName(entry.Name()) != nil {
			continue
		}
		if _, err := os.Stat(filepath.Join(m.basePath, entry.Name(), domain.MarkerFileName)); err != nil {
			continue
		}
		names = append(names, entry.Name())
	}

	slices.Sort(names)
	return names, nil
}

// Details returns every listed environment with its package count, interpreter version and description.
// Per-environment lookups degrade to empty values instead of failing the listing.
func (m *Manager) Details(ctx context.Context) ([]domain.Environment, error) {
	ctx, span := m.tracer.Start(ctx, "env.details")
	defer span.End()

	names, err := m.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	descriptions, err := m.metadata.Descriptions(ctx)
	if err != nil {
		m.logger.Warn("failed to read environment descriptions", "error", err.Error())
		descriptions = map[string]string{}
	}

	envs := make([]domain.Environment, len(names))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, name := range names {
		g.Go(func() error {
			dir := filepath.Join(m.basePath, name)
			envs[i] = domain.Environment{
				Name:               name,
				Path:               dir,
				IsDefault:          name == m.defaultEnv,
				InterpreterVersion: m.interpreterVersion(groupCtx, dir),
				Description:        descriptions[name],
				PackageCount:       countPackages(dir),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("environments", len(envs))
	return envs, nil
}

// interpreterVersion reads the version recorded in pyvenv.cfg and falls back to asking the interpreter.
func (m *Manager) interpreterVersion(ctx context.Context, dir string) string {
	if v := readConfigVersion(filepath.Join(dir, domain.MarkerFileName)); v != "" {
		return v
	}

	python := filepath.Join(dir, domain.PythonRelPath())
	v, err, _ := m.probes.Do(python, func() (any, error) {
		res, err := m.runner.Run(ctx, domain.Command{
			Program: python,
			Args:    []string{"--version"},
			Timeout: m.execTimeout,
		})
		if err != nil {
			return "", err
		}
		return parseVersionOutput(res.Stdout + res.Stderr), nil
	})
	if err != nil {
		m.logger.Debug("interpreter version probe failed", "python", python, "error", err.Error())
		return ""
	}

	s, _ := v.(string)
	return s
}

// readConfigVersion returns the "version" or "version_info" value from a pyvenv.cfg file.
func readConfigVersion(path string) string {
	data, err := os.ReadFile(path) //nolint:gosec // path is derived from a validated environment name
	if err != nil {
		return ""
	}

	values := map[string]string{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok {
			continue
		}
		values[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if v := values["version"]; v != "" {
		return v
	}
	return values["version_info"]
}

// parseVersionOutput extracts "3.12.1" from "Python 3.12.1".
func parseVersionOutput(out string) string {
	fields := strings.Fields(out)
	for i, f := range fields {
		if strings.EqualFold(f, "python") && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	return ""
}

// countPackages counts the distribution metadata directories in the environment's site-packages.
func countPackages(dir string) int {
	sites, err := filepath.Glob(filepath.Join(dir, domain.SitePackagesGlob()))
	if err != nil {
		return 0
	}

	count := 0
	for _, site := range sites {
		entries, err := os.ReadDir(site)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if strings.HasSuffix(name, ".dist-info") || strings.HasSuffix(name, ".egg-info") {
				count++
			}
		}
	}
	return count
}
