// Package metadata persists per-environment descriptions in a shared JSON document.
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/warren/internal/core/domain"
	"go.trai.ch/zerr"
)

// Record is the stored data for one environment.
type Record struct {
	Description string `json:"description,omitempty"`
}

// Store implements ports.MetadataStore backed by a single JSON file.
//
// All read-modify-write cycles are serialized by one store-wide mutex, and every
// write replaces the file atomically, so concurrent updates for different
// environments cannot lose each other's changes.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a Store for the document at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// NewStoreInDir creates a Store for the default document name inside basePath.
func NewStoreInDir(basePath string) *Store {
	return NewStore(filepath.Join(basePath, domain.MetadataFileName))
}

// Path returns the location of the backing document.
func (s *Store) Path() string {
	return s.path
}

// Description returns the description recorded for env.
func (s *Store) Description(_ context.Context, env string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return "", err
	}
	return records[env].Description, nil
}

// Descriptions returns every non-empty description keyed by environment name.
func (s *Store) Descriptions(_ context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(records))
	for name, rec := range records {
		if rec.Description != "" {
			out[name] = rec.Description
		}
	}
	return out, nil
}

// SetDescription records text for env.
func (s *Store) SetDescription(_ context.Context, env, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}

	rec := records[env]
	rec.Description = text
	records[env] = rec

	return s.write(records)
}

// Remove drops the record for env. The document is left untouched when env has no record.
func (s *Store) Remove(_ context.Context, env string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}

	if _, ok := records[env]; !ok {
		return nil
	}
	delete(records, env)

	return s.write(records)
}

func (s *Store) read() (map[string]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[string]Record), nil
		}
		return nil, zerr.With(domain.Fail(domain.ErrMetadataReadFailed, err), "path", s.path)
	}

	records := make(map[string]Record)
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, zerr.With(domain.Fail(domain.ErrMetadataReadFailed, err), "path", s.path)
	}
	return records, nil
}

func (s *Store) write(records map[string]Record) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return domain.Fail(domain.ErrMetadataWriteFailed, err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return domain.Fail(domain.ErrMetadataWriteFailed, err)
	}

	tmpFile, err := os.CreateTemp(dir, "venv-metadata-*.json")
	if err != nil {
		return domain.Fail(domain.ErrMetadataWriteFailed, err)
	}
	tmpName := tmpFile.Name()

	defer func() {
		if _, err := os.Stat(tmpName); err == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(append(data, '\n')); err != nil {
		_ = tmpFile.Close()
		return domain.Fail(domain.ErrMetadataWriteFailed, err)
	}

	if err := tmpFile.Close(); err != nil {
		return domain.Fail(domain.ErrMetadataWriteFailed, err)
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return domain.Fail(domain.ErrMetadataWriteFailed, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return zerr.With(domain.Fail(domain.ErrMetadataWriteFailed, err), "path", s.path)
	}

	return nil
}
