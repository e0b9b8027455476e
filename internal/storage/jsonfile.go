package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/starford/vocabfix/internal/apperr"
	"github.com/starford/vocabfix/internal/models"
)

// JSONFile implements Provider backed by a single JSON array file.
type JSONFile struct {
	path string
}

// NewJSONFile creates a provider for the file at path. The file is not
// touched until Load.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Location returns the file path.
func (f *JSONFile) Location() string {
	return f.path
}

// Load reads and decodes the whole file.
func (f *JSONFile) Load(_ context.Context) ([]*models.Record, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", f.path, err)
	}
	records, err := models.DecodeRecords(data)
	if err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w: %v", f.path, apperr.ErrMalformed, err)
	}
	return records, nil
}

// Save encodes records and atomically replaces the file: tmp file → fsync → rename.
func (f *JSONFile) Save(_ context.Context, records []*models.Record) error {
	content, err := models.EncodeRecords(records)
	if err != nil {
		return fmt.Errorf("storage: encode: %w", err)
	}
	return writeAtomic(f.path, content)
}

// Close is a no-op; the file is only open during Load and Save.
func (f *JSONFile) Close() error {
	return nil
}

func writeAtomic(path string, content []byte) error {
	// Replace the file a symlink points to, not the link.
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, ".vocabfix-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		return fmt.Errorf("storage: chmod temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}
