// Package file keeps the durable session record in a local JSON file,
// the on-disk counterpart of browser local storage.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/signpath/signpath-server/internal/model"
)

var _ model.RecordStore = (*Store)(nil)

// Store is a RecordStore backed by a single file.
type Store struct {
	path string
}

// NewStore creates a Store writing to path. Parent directories are created on demand.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the record file location.
func (s *Store) Path() string {
	return s.path
}

// Get reads the record file.
func (s *Store) Get(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}

	return data, nil
}

// Put replaces the record file atomically through a temp file and rename.
func (s *Store) Put(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create record directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".record-*")
	if err != nil {
		return fmt.Errorf("failed to create temp record file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp record file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp record file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp record file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace record file: %w", err)
	}

	return nil
}

// Delete removes the record file. A missing file is not an error.
func (s *Store) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove record file: %w", err)
	}

	return nil
}
