// Package file is the default SnapshotStore: one file per slot under a
// data directory, the closest server-side analog of the browser's local
// storage slots.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/avoronin/inkpost/internal/model"
)

var _ model.SnapshotStore = (*Store)(nil)

type Store struct {
	dir string
}

// New creates the data directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Load(_ context.Context, slot string) ([]byte, error) {
	data, err := os.ReadFile(s.path(slot))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, model.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %q: %w", slot, err)
	}
	return data, nil
}

// Save replaces the slot atomically: a torn write must not corrupt the
// previous snapshot.
func (s *Store) Save(_ context.Context, slot string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, slot+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write snapshot %q: %w", slot, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path(slot)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace snapshot %q: %w", slot, err)
	}

	return nil
}

func (s *Store) Delete(_ context.Context, slot string) error {
	err := os.Remove(s.path(slot))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete snapshot %q: %w", slot, err)
	}
	return nil
}

func (s *Store) path(slot string) string {
	return filepath.Join(s.dir, slot+".json")
}
