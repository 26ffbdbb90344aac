// Package memory is the in-memory SnapshotStore. Nothing survives the
// process; it exists for tests and throwaway runs.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/avoronin/inkpost/internal/model"
)

var _ model.SnapshotStore = (*Store)(nil)

type Store struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func New() *Store {
	return &Store{slots: map[string][]byte{}}
}

func (s *Store) Load(_ context.Context, slot string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.slots[slot]
	if !ok {
		return nil, model.ErrNoSnapshot
	}
	return slices.Clone(data), nil
}

func (s *Store) Save(_ context.Context, slot string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[slot] = slices.Clone(data)
	return nil
}

func (s *Store) Delete(_ context.Context, slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.slots, slot)
	return nil
}
