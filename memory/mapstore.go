package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

type mapStore struct {
	values map[string][]byte
	mu     sync.RWMutex
}

// NewMapStore creates a Store held in process memory. Values do not survive
// the process; it backs the "memory" backend and tests.
func NewMapStore() Store {
	return &mapStore{values: make(map[string][]byte)}
}

func (s *mapStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return slices.Clone(val), nil
}

func (s *mapStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = slices.Clone(value)
	return nil
}

func (s *mapStore) Close() error { return nil }
