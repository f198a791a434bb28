package settings

import (
	"context"
	"maps"
	"sync"
)

// MemoryStore keeps option groups in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	groups map[string]map[string]any
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{groups: make(map[string]map[string]any)}
}

func (s *MemoryStore) Load(_ context.Context, group string) (map[string]any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.groups[group]
	return maps.Clone(v), ok, nil
}

func (s *MemoryStore) Save(_ context.Context, group string, values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[group] = maps.Clone(values)
	return nil
}
