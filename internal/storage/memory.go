package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/model"
)

// MemoryStore is a process-local Store, used by tests and console dry runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[model.Key][]model.WorkInterval
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[model.Key][]model.WorkInterval)}
}

func (s *MemoryStore) Get(_ context.Context, key model.Key) ([]model.WorkInterval, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return []model.WorkInterval{}, nil
	}
	return slices.Clone(v), nil
}

func (s *MemoryStore) Set(_ context.Context, key model.Key, value []model.WorkInterval) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = slices.Clone(value)
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, key model.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
