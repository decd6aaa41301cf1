package storage

import (
	"context"
	"sync"
)

// MemoryStorage is an in-memory storage backend backed by a map. Nothing
// survives the process; it is meant for tests and throwaway sessions.
// Thread-safe for concurrent use.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		items: make(map[string][]byte),
	}
}

func (s *MemoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[key]
	if !ok {
		return nil, nil
	}
	// Return a copy to prevent mutation.
	val := make([]byte, len(item))
	copy(val, item)
	return val, nil
}

func (s *MemoryStorage) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := make([]byte, len(value))
	copy(item, value)
	s.items[key] = item
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return nil
}

func (s *MemoryStorage) Close() error { return nil }

// Len returns the number of stored keys.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
