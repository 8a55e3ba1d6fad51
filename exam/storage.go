package exam

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Storage.Get when no state exists under the key.
var ErrNotFound = errors.New("exam: state not found")

// Storage is the persistence backend for exam session state: a flat
// get/set/delete-by-key store. Implementations choose the durability scope:
// MemoryStorage lasts for one process (the browser-session analog), while
// SQLiteStorage survives restarts.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// MemoryStorage keeps state for the lifetime of the process only.
type MemoryStorage struct {
	mu sync.RWMutex
	m  map[string][]byte
}

// NewMemoryStorage returns an empty in-process store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{m: make(map[string][]byte)}
}

func (s *MemoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, nil
}

func (s *MemoryStorage) Set(_ context.Context, key string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	s.mu.Lock()
	s.m[key] = cp
	s.mu.Unlock()
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	return nil
}
