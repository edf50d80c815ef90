package browser

import (
	"context"
	"errors"
	"sync"
)

// ErrNoKey is returned by Storage.Get when the key is absent.
var ErrNoKey = errors.New("storage: no such key")

// Storage is the Web Storage surface used by the app: localStorage and
// sessionStorage both implement it.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Lookup returns the stored value, or "" when absent or unreadable.
func Lookup(ctx context.Context, s Storage, key string) string {
	v, err := s.Get(ctx, key)
	if err != nil {
		return ""
	}
	return v
}

// MemoryStorage keeps values in process memory.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStorage returns an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

// Get returns the value for key.
func (s *MemoryStorage) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return "", ErrNoKey
	}
	return v, nil
}

// Set stores value under key.
func (s *MemoryStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Remove deletes key.
func (s *MemoryStorage) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Clear deletes every key.
func (s *MemoryStorage) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]string)
	return nil
}

// Len returns the number of stored keys.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
