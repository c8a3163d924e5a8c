// Package memory implements persistence.Store on a process-local map.
package memory

import (
	"context"
	"sync"

	"github.com/example/propdash/internal/persistence"
)

type entryKey struct {
	namespace string
	key       string
}

// Store keeps values in memory for the lifetime of the process.
type Store struct {
	mu     sync.RWMutex
	values map[entryKey]string
	closed bool
}

// New returns an empty Store.
func New() *Store {
	return &Store{values: make(map[entryKey]string)}
}

func (s *Store) Get(_ context.Context, namespace, key string) (string, bool, error) {
	if namespace == "" || key == "" {
		return "", false, persistence.ErrInvalidKey
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, persistence.ErrClosed
	}
	value, ok := s.values[entryKey{namespace, key}]
	return value, ok, nil
}

func (s *Store) Set(_ context.Context, namespace, key, value string) error {
	if namespace == "" || key == "" {
		return persistence.ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return persistence.ErrClosed
	}
	s.values[entryKey{namespace, key}] = value
	return nil
}

func (s *Store) Delete(_ context.Context, namespace, key string) error {
	if namespace == "" || key == "" {
		return persistence.ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return persistence.ErrClosed
	}
	delete(s.values, entryKey{namespace, key})
	return nil
}

// Ping reports persistence.ErrClosed once the store has been closed.
func (s *Store) Ping(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return persistence.ErrClosed
	}
	return nil
}

// Close discards all values. Further calls fail with persistence.ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	s.values = nil
	s.mu.Unlock()
	return nil
}

// Len reports how many keys are stored across all namespaces.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
