package testfixtures

import (
	"context"
	"sync"
)

// Storage is an in-memory application.ClientStorage whose operations can be
// made to fail per key.
type Storage struct {
	mu         sync.Mutex
	values     map[string]string
	failGet    map[string]error
	failSet    map[string]error
	failRemove map[string]error
	writes     int
}

func NewStorage() *Storage {
	return &Storage{
		values:     make(map[string]string),
		failGet:    make(map[string]error),
		failSet:    make(map[string]error),
		failRemove: make(map[string]error),
	}
}

func (s *Storage) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failGet[key]; err != nil {
		return "", false, err
	}
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *Storage) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failSet[key]; err != nil {
		return err
	}
	s.values[key] = value
	s.writes++
	return nil
}

func (s *Storage) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failRemove[key]; err != nil {
		return err
	}
	delete(s.values, key)
	return nil
}

// Put seeds a raw value without counting it as a write.
func (s *Storage) Put(key, value string) {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
}

// Value returns the raw stored value.
func (s *Storage) Value(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	return value, ok
}

// Writes counts successful SetItem calls.
func (s *Storage) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// FailGet makes GetItem(key) return err. A nil err clears the failure.
func (s *Storage) FailGet(key string, err error) {
	s.mu.Lock()
	s.failGet[key] = err
	s.mu.Unlock()
}

// FailSet makes SetItem(key) return err. A nil err clears the failure.
func (s *Storage) FailSet(key string, err error) {
	s.mu.Lock()
	s.failSet[key] = err
	s.mu.Unlock()
}

// FailRemove makes RemoveItem(key) return err. A nil err clears the failure.
func (s *Storage) FailRemove(key string, err error) {
	s.mu.Lock()
	s.failRemove[key] = err
	s.mu.Unlock()
}
