package store

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/bigsources/jobdesk/service/dao"
)

// MemoryStore is a generic in-memory implementation of dao.Service keyed by
// the value returned from keySelector. List returns records in insertion
// order. When capacity is positive the oldest record is evicted once the
// store is full; a zero capacity keeps every record for the lifetime of the
// store.
type MemoryStore[K comparable, T any] struct {
	mu          sync.RWMutex
	records     map[K]*T
	order       []K
	capacity    int
	keySelector func(*T) K
}

// NewMemoryStore creates an unbounded store.
func NewMemoryStore[K comparable, T any](keySelector func(*T) K) *MemoryStore[K, T] {
	return NewBoundedMemoryStore[K, T](0, keySelector)
}

// NewBoundedMemoryStore creates a store holding at most capacity records.
func NewBoundedMemoryStore[K comparable, T any](capacity int, keySelector func(*T) K) *MemoryStore[K, T] {
	if capacity < 0 {
		capacity = 0
	}
	return &MemoryStore[K, T]{
		records:     make(map[K]*T),
		capacity:    capacity,
		keySelector: keySelector,
	}
}

// Save stores or overwrites a record. Overwriting keeps the original
// insertion position.
func (s *MemoryStore[K, T]) Save(_ context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	key := s.keySelector(v)
	var zero K
	if key == zero {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		if s.capacity > 0 && len(s.order) >= s.capacity {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.records, oldest)
		}
		s.order = append(s.order, key)
	}
	s.records[key] = v
	return nil
}

// Load returns a record by key or dao.ErrNotFound.
func (s *MemoryStore[K, T]) Load(_ context.Context, key K) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, errors.Wrapf(dao.ErrNotFound, "key %v", key)
	}
	return v, nil
}

// Delete removes a record; deleting a missing key is a no-op.
func (s *MemoryStore[K, T]) Delete(_ context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		return nil
	}
	delete(s.records, key)
	for i, candidate := range s.order {
		if candidate == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns all stored records in insertion order.
func (s *MemoryStore[K, T]) List(_ context.Context) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*T, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.records[key])
	}
	return out, nil
}

// Len returns the number of stored records.
func (s *MemoryStore[K, T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

var _ dao.Service[string, struct{}] = (*MemoryStore[string, struct{}])(nil)
