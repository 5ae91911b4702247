// Package assets is an asset table keyed by opaque ids. Entries are reference
// counted through Handles and resolved asynchronously by a Loader.
//
// Eviction policy: an entry is removed from its Storage as soon as the last
// Handle referencing it is released. A result that resolves after eviction is
// discarded.
package assets

import (
	"sync"

	"github.com/google/uuid"
)

// LoadState describes how far an asset has progressed.
type LoadState uint8

const (
	StateMissing LoadState = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s LoadState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "missing"
	}
}

type entry[T any] struct {
	value *T
	state LoadState
	err   error
	refs  int32
}

// Storage holds every asset of one type.
type Storage[T any] struct {
	name    string
	mu      sync.RWMutex
	entries map[uuid.UUID]*entry[T]
	evicted int
}

// NewStorage creates an empty Storage. name is only used for logging.
func NewStorage[T any](name string) *Storage[T] {
	return &Storage[T]{
		name:    name,
		entries: make(map[uuid.UUID]*entry[T]),
	}
}

// Name returns the storage's name.
func (s *Storage[T]) Name() string { return s.name }

// Len returns the number of live entries.
func (s *Storage[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Evicted returns how many entries were dropped after their last release.
func (s *Storage[T]) Evicted() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.evicted
}

// Insert stores an already resolved value and returns a handle to it.
func (s *Storage[T]) Insert(value T) Handle[T] {
	h := s.reserve()
	s.resolve(h.id, &value, nil)
	return h
}

func (s *Storage[T]) reserve() Handle[T] {
	id := uuid.New()
	s.mu.Lock()
	s.entries[id] = &entry[T]{state: StateLoading, refs: 1}
	s.mu.Unlock()
	return Handle[T]{id: id, storage: s}
}

func (s *Storage[T]) resolve(id uuid.UUID, value *T, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return
	}
	if err != nil {
		e.state = StateFailed
		e.err = err
		return
	}
	e.value = value
	e.state = StateLoaded
}

func (s *Storage[T]) lookup(id uuid.UUID) (*T, LoadState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, StateMissing, nil
	}
	return e.value, e.state, e.err
}

func (s *Storage[T]) retain(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return false
	}
	e.refs++
	return true
}

func (s *Storage[T]) release(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(s.entries, id)
		s.evicted++
	}
}

func (s *Storage[T]) refCount(id uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.entries[id]; ok {
		return int(e.refs)
	}
	return 0
}
