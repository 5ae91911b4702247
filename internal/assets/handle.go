package assets

import "github.com/google/uuid"

// Handle is a shareable reference to an asset that may still be loading.
// Handles are comparable; two handles are equal when they name the same entry.
type Handle[T any] struct {
	id      uuid.UUID
	storage *Storage[T]
}

// ID returns the opaque asset id.
func (h Handle[T]) ID() uuid.UUID { return h.id }

// IsZero reports whether h refers to nothing.
func (h Handle[T]) IsZero() bool { return h.storage == nil }

// Clone takes another reference to the same entry. Cloning an evicted or
// zero handle returns the zero handle.
func (h Handle[T]) Clone() Handle[T] {
	if h.storage == nil || !h.storage.retain(h.id) {
		return Handle[T]{}
	}
	return h
}

// Release drops this reference.
func (h Handle[T]) Release() {
	if h.storage != nil {
		h.storage.release(h.id)
	}
}

// Get returns the resolved value, or false while loading, after a failure or
// once evicted.
func (h Handle[T]) Get() (*T, bool) {
	if h.storage == nil {
		return nil, false
	}
	v, state, _ := h.storage.lookup(h.id)
	return v, state == StateLoaded
}

// State returns the load state of the entry.
func (h Handle[T]) State() LoadState {
	if h.storage == nil {
		return StateMissing
	}
	_, state, _ := h.storage.lookup(h.id)
	return state
}

// Err returns the processing error of a failed entry.
func (h Handle[T]) Err() error {
	if h.storage == nil {
		return nil
	}
	_, _, err := h.storage.lookup(h.id)
	return err
}

// RefCount returns the number of live references.
func (h Handle[T]) RefCount() int {
	if h.storage == nil {
		return 0
	}
	return h.storage.refCount(h.id)
}
