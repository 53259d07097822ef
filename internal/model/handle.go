// Package model provides the lazily-initialized handle the adapters use for
// expensive model resources (ONNX sessions, engine probes).
package model

import "sync"

// Handle memoizes a successful load of a model resource for the lifetime of
// the process. A failed load is never cached: every Get retries, so a batch
// caller sees the load error on its first frame and can abort, while a
// one-shot CLI pays the retry at most once.
type Handle[T any] struct {
	mu     sync.Mutex
	loaded bool
	value  T
	load   func() (T, error)
}

// NewHandle creates a handle around the given load function. The function is
// not invoked until the first Get.
func NewHandle[T any](load func() (T, error)) *Handle[T] {
	return &Handle[T]{load: load}
}

// Get returns the loaded resource, loading it on first use.
func (h *Handle[T]) Get() (T, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.loaded {
		return h.value, nil
	}

	v, err := h.load()
	if err != nil {
		var zero T
		return zero, err
	}

	h.value = v
	h.loaded = true
	return h.value, nil
}

// Loaded reports whether a successful load has happened.
func (h *Handle[T]) Loaded() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loaded
}

// Close releases the resource through the given function, if one was loaded,
// and resets the handle to the not-loaded state.
func (h *Handle[T]) Close(release func(T) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.loaded {
		return nil
	}
	h.loaded = false
	return release(h.value)
}
