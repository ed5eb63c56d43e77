package sysinfo

import "sync"

// Lazy holds a value computed on first use and cached for the life of the
// process.
type Lazy[T any] struct {
	get func() T
}

func NewLazy[T any](f func() T) *Lazy[T] {
	return &Lazy[T]{get: sync.OnceValue(f)}
}

func (l *Lazy[T]) Get() T {
	return l.get()
}

// Reloadable holds a value resolved on first read. Reload resolves it again
// and replaces the cached value whatever the outcome. Readers never see a
// partially written value, and concurrent first reads share one resolution.
type Reloadable[T any] struct {
	resolve func() T

	mu     sync.RWMutex
	loaded bool
	value  T
}

func NewReloadable[T any](resolve func() T) *Reloadable[T] {
	return &Reloadable[T]{resolve: resolve}
}

func (r *Reloadable[T]) Get() T {
	r.mu.RLock()
	if r.loaded {
		v := r.value
		r.mu.RUnlock()
		return v
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded {
		r.value = r.resolve()
		r.loaded = true
	}
	return r.value
}

func (r *Reloadable[T]) Reload() T {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = r.resolve()
	r.loaded = true
	return r.value
}

// Loaded reports whether a value has been resolved yet.
func (r *Reloadable[T]) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}
