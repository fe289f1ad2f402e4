package server

import (
	"sync"
	"time"
)

type entry[T any] struct {
	val      T
	lastSeen time.Time
}

// registry holds values in memory and expires them after ttl without
// access. onEvict runs outside the lock for every expired or replaced
// value.
type registry[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	items   map[string]*entry[T]
	onEvict func(T)
	now     func() time.Time
}

func newRegistry[T any](ttl time.Duration, onEvict func(T)) *registry[T] {
	return &registry[T]{
		ttl:     ttl,
		items:   make(map[string]*entry[T]),
		onEvict: onEvict,
		now:     time.Now,
	}
}

// Get returns the value for key and marks it as used.
func (r *registry[T]) Get(key string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.items[key]
	if !ok {
		var zero T
		return zero, false
	}
	e.lastSeen = r.now()
	return e.val, true
}

// Put stores v under key, evicting any previous value.
func (r *registry[T]) Put(key string, v T) {
	r.mu.Lock()
	old, had := r.items[key]
	r.items[key] = &entry[T]{val: v, lastSeen: r.now()}
	r.mu.Unlock()

	if had && r.onEvict != nil {
		r.onEvict(old.val)
	}
}

// PutUnless stores v under key unless the current value satisfies keep.
// The check and the store happen under one lock. It returns the kept
// value and false when nothing was stored.
func (r *registry[T]) PutUnless(key string, v T, keep func(T) bool) (T, bool) {
	r.mu.Lock()
	old, had := r.items[key]
	if had && keep(old.val) {
		old.lastSeen = r.now()
		r.mu.Unlock()
		return old.val, false
	}
	r.items[key] = &entry[T]{val: v, lastSeen: r.now()}
	r.mu.Unlock()

	if had && r.onEvict != nil {
		r.onEvict(old.val)
	}
	var zero T
	return zero, true
}

// Delete removes key and evicts its value.
func (r *registry[T]) Delete(key string) bool {
	r.mu.Lock()
	old, had := r.items[key]
	delete(r.items, key)
	r.mu.Unlock()

	if had && r.onEvict != nil {
		r.onEvict(old.val)
	}
	return had
}

// Sweep evicts entries idle for longer than ttl and returns how many
// were removed.
func (r *registry[T]) Sweep() int {
	r.mu.Lock()
	cutoff := r.now().Add(-r.ttl)
	var expired []T
	for k, e := range r.items {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e.val)
			delete(r.items, k)
		}
	}
	r.mu.Unlock()

	if r.onEvict != nil {
		for _, v := range expired {
			r.onEvict(v)
		}
	}
	return len(expired)
}

// Len returns the number of held entries.
func (r *registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
