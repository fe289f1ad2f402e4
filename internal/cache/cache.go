// Package cache stores generated lesson content so revisiting a module
// does not pay for another model call.
package cache

import (
	"context"
	"sync"
	"time"
)

// Cache is a byte-valued key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Close() error
}

type entry struct {
	val     []byte
	expires time.Time // zero means no expiry
}

// sweepInterval bounds how often Set scans for expired entries.
const sweepInterval = time.Minute

// Memory is a process-local Cache. Expired entries are dropped when read
// and by a sweep that Set runs at most once per sweepInterval.
type Memory struct {
	mu        sync.Mutex
	entries   map[string]entry
	now       func() time.Time
	lastSweep time.Time
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	m := &Memory{entries: make(map[string]entry), now: time.Now}
	m.lastSweep = m.now()
	return m
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return append([]byte(nil), e.val...), true, nil
}

func (m *Memory) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.lastSweep) >= sweepInterval {
		m.sweep(now)
	}
	e := entry{val: append([]byte(nil), val...)}
	if ttl > 0 {
		e.expires = now.Add(ttl)
	}
	m.entries[key] = e
	return nil
}

// Sweep removes every expired entry and returns how many were removed.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweep(m.now())
}

func (m *Memory) sweep(now time.Time) int {
	n := 0
	for k, e := range m.entries {
		if !e.expires.IsZero() && !now.Before(e.expires) {
			delete(m.entries, k)
			n++
		}
	}
	m.lastSweep = now
	return n
}

// Len reports the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) Close() error { return nil }
