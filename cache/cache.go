// Package cache provides the in-memory store for computed monthly summaries.
// Entries live until their TTL passes or an expense write invalidates them.
package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Store is a keyed cache with per-entry TTL. The zero value is not usable;
// construct with New.
type Store[T any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry[T]
}

func New[T any](ttl time.Duration) *Store[T] {
	return &Store[T]{
		ttl:     ttl,
		entries: make(map[string]entry[T]),
	}
}

// Get returns the cached value for key when present and not expired.
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	var zero T
	if !ok {
		return zero, false
	}
	if time.Now().After(e.expiresAt) {
		s.Invalidate(key)
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, replacing any previous entry.
func (s *Store[T]) Set(key string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry[T]{value: value, expiresAt: time.Now().Add(s.ttl)}
}

// Invalidate drops the entry for key if present.
func (s *Store[T]) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Len reports the number of live entries, expired ones included until read.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
