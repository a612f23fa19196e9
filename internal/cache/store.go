// Package cache implements the in-memory TTL stores that sit in front of each
// external data source. Entries are immutable once written and expire lazily:
// the first read past an entry's deadline removes it. There is no background
// sweeper — the working set is bounded by the number of distinct sites queried
// within a TTL window.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Store is a mutex-guarded key→value cache with per-entry expiry. The clock
// is injected so tests can advance time deterministically.
type Store[V any] struct {
	ttl time.Duration
	clk clockwork.Clock

	mu      sync.Mutex
	entries map[string]entry[V]
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// New creates a Store whose Set entries live for ttl.
func New[V any](ttl time.Duration, clk clockwork.Clock) *Store[V] {
	return &Store[V]{
		ttl:     ttl,
		clk:     clk,
		entries: make(map[string]entry[V]),
	}
}

// Get returns the value stored under key. An entry past its deadline is
// deleted on this read and reported as absent.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if s.clk.Now().After(e.expiresAt) {
		delete(s.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the store's default TTL. Replacing an
// existing entry resets its deadline.
func (s *Store[V]) Set(key string, value V) {
	s.SetWithTTL(key, value, s.ttl)
}

// SetWithTTL stores value with an explicit TTL, overriding the default.
// Used for short-lived negative entries after a source failure.
func (s *Store[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry[V]{value: value, expiresAt: s.clk.Now().Add(ttl)}
}

// Len reports the number of entries currently held, including expired ones
// that no read has evicted yet.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Key builds a cache key from a source prefix and coordinates rounded to five
// decimals (~1 m), so near-duplicate requests reuse the same entry.
func Key(prefix string, lat, lng float64) string {
	return fmt.Sprintf("%s:%.5f:%.5f", prefix, lat, lng)
}

// KeyWithRadius appends the search radius for sources whose payload depends on it.
func KeyWithRadius(prefix string, lat, lng float64, radiusM int) string {
	return fmt.Sprintf("%s:%.5f:%.5f:%d", prefix, lat, lng, radiusM)
}
