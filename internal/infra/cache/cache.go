// Package cache provides the process-local result cache used by the query
// layer. Entries are keyed by query identity plus serialized arguments and
// evicted lazily on access; there is no background sweep and no invalidation
// API. TTL <= 0 means entries never expire (session-lifetime caches).
package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value    any
	storedAt time.Time
}

// Store is a TTL-bounded map from composite keys to results. The clock is
// injectable so expiry can be tested without sleeping.
type Store struct {
	mu  sync.RWMutex
	ttl time.Duration
	now func() time.Time
	m   map[string]entry
}

// Option mutates a Store at construction.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New builds a Store with the given TTL. ttl <= 0 disables expiry.
func New(ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		ttl: ttl,
		now: time.Now,
		m:   make(map[string]entry),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Key builds the composite cache key from a query identity and its arguments.
// Every argument that affects the result must be included; two calls differing
// in any argument are distinct entries.
func Key(query string, args ...any) string {
	if len(args) == 0 {
		return query
	}
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, query)
	for _, a := range args {
		switch v := a.(type) {
		case time.Time:
			parts = append(parts, v.Format("2006-01-02"))
		case nil:
			parts = append(parts, "all")
		default:
			parts = append(parts, fmt.Sprint(v))
		}
	}
	return strings.Join(parts, "|")
}

// Get returns the stored value if present and not expired.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.m[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && s.now().Sub(e.storedAt) >= s.ttl {
		// Expired; drop it so the map does not grow unbounded.
		s.mu.Lock()
		if cur, ok := s.m[key]; ok && cur.storedAt.Equal(e.storedAt) {
			delete(s.m, key)
		}
		s.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores value under key, replacing any previous entry.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	s.m[key] = entry{value: value, storedAt: s.now()}
	s.mu.Unlock()
}

// Flush drops every entry. Used by the FFP reference cache's explicit refresh.
func (s *Store) Flush() {
	s.mu.Lock()
	s.m = make(map[string]entry)
	s.mu.Unlock()
}

// Len reports the number of stored entries, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
