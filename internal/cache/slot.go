package cache

import (
	"sync"
	"time"
)

// Entry is a cached value and the time it was fetched
type Entry[T any] struct {
	Value     T
	FetchedAt time.Time
}

// Slot holds the last known good value for a single resource. It lives as
// long as its owner and is replaced whole on every Set.
type Slot[T any] struct {
	mu    sync.RWMutex
	entry *Entry[T]
	ttl   time.Duration
	now   func() time.Time
}

// Option configures a Slot
type Option func(*slotOptions)

type slotOptions struct {
	now func() time.Time
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(o *slotOptions) {
		o.now = now
	}
}

// NewSlot creates an empty slot. A ttl <= 0 means values are never fresh.
func NewSlot[T any](ttl time.Duration, opts ...Option) *Slot[T] {
	o := slotOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Slot[T]{ttl: ttl, now: o.now}
}

// Get returns the stored value only while it is younger than the TTL
func (s *Slot[T]) Get() (T, bool) {
	e, ok := s.Fresh()
	return e.Value, ok
}

// Fresh is Get with the fetch timestamp
func (s *Slot[T]) Fresh() (Entry[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.entry == nil || s.ttl <= 0 {
		return Entry[T]{}, false
	}
	if s.now().Sub(s.entry.FetchedAt) >= s.ttl {
		return Entry[T]{}, false
	}
	return *s.entry, true
}

// Peek returns the stored entry regardless of its age
func (s *Slot[T]) Peek() (Entry[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.entry == nil {
		return Entry[T]{}, false
	}
	return *s.entry, true
}

// Set replaces the stored value, stamping it with the current time
func (s *Slot[T]) Set(value T) {
	e := &Entry[T]{Value: value, FetchedAt: s.now()}
	s.mu.Lock()
	s.entry = e
	s.mu.Unlock()
}

// TTL returns the freshness window
func (s *Slot[T]) TTL() time.Duration {
	return s.ttl
}

// Clear drops the stored entry
func (s *Slot[T]) Clear() {
	s.mu.Lock()
	s.entry = nil
	s.mu.Unlock()
}
