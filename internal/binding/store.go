package binding

import (
	"sync/atomic"

	"github.com/pleimann/camel-input/internal/event"
)

// Store holds the current binding table and swaps it atomically on reload
type Store[A comparable] struct {
	defaults map[event.Event]A
	current  atomic.Pointer[Table[A]]
}

// NewStore creates a store serving the defaults until an override is applied
func NewStore[A comparable](defaults map[event.Event]A) *Store[A] {
	s := &Store[A]{defaults: defaults}
	s.current.Store(Build(defaults, nil))
	return s
}

// Load returns the table snapshot a tick should use
func (s *Store[A]) Load() *Table[A] {
	return s.current.Load()
}

// Swap replaces the table and returns the previous one
func (s *Store[A]) Swap(t *Table[A]) *Table[A] {
	return s.current.Swap(t)
}

// Apply rebuilds the table from the defaults and override. It reports
// whether the bindings changed.
func (s *Store[A]) Apply(override Override[A]) bool {
	next := Build(s.defaults, override)
	prev := s.current.Swap(next)
	return prev.Fingerprint() != next.Fingerprint()
}
