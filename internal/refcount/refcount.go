// Package refcount implements shared ownership of a value with a release hook.
//
// A Shared starts with one owner. Every additional owner calls Acquire, every
// owner calls Release exactly once, and the release hook runs on the
// transition to zero owners. The count is atomic, so owners may be released
// from different goroutines; the value itself is not synchronized.
package refcount

import (
	"errors"
	"sync/atomic"
)

var (
	// ErrReleased is the panic value for Acquire on a value whose owners
	// have all been released.
	ErrReleased = errors.New("refcount: acquire after final release")

	// ErrUnderflow is the panic value for a Release without a matching owner.
	ErrUnderflow = errors.New("refcount: release without owner")
)

// Shared holds a value together with its owner count.
type Shared[T any] struct {
	value   T
	refs    atomic.Int64
	release func(T)
}

// New returns a Shared owning value with a count of one.
// release may be nil.
func New[T any](value T, release func(T)) *Shared[T] {
	s := &Shared[T]{value: value, release: release}
	s.refs.Store(1)
	return s
}

// Value returns the shared value.
func (s *Shared[T]) Value() T {
	return s.value
}

// Acquire registers one more owner and returns s.
// Panics with ErrReleased if the count already reached zero.
func (s *Shared[T]) Acquire() *Shared[T] {
	for {
		n := s.refs.Load()
		if n <= 0 {
			panic(ErrReleased)
		}
		if s.refs.CompareAndSwap(n, n+1) {
			return s
		}
	}
}

// Release drops one owner. It reports whether this call released the value,
// in which case the release hook has run.
// Panics with ErrUnderflow if there is no owner left to drop.
func (s *Shared[T]) Release() bool {
	n := s.refs.Add(-1)
	switch {
	case n > 0:
		return false
	case n < 0:
		s.refs.Add(1)
		panic(ErrUnderflow)
	}
	if s.release != nil {
		s.release(s.value)
	}
	return true
}

// Count returns the current number of owners.
func (s *Shared[T]) Count() int {
	return int(s.refs.Load())
}

// Exclusive reports whether exactly one owner holds the value.
func (s *Shared[T]) Exclusive() bool {
	return s.refs.Load() == 1
}
