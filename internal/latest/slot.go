// Package latest provides a single-slot, latest-wins handoff between one
// producer and one consumer.
package latest

import "sync/atomic"

// Slot holds at most one pending value. Publishing replaces any value the
// consumer has not taken yet; consuming empties the slot. Neither side
// blocks.
type Slot[T any] struct {
	v atomic.Pointer[T]

	published atomic.Uint64
	replaced  atomic.Uint64
	consumed  atomic.Uint64
}

// Stats counts slot traffic since creation.
type Stats struct {
	Published uint64
	Replaced  uint64
	Consumed  uint64
}

// Publish stores v as the pending value. If an unconsumed value was
// displaced it is returned with replaced=true so the caller can recycle it.
func (s *Slot[T]) Publish(v T) (displaced T, replaced bool) {
	s.published.Add(1)
	old := s.v.Swap(&v)
	if old == nil {
		return displaced, false
	}
	s.replaced.Add(1)
	return *old, true
}

// TryConsume takes the pending value, if any.
func (s *Slot[T]) TryConsume() (T, bool) {
	old := s.v.Swap(nil)
	if old == nil {
		var zero T
		return zero, false
	}
	s.consumed.Add(1)
	return *old, true
}

// Pending reports whether a value is waiting. The answer may be stale by
// the time it is read.
func (s *Slot[T]) Pending() bool {
	return s.v.Load() != nil
}

// Stats returns a snapshot of the counters.
func (s *Slot[T]) Stats() Stats {
	return Stats{
		Published: s.published.Load(),
		Replaced:  s.replaced.Load(),
		Consumed:  s.consumed.Load(),
	}
}
