// Package buffer provides the per-modality raw event buffer shared between
// capture producers and the draining collector.
package buffer

import "sync"

// Buffer is an append-only, thread-safe collection of raw events. Producers
// call Record concurrently; a single consumer drains.
type Buffer[T any] struct {
	mu     sync.Mutex
	events []T
	closed bool
}

// New returns an empty buffer.
func New[T any]() *Buffer[T] {
	return &Buffer[T]{}
}

// Record appends an event under exclusive access. It reports whether the
// event was accepted; a closed buffer rejects everything, so no event can
// slip in between the final drain and the end of the session.
func (b *Buffer[T]) Record(event T) bool {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return false
	}
	b.events = append(b.events, event)
	b.mu.Unlock()
	return true
}

// Drain atomically removes and returns all buffered events, resetting the
// buffer. No event recorded after the drain starts appears in the returned
// slice, and none is lost or duplicated.
func (b *Buffer[T]) Drain() []T {
	b.mu.Lock()
	events := b.events
	b.events = nil
	b.mu.Unlock()
	return events
}

// Close drains the remaining events and marks the buffer closed in the same
// critical section. Every event accepted before Close is in the returned
// slice; every Record racing with it is either included or rejected.
func (b *Buffer[T]) Close() []T {
	b.mu.Lock()
	b.closed = true
	events := b.events
	b.events = nil
	b.mu.Unlock()
	return events
}

// Snapshot returns a copy of the buffered events without resetting, used for
// live metric reads between flushes.
func (b *Buffer[T]) Snapshot() []T {
	b.mu.Lock()
	events := make([]T, len(b.events))
	copy(events, b.events)
	b.mu.Unlock()
	return events
}

// Len reports how many events are currently buffered.
func (b *Buffer[T]) Len() int {
	b.mu.Lock()
	n := len(b.events)
	b.mu.Unlock()
	return n
}
