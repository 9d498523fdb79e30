package source

import (
	"sync"
	"sync/atomic"
)

// registry owns the ordered collection of live slots for one source.
//
// Mutation (add, remove, close) is serialized by a mutex and applied
// copy-on-write: the current slice is never modified in place, a new slice is
// built and published through an atomic pointer. Readers therefore take no
// lock; snapshot observes either the pre-mutation or post-mutation state,
// never a partial one, and a publish iterating an older snapshot is unaffected
// by concurrent changes.
type registry[T any] struct {
	mu     sync.Mutex
	closed bool
	slots  atomic.Pointer[[]*slot[T]]
}

func newRegistry[T any]() *registry[T] {
	r := &registry[T]{}
	empty := make([]*slot[T], 0)
	r.slots.Store(&empty)
	return r
}

// add appends sl to the end of the collection, preserving registration order.
// Returns ErrSourceClosed after close.
func (r *registry[T]) add(sl *slot[T]) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrSourceClosed
	}

	cur := *r.slots.Load()
	next := make([]*slot[T], len(cur)+1)
	copy(next, cur)
	next[len(cur)] = sl
	r.slots.Store(&next)
	return nil
}

// remove deletes the first occurrence of sl, compared by identity. Reports
// whether anything was removed; removing an absent slot is a no-op, which
// makes handle cancellation idempotent and tolerates the race between an
// explicit cancel and a weak slot's self-removal.
func (r *registry[T]) remove(sl *slot[T]) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := *r.slots.Load()
	for i, existing := range cur {
		if existing == sl {
			next := make([]*slot[T], 0, len(cur)-1)
			next = append(next, cur[:i]...)
			next = append(next, cur[i+1:]...)
			r.slots.Store(&next)
			return true
		}
	}
	return false
}

// snapshot returns the current slot collection without copying or locking.
// The returned slice is immutable; it is the point-in-time view dispatch
// iterates over.
func (r *registry[T]) snapshot() []*slot[T] {
	return *r.slots.Load()
}

// size reports the number of live slots.
func (r *registry[T]) size() int {
	return len(*r.slots.Load())
}

// close drops all slots and rejects further registrations.
func (r *registry[T]) close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	empty := make([]*slot[T], 0)
	r.slots.Store(&empty)
}
