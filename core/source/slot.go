package source

import (
	"context"
	"weak"

	"github.com/google/uuid"
)

// slotKind discriminates the slot variants. The dispatch engine switches on
// it exhaustively; adding a kind means updating every switch.
type slotKind uint8

const (
	// slotSync wraps a synchronous callback held strongly.
	slotSync slotKind = iota

	// slotAsync wraps an asynchronous callback held strongly.
	slotAsync

	// slotWeakForward proxies to an inner sync or async slot through a
	// non-owning reference. The inner slot is kept alive only by the
	// Subscription handle returned to the caller.
	slotWeakForward
)

// slot is the unit of registration: a closed tagged union over the three
// handler variants. Slots are immutable after creation; removal replaces the
// registry's slot collection rather than mutating the slot.
type slot[T any] struct {
	id   string
	kind slotKind

	// slotSync
	fn HandlerFunc[T]

	// slotAsync
	asyncFn AsyncHandlerFunc[T]

	// slotWeakForward. owner is a back-reference to the registry this slot
	// lives in, valid for the slot's whole lifetime, used for self-removal
	// once target stops resolving.
	owner  *registry[T]
	target weak.Pointer[slot[T]]
}

func newSyncSlot[T any](fn HandlerFunc[T]) *slot[T] {
	return &slot[T]{
		id:   uuid.New().String(),
		kind: slotSync,
		fn:   fn,
	}
}

func newAsyncSlot[T any](fn AsyncHandlerFunc[T]) *slot[T] {
	return &slot[T]{
		id:      uuid.New().String(),
		kind:    slotAsync,
		asyncFn: fn,
	}
}

// newWeakForwardSlot builds the registry-side half of a weak subscription.
// It does not hold inner alive; once the caller drops the Subscription handle
// the weak pointer stops resolving and the forward slot removes itself on the
// next dispatch.
func newWeakForwardSlot[T any](owner *registry[T], inner *slot[T]) *slot[T] {
	return &slot[T]{
		id:     uuid.New().String(),
		kind:   slotWeakForward,
		owner:  owner,
		target: weak.Make(inner),
	}
}

// resolve follows the weak indirection, if any, and reports whether the slot
// is live. A forward slot whose target has been reclaimed removes itself from
// its owning registry and reports dead. Direct slots always resolve to
// themselves. Reclamation is not an error; dispatch simply skips dead slots.
func (s *slot[T]) resolve() (*slot[T], bool) {
	if s.kind != slotWeakForward {
		return s, true
	}

	inner := s.target.Value()
	if inner == nil {
		s.owner.remove(s)
		return nil, false
	}
	return inner, true
}

// call runs a synchronous callback, converting a panic into an error so a
// misbehaving handler cannot abort the dispatch walk.
func call[T any](fn HandlerFunc[T], v T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newPanicError(r)
		}
	}()
	return fn(v)
}

// guard wraps an asynchronous callback with the same panic containment as
// call, for execution inside a future.
func guard[T any](fn AsyncHandlerFunc[T]) func(context.Context, T) error {
	return func(ctx context.Context, v T) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = newPanicError(r)
			}
		}()
		return fn(ctx, v)
	}
}
