package source

// Subscription is the cancellable token returned from a subscribe call.
// Exactly one Subscription exists per registration.
//
// For weak subscriptions the Subscription is also the only strong holder of
// the registered handler: dropping it makes the handler collectable, after
// which the source stops delivering to it. Keep the Subscription reachable
// for as long as the handler should receive values.
type Subscription struct {
	id     string
	cancel func() bool

	// pin keeps a weak subscription's inner slot alive while the handle is
	// reachable. Nil for strong subscriptions, where the registry itself
	// owns the slot.
	pin any
}

// ID returns the unique identifier of this subscription, useful for
// correlating log entries.
func (s *Subscription) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

// Cancel removes the subscription from its source. It is idempotent and safe
// to call from any goroutine, any number of times, concurrently with an
// in-flight publish. A publish that already captured its snapshot may deliver
// once more to the cancelled handler; it never delivers twice.
func (s *Subscription) Cancel() {
	if s == nil || s.cancel == nil {
		return
	}
	s.cancel()
}
