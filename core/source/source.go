package source

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
)

// HandlerFunc is a synchronous callback receiving published values of type T.
type HandlerFunc[T any] func(T) error

// AsyncHandlerFunc is an asynchronous callback receiving published values of
// type T. It runs in its own goroutine; the context carries publish metadata
// (see PublishID, PublishTime) and, for PublishAsync, the caller's context.
type AsyncHandlerFunc[T any] func(context.Context, T) error

// Source is a typed in-process broadcast channel: an append-only stream of
// values of type T delivered to every registered handler in registration
// order. Source has identity semantics only; do not copy it.
//
// All methods are safe for concurrent use. Publishes are not serialized
// against each other; each publish individually preserves registration order.
//
// Example:
//
//	src := source.New[OrderPlaced]()
//
//	sub, err := src.Subscribe(func(evt OrderPlaced) error {
//	    return reserveStock(evt.OrderID)
//	})
//	if err != nil {
//	    return err
//	}
//	defer sub.Cancel()
//
//	if err := src.Publish(OrderPlaced{OrderID: "o-1"}); err != nil {
//	    log.Printf("delivery failed: %v", err)
//	}
type Source[T any] struct {
	reg    *registry[T]
	logger *slog.Logger
	closed atomic.Bool
}

// Option configures a Source.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger configures structured logging for the source's own lifecycle
// events (subscribe, cancel, weak reclamation, close). Handler errors are
// never logged by the source; they are returned to the publisher, which owns
// the decision to propagate, log, or swallow them.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates an empty broadcast source for values of type T.
//
// Example:
//
//	src := source.New[int](source.WithLogger(logger))
func New[T any](opts ...Option) *Source[T] {
	cfg := config{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Source[T]{
		reg:    newRegistry[T](),
		logger: cfg.logger,
	}
}

// Subscribe registers a synchronous handler held strongly by the source.
// The handler is invoked on every publish until the returned Subscription is
// cancelled. Returns ErrNilHandler for a nil fn and ErrSourceClosed after
// Close; in both cases the registry is untouched.
func (s *Source[T]) Subscribe(fn HandlerFunc[T]) (*Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return s.register(newSyncSlot(fn), "sync", "strong")
}

// SubscribeAsync registers an asynchronous handler held strongly by the
// source. During Publish the handler is started in its own goroutine and its
// completion awaited before the publish returns; during PublishAsync it is
// awaited before the next handler runs.
func (s *Source[T]) SubscribeAsync(fn AsyncHandlerFunc[T]) (*Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return s.register(newAsyncSlot(fn), "async", "strong")
}

// SubscribeWeak registers a synchronous handler that the source does not keep
// alive. The returned Subscription is the handler's only strong holder: while
// the caller retains it, delivery is indistinguishable from Subscribe; once
// the caller drops it and the garbage collector reclaims the handler, the
// registration lazily removes itself on the next publish.
func (s *Source[T]) SubscribeWeak(fn HandlerFunc[T]) (*Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return s.registerWeak(newSyncSlot(fn), "sync")
}

// SubscribeWeakAsync registers an asynchronous handler with the same weak
// lifecycle as SubscribeWeak.
func (s *Source[T]) SubscribeWeakAsync(fn AsyncHandlerFunc[T]) (*Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return s.registerWeak(newAsyncSlot(fn), "async")
}

// register adds a strongly held slot and builds its handle.
func (s *Source[T]) register(sl *slot[T], mode, durability string) (*Subscription, error) {
	if err := s.reg.add(sl); err != nil {
		return nil, err
	}

	s.logger.Debug("subscription added",
		slog.String("subscription_id", sl.id),
		slog.String("mode", mode),
		slog.String("durability", durability))

	return s.newHandle(sl, nil), nil
}

// registerWeak wraps inner in a forward slot, registers the forward slot, and
// pins inner to the handle. The registry never holds inner strongly; the weak
// pointer inside the forward slot is the only path from source to handler.
func (s *Source[T]) registerWeak(inner *slot[T], mode string) (*Subscription, error) {
	fwd := newWeakForwardSlot(s.reg, inner)
	if err := s.reg.add(fwd); err != nil {
		return nil, err
	}

	s.logger.Debug("subscription added",
		slog.String("subscription_id", fwd.id),
		slog.String("mode", mode),
		slog.String("durability", "weak"))

	return s.newHandle(fwd, inner), nil
}

func (s *Source[T]) newHandle(registered *slot[T], pin any) *Subscription {
	return &Subscription{
		id:  registered.id,
		pin: pin,
		cancel: func() bool {
			removed := s.reg.remove(registered)
			if removed {
				s.logger.Debug("subscription cancelled",
					slog.String("subscription_id", registered.id))
			}
			return removed
		},
	}
}

// Len reports the number of registered slots, including weak registrations
// whose targets have been reclaimed but not yet swept by a publish.
func (s *Source[T]) Len() int {
	return s.reg.size()
}

// Close shuts the source down: all registrations are dropped, subsequent
// Subscribe and Publish calls return ErrSourceClosed, and outstanding
// Subscription.Cancel calls become no-ops. A second Close returns
// ErrSourceClosed.
func (s *Source[T]) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrSourceClosed
	}

	s.reg.close()
	s.logger.Info("source closed")
	return nil
}
