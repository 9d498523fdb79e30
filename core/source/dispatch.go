package source

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/eventkit-go/eventkit/pkg/async"
)

// Publish delivers v to every live handler in registration order and blocks
// until all of them have completed.
//
// The walk runs over a point-in-time snapshot of the registry: subscriptions
// added or cancelled concurrently do not affect a publish already in flight.
// Synchronous handlers run inline. Asynchronous handlers are started in
// snapshot order and their completions awaited after the walk, so a slow
// async handler never prevents later handlers from being attempted.
//
// A handler failure never stops the walk: every live handler is attempted
// exactly once per publish. If exactly one handler fails, its error is
// returned unchanged; two or more failures are returned as a *DeliveryError
// in registration order. A weak registration whose target has been reclaimed
// is removed from the registry as a side effect and is not a failure.
//
// Publishing with no subscribers succeeds trivially.
func (s *Source[T]) Publish(v T) error {
	if s.closed.Load() {
		return ErrSourceClosed
	}

	snap := s.reg.snapshot()
	if len(snap) == 0 {
		return nil
	}

	ctx := s.publishContext(context.Background())

	// One future per attempted slot, in snapshot order, so aggregation
	// order equals registration order even with deferred async awaits.
	futures := make([]*async.Future, 0, len(snap))
	for _, sl := range snap {
		live, ok := sl.resolve()
		if !ok {
			s.logger.Debug("weak subscription reclaimed",
				slog.String("subscription_id", sl.id))
			continue
		}

		switch live.kind {
		case slotSync:
			futures = append(futures, async.Completed(call(live.fn, v)))
		case slotAsync:
			futures = append(futures, async.Exec(ctx, v, guard(live.asyncFn)))
		}
	}

	return aggregate(async.AwaitAll(futures...))
}

// PublishAsync delivers v to every live handler in registration order and
// returns a future that completes once all of them have.
//
// The registry snapshot is captured before PublishAsync returns, so the set
// of receivers is fixed at call time. Dispatch then runs in a single
// background goroutine: synchronous handlers run inline, and each
// asynchronous handler's completion is awaited before the next handler is
// invoked. There is no parallel fan-out; handler execution order is
// deterministic and identical to the synchronous path.
//
// The future resolves with the same aggregation contract as Publish. The
// caller's context is propagated to asynchronous handlers together with the
// publish metadata; cancelling it abandons handlers that have not started.
//
// Example:
//
//	fut := src.PublishAsync(ctx, evt)
//	// ... other work ...
//	if err := fut.Await(); err != nil {
//	    log.Printf("delivery failed: %v", err)
//	}
func (s *Source[T]) PublishAsync(ctx context.Context, v T) *async.Future {
	if s.closed.Load() {
		return async.Completed(ErrSourceClosed)
	}

	snap := s.reg.snapshot()
	if len(snap) == 0 {
		return async.Completed(nil)
	}

	return async.Exec(s.publishContext(ctx), v, func(ctx context.Context, v T) error {
		return s.dispatchSequential(ctx, snap, v)
	})
}

// dispatchSequential walks the snapshot one slot at a time, awaiting each
// asynchronous handler before moving on.
func (s *Source[T]) dispatchSequential(ctx context.Context, snap []*slot[T], v T) error {
	errs := make([]error, 0, len(snap))
	for _, sl := range snap {
		live, ok := sl.resolve()
		if !ok {
			s.logger.Debug("weak subscription reclaimed",
				slog.String("subscription_id", sl.id))
			continue
		}

		switch live.kind {
		case slotSync:
			errs = append(errs, call(live.fn, v))
		case slotAsync:
			errs = append(errs, async.Exec(ctx, v, guard(live.asyncFn)).Await())
		}
	}
	return aggregate(errs)
}

// publishContext stamps the context with per-publish metadata handed to
// asynchronous handlers.
func (s *Source[T]) publishContext(ctx context.Context) context.Context {
	ctx = WithPublishID(ctx, uuid.New().String())
	return WithPublishTime(ctx, time.Now())
}
