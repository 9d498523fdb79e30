// Package source provides a typed, in-process broadcast primitive: a producer
// owns a Source[T] and publishes values of type T; consumers register
// synchronous or asynchronous handlers that are invoked, in registration
// order, on every publish. Delivery is strictly in-memory and single-process.
//
// # Core Components
//
// Source[T] owns the subscription registry for one value type. Subscriptions
// are added with Subscribe, SubscribeAsync, SubscribeWeak and
// SubscribeWeakAsync; values are delivered with Publish and PublishAsync.
//
// Subscription is the cancellable token returned from every subscribe call.
// Cancel is idempotent and safe to call concurrently with dispatch.
//
// DeliveryError aggregates multiple handler failures from a single publish,
// in registration order.
//
// # Basic Usage
//
//	type OrderPlaced struct {
//	    OrderID string
//	    Total   float64
//	}
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
//	if err := src.Publish(OrderPlaced{OrderID: "o-1", Total: 99.90}); err != nil {
//	    log.Printf("delivery failed: %v", err)
//	}
//
// # Delivery Guarantees
//
// Every publish walks a point-in-time snapshot of the registry: handlers
// added or cancelled concurrently never affect a publish already in flight.
// Each live handler in the snapshot is attempted exactly once per publish,
// regardless of earlier failures in the same publish. After the walk, a
// single failure is returned unchanged and multiple failures are combined
// into a *DeliveryError carrying all of them in order:
//
//	err := src.Publish(evt)
//	var derr *source.DeliveryError
//	if errors.As(err, &derr) {
//	    log.Printf("%d handlers failed", len(derr.Errors))
//	}
//
// Publishing with zero subscribers succeeds with no side effects. Two
// concurrent publishes may interleave arbitrarily with each other, but each
// one individually preserves registration order.
//
// # Asynchronous Handlers
//
// An async handler runs in its own goroutine and its completion is awaited by
// the publish that invoked it. Publish starts async handlers in registration
// order and awaits them after the walk; PublishAsync awaits each one before
// invoking the next handler, so execution order stays deterministic:
//
//	sub, err := src.SubscribeAsync(func(ctx context.Context, evt OrderPlaced) error {
//	    return notifyWarehouse(ctx, evt)
//	})
//
//	fut := src.PublishAsync(ctx, evt)
//	// ... other work ...
//	if err := fut.Await(); err != nil {
//	    log.Printf("delivery failed: %v", err)
//	}
//
// The context passed to async handlers carries per-publish metadata:
//
//	src.SubscribeAsync(func(ctx context.Context, evt OrderPlaced) error {
//	    logger.InfoContext(ctx, "handling order",
//	        "publish_id", source.PublishID(ctx),
//	        "published_at", source.PublishTime(ctx))
//	    return nil
//	})
//
// # Weak Subscriptions
//
// A weak subscription does not keep its handler alive. The returned
// Subscription is the handler's only strong holder; the registry reaches the
// handler through a weak pointer. While the caller retains the Subscription,
// delivery is indistinguishable from a strong subscription. Once the caller
// drops it and the garbage collector reclaims the handler, the registration
// removes itself on the next publish, without delivering to the reclaimed
// target and without surfacing an error:
//
//	sub, err := src.SubscribeWeak(cache.invalidate)
//	// keep sub reachable for as long as cache should receive updates;
//	// dropping sub (for example when cache is discarded) ends delivery
//	// without an explicit Cancel.
//
// This suits observers whose lifetime is tied to another object, where an
// explicit Cancel at the right moment is easy to forget.
//
// # Cancellation
//
// Cancel removes the subscription exactly once no matter how many times, or
// from how many goroutines, it is called. Cancelling during an in-flight
// publish follows last-snapshot-wins semantics: the publish either misses the
// slot or delivers to it once more, never twice.
//
// # Handler Decorators
//
// Cross-cutting concerns compose through decorators, applied first-outermost:
//
//	sub, err := src.SubscribeAsync(source.ApplyAsync(
//	    notifyWebhook,
//	    source.TimeoutAsync[OrderPlaced](30*time.Second),
//	    source.BackoffAsync[OrderPlaced](5, 100*time.Millisecond, 10*time.Second),
//	))
//
// # Thread Safety
//
// All methods on Source and Subscription are safe for concurrent use.
// Registry mutation is serialized by a mutex and applied copy-on-write;
// dispatch reads the registry through an atomic snapshot and never takes the
// mutex, so subscribes and cancels are never blocked by a slow publish.
//
// # Lifecycle
//
// Close drops all registrations and invalidates the source: later Subscribe
// and Publish calls return ErrSourceClosed and outstanding Cancel calls
// become no-ops. The source imposes no timeouts; a hung handler blocks its
// own publish indefinitely and nothing else.
package source
