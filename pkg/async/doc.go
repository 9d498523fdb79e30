// Package async provides a small future primitive for coordinating
// asynchronous computations that produce only an error.
//
// # Core Type
//
// Future represents the eventual outcome of a function running in its own
// goroutine. It can be awaited (Await), awaited with a deadline
// (AwaitWithTimeout), or polled without blocking (IsComplete).
//
// # Usage
//
// Run a function asynchronously and wait for it:
//
//	fut := async.Exec(ctx, payload, func(ctx context.Context, p Payload) error {
//		return process(ctx, p)
//	})
//
//	// Do other work...
//
//	if err := fut.Await(); err != nil {
//		log.Printf("processing failed: %v", err)
//	}
//
// With a timeout:
//
//	if err := fut.AwaitWithTimeout(time.Second); errors.Is(err, async.ErrTimeout) {
//		log.Println("still running")
//	}
//
// # Already-completed results
//
// Completed wraps a known outcome in a Future that is complete on creation.
// This lets callers that mix synchronous and asynchronous work treat both
// uniformly:
//
//	var fut *async.Future
//	if canRunInline {
//		fut = async.Completed(runInline(payload))
//	} else {
//		fut = async.Exec(ctx, payload, runInBackground)
//	}
//
// # Awaiting several futures
//
// AwaitAll blocks until every future has completed and returns their outcomes
// in argument order, one slot per future:
//
//	errs := async.AwaitAll(f1, f2, f3)
//	// errs[1] is f2's outcome, nil on success
//
// Unlike a first-error wait, AwaitAll never short-circuits; every future is
// always driven to completion.
//
// # Concurrency Safety
//
// A Future may be awaited from any number of goroutines concurrently.
// Completion is signalled by closing an internal channel, so all waiters
// observe the same outcome.
//
// # Context Support
//
// Exec checks the context before the function runs. If the context is already
// cancelled, the function is never invoked and the future completes with the
// context's error.
package async
