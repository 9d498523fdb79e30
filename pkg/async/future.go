package async

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned by AwaitWithTimeout when the future does not
// complete within the given duration. The underlying computation keeps
// running; the timeout only abandons the wait.
var ErrTimeout = errors.New("async: await timed out")

var closedCh = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Future is the eventual error outcome of an asynchronous computation.
// The zero value is not usable; create futures with Exec or Completed.
type Future struct {
	err  error
	done chan struct{}
}

// Exec runs fn in its own goroutine and returns a Future for its outcome.
// If ctx is already cancelled when the goroutine starts, fn is never invoked
// and the future completes with ctx's error.
func Exec[T any](ctx context.Context, param T, fn func(context.Context, T) error) *Future {
	f := &Future{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		select {
		case <-ctx.Done():
			f.err = ctx.Err()
			return
		default:
		}

		f.err = fn(ctx, param)
	}()

	return f
}

// Completed returns a future that is already complete with the given outcome.
// Useful when a synchronous result must flow through an asynchronous API.
func Completed(err error) *Future {
	return &Future{err: err, done: closedCh}
}

// Await blocks until the computation completes and returns its error.
func (f *Future) Await() error {
	<-f.done
	return f.err
}

// AwaitWithTimeout blocks until the computation completes or the timeout
// elapses, whichever happens first. Returns ErrTimeout on expiry.
func (f *Future) AwaitWithTimeout(timeout time.Duration) error {
	select {
	case <-f.done:
		return f.err
	case <-time.After(timeout):
		return ErrTimeout
	}
}

// IsComplete reports whether the computation has finished, without blocking.
func (f *Future) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// AwaitAll waits for every future to complete and returns their outcomes in
// argument order. It never short-circuits: even if an early future fails,
// all remaining futures are still awaited.
func AwaitAll(futures ...*Future) []error {
	if len(futures) == 0 {
		return nil
	}

	errs := make([]error, len(futures))
	for i, f := range futures {
		errs[i] = f.Await()
	}
	return errs
}
