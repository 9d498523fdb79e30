package source

import (
	"context"
	"fmt"
	"time"
)

// Retry wraps a synchronous handler to retry on error up to maxRetries
// additional attempts. Returns the last error if all attempts fail.
//
// Example:
//
//	sub, err := src.Subscribe(source.Apply(
//	    handleOrder,
//	    source.Retry[OrderPlaced](3),
//	))
func Retry[T any](maxRetries int) Decorator[T] {
	return func(fn HandlerFunc[T]) HandlerFunc[T] {
		return func(v T) error {
			var lastErr error
			for attempt := 0; attempt <= maxRetries; attempt++ {
				err := fn(v)
				if err == nil {
					return nil
				}
				lastErr = err
			}
			return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
		}
	}
}

// Recover wraps a synchronous handler to convert panics into errors.
// The dispatch engine already contains panics; Recover is for handlers
// composed and invoked outside a Source.
func Recover[T any]() Decorator[T] {
	return func(fn HandlerFunc[T]) HandlerFunc[T] {
		return func(v T) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = newPanicError(r)
				}
			}()
			return fn(v)
		}
	}
}

// RetryAsync wraps an asynchronous handler to retry on error up to maxRetries
// additional attempts. Aborts between attempts if the context is cancelled.
func RetryAsync[T any](maxRetries int) AsyncDecorator[T] {
	return func(fn AsyncHandlerFunc[T]) AsyncHandlerFunc[T] {
		return func(ctx context.Context, v T) error {
			var lastErr error
			for attempt := 0; attempt <= maxRetries; attempt++ {
				if attempt > 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}

				err := fn(ctx, v)
				if err == nil {
					return nil
				}
				lastErr = err
			}
			return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
		}
	}
}

// BackoffAsync wraps an asynchronous handler with exponential backoff retry
// logic. Waits between attempts with exponentially increasing delays,
// starting at initialDelay and capped at maxDelay.
//
// Example:
//
//	sub, err := src.SubscribeAsync(source.ApplyAsync(
//	    notifyWebhook,
//	    source.BackoffAsync[OrderPlaced](5, 100*time.Millisecond, 10*time.Second),
//	))
func BackoffAsync[T any](maxRetries int, initialDelay, maxDelay time.Duration) AsyncDecorator[T] {
	return func(fn AsyncHandlerFunc[T]) AsyncHandlerFunc[T] {
		return func(ctx context.Context, v T) error {
			var lastErr error
			delay := initialDelay

			for attempt := 0; attempt <= maxRetries; attempt++ {
				if attempt > 0 {
					select {
					case <-ctx.Done():
						return ctx.Err()
					case <-time.After(delay):
					}

					// Cap exponential growth to prevent unbounded waits.
					delay *= 2
					if delay > maxDelay {
						delay = maxDelay
					}
				}

				err := fn(ctx, v)
				if err == nil {
					return nil
				}
				lastErr = err
			}
			return fmt.Errorf("failed after %d retries with backoff: %w", maxRetries, lastErr)
		}
	}
}

// TimeoutAsync wraps an asynchronous handler to enforce a maximum execution
// time. The handler's context is cancelled once the timeout elapses; the
// wrapper returns without waiting for a handler that ignores cancellation.
//
// Example:
//
//	sub, err := src.SubscribeAsync(source.ApplyAsync(
//	    processImage,
//	    source.TimeoutAsync[ImageUploaded](30*time.Second),
//	))
func TimeoutAsync[T any](timeout time.Duration) AsyncDecorator[T] {
	return func(fn AsyncHandlerFunc[T]) AsyncHandlerFunc[T] {
		return func(ctx context.Context, v T) error {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			errCh := make(chan error, 1)
			go func() {
				errCh <- fn(ctx, v)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				return fmt.Errorf("handler timeout after %s: %w", timeout, ctx.Err())
			}
		}
	}
}
