package source_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventkit-go/eventkit/core/source"
)

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	fn := source.Apply(func(int) error {
		if attempts.Add(1) < 3 {
			return errors.New("transient")
		}
		return nil
	}, source.Retry[int](3))

	require.NoError(t, fn(1))
	assert.Equal(t, int32(3), attempts.Load())
}

func TestRetry_Exhausted(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	var attempts atomic.Int32
	fn := source.Apply(func(int) error {
		attempts.Add(1)
		return errBoom
	}, source.Retry[int](2))

	err := fn(1)
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, int32(3), attempts.Load(), "initial attempt plus two retries")
}

func TestRecover_ConvertsPanic(t *testing.T) {
	t.Parallel()

	fn := source.Apply(func(int) error {
		panic("kaboom")
	}, source.Recover[int]())

	var err error
	require.NotPanics(t, func() { err = fn(1) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestApply_FirstDecoratorOutermost(t *testing.T) {
	t.Parallel()

	var order []string
	tag := func(name string) source.Decorator[int] {
		return func(next source.HandlerFunc[int]) source.HandlerFunc[int] {
			return func(v int) error {
				order = append(order, name)
				return next(v)
			}
		}
	}

	fn := source.Apply(func(int) error {
		order = append(order, "handler")
		return nil
	}, tag("outer"), tag("inner"))

	require.NoError(t, fn(1))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestRetryAsync_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	var attempts atomic.Int32
	fn := source.ApplyAsync(func(context.Context, int) error {
		attempts.Add(1)
		cancel()
		return errors.New("transient")
	}, source.RetryAsync[int](5))

	err := fn(ctx, 1)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), attempts.Load(), "no retry after cancellation")
}

func TestBackoffAsync_RetriesWithDelay(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	fn := source.ApplyAsync(func(context.Context, int) error {
		if attempts.Add(1) < 3 {
			return errors.New("transient")
		}
		return nil
	}, source.BackoffAsync[int](5, time.Millisecond, 10*time.Millisecond))

	start := time.Now()
	require.NoError(t, fn(context.Background(), 1))
	assert.Equal(t, int32(3), attempts.Load())
	assert.GreaterOrEqual(t, time.Since(start), 3*time.Millisecond, "delays of 1ms and 2ms before the third attempt")
}

func TestTimeoutAsync_EnforcesDeadline(t *testing.T) {
	t.Parallel()

	fn := source.ApplyAsync(func(ctx context.Context, _ int) error {
		select {
		case <-time.After(time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}, source.TimeoutAsync[int](20*time.Millisecond))

	err := fn(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTimeoutAsync_PassesThroughFastHandlers(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	fn := source.ApplyAsync(func(context.Context, int) error {
		return errBoom
	}, source.TimeoutAsync[int](time.Second))

	assert.ErrorIs(t, fn(context.Background(), 1), errBoom)
}

func TestDecoratedHandler_ThroughSource(t *testing.T) {
	t.Parallel()

	src := source.New[int]()

	var attempts atomic.Int32
	_, err := src.Subscribe(source.Apply(func(int) error {
		if attempts.Add(1) < 2 {
			return errors.New("transient")
		}
		return nil
	}, source.Retry[int](2)))
	require.NoError(t, err)

	require.NoError(t, src.Publish(1))
	assert.Equal(t, int32(2), attempts.Load())
}
