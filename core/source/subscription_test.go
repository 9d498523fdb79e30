package source_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventkit-go/eventkit/core/source"
)

func TestSubscription_CancelBeforePublish(t *testing.T) {
	t.Parallel()

	src := source.New[int]()

	var calls atomic.Int32
	sub, err := src.Subscribe(func(int) error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, err)

	sub.Cancel()

	require.NoError(t, src.Publish(1))
	assert.Equal(t, int32(0), calls.Load(), "cancelled handler must not be invoked")
	assert.Equal(t, 0, src.Len())
}

func TestSubscription_CancelIdempotent(t *testing.T) {
	t.Parallel()

	src := source.New[int]()

	sub, err := src.Subscribe(func(int) error { return nil })
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		sub.Cancel()
		sub.Cancel()
		sub.Cancel()
	})
	assert.Equal(t, 0, src.Len())
}

func TestSubscription_CancelConcurrent(t *testing.T) {
	t.Parallel()

	src := source.New[int]()

	sub, err := src.Subscribe(func(int) error { return nil })
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NotPanics(t, func() { sub.Cancel() })
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, src.Len(), "concurrent cancels remove the subscription exactly once")
}

func TestSubscription_CancelDuringPublish(t *testing.T) {
	t.Parallel()

	src := source.New[int]()

	entered := make(chan struct{})
	release := make(chan struct{})

	var gateCalls atomic.Int32
	_, err := src.Subscribe(func(int) error {
		gateCalls.Add(1)
		close(entered)
		<-release
		return nil
	})
	require.NoError(t, err)

	var calls atomic.Int32
	sub, err := src.Subscribe(func(int) error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- src.Publish(1)
	}()

	// The publish has captured its snapshot (it is inside the first
	// handler); cancelling now must not block and the in-flight publish
	// still delivers to the cancelled slot at most once.
	<-entered
	sub.Cancel()
	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, int32(1), calls.Load(), "snapshot was captured before cancel; one delivery, never two")
	assert.Equal(t, int32(1), gateCalls.Load())

	// Later publishes no longer see the cancelled slot.
	assert.Equal(t, 1, src.Len())
}

func TestSubscription_ID(t *testing.T) {
	t.Parallel()

	src := source.New[int]()

	sub, err := src.Subscribe(func(int) error { return nil })
	require.NoError(t, err)
	assert.NotEmpty(t, sub.ID())

	var nilSub *source.Subscription
	assert.Equal(t, "", nilSub.ID())
	assert.NotPanics(t, func() { nilSub.Cancel() })
}
