package source

// Decorator wraps a synchronous handler to add cross-cutting functionality.
// It follows the same pattern as HTTP middleware, allowing decorators to be
// composed and applied in order.
//
// Example:
//
//	func logged[T any](fn source.HandlerFunc[T]) source.HandlerFunc[T] {
//	    return func(v T) error {
//	        err := fn(v)
//	        if err != nil {
//	            log.Printf("handler failed: %v", err)
//	        }
//	        return err
//	    }
//	}
type Decorator[T any] func(HandlerFunc[T]) HandlerFunc[T]

// AsyncDecorator wraps an asynchronous handler to add cross-cutting
// functionality.
type AsyncDecorator[T any] func(AsyncHandlerFunc[T]) AsyncHandlerFunc[T]

// Apply composes decorators around a synchronous handler. Decorators are
// applied in the order they are listed: the first decorator becomes the
// outermost wrapper and executes first.
//
// Example:
//
//	sub, err := src.Subscribe(source.Apply(
//	    handleOrder,
//	    source.Recover[OrderPlaced](),
//	    source.Retry[OrderPlaced](3),
//	))
func Apply[T any](fn HandlerFunc[T], decorators ...Decorator[T]) HandlerFunc[T] {
	// Applied last to first so the first listed decorator wraps outermost.
	for i := len(decorators) - 1; i >= 0; i-- {
		fn = decorators[i](fn)
	}
	return fn
}

// ApplyAsync composes decorators around an asynchronous handler with the
// same ordering as Apply.
//
// Example:
//
//	sub, err := src.SubscribeAsync(source.ApplyAsync(
//	    notifyWebhook,
//	    source.TimeoutAsync[OrderPlaced](30*time.Second),
//	    source.BackoffAsync[OrderPlaced](5, 100*time.Millisecond, 10*time.Second),
//	))
func ApplyAsync[T any](fn AsyncHandlerFunc[T], decorators ...AsyncDecorator[T]) AsyncHandlerFunc[T] {
	for i := len(decorators) - 1; i >= 0; i-- {
		fn = decorators[i](fn)
	}
	return fn
}
