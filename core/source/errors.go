package source

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNilHandler is returned when a nil callback is passed to a subscribe method.
	ErrNilHandler = errors.New("handler must not be nil")

	// ErrSourceClosed is returned when subscribing to or publishing on a closed source.
	ErrSourceClosed = errors.New("source is closed")
)

// DeliveryError aggregates two or more handler failures from a single publish.
// Failures are ordered by the failing handlers' registration order.
//
// A publish in which exactly one handler fails returns that handler's error
// unchanged; DeliveryError only appears when there are at least two failures.
//
// Example:
//
//	if err := src.Publish(v); err != nil {
//	    var derr *source.DeliveryError
//	    if errors.As(err, &derr) {
//	        for _, cause := range derr.Errors {
//	            log.Printf("handler failed: %v", cause)
//	        }
//	    }
//	}
type DeliveryError struct {
	// Errors holds the individual handler failures in registration order.
	Errors []error
}

// Error implements the error interface.
func (e *DeliveryError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d handlers failed: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap returns the underlying handler failures, making DeliveryError
// compatible with errors.Is and errors.As.
func (e *DeliveryError) Unwrap() []error {
	return e.Errors
}

// newPanicError converts a recovered handler panic into a handler failure so
// it flows through the same aggregation as a returned error.
func newPanicError(r any) error {
	return fmt.Errorf("handler panicked: %v", r)
}

// aggregate collapses per-handler outcomes into a single publish result.
// Nil entries are successes and are dropped.
func aggregate(errs []error) error {
	var failures []error
	for _, err := range errs {
		if err != nil {
			failures = append(failures, err)
		}
	}

	switch len(failures) {
	case 0:
		return nil
	case 1:
		return failures[0]
	default:
		return &DeliveryError{Errors: failures}
	}
}
