package source

import (
	"context"
	"time"
)

type publishIDCtx struct{}

// WithPublishID attaches a publish identifier to the context.
func WithPublishID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, publishIDCtx{}, id)
}

// PublishID extracts the publish identifier from the context.
// Returns empty string if not present.
//
// Asynchronous handlers receive a context carrying the id of the publish that
// invoked them, so log entries from different handlers of the same publish
// can be correlated.
func PublishID(ctx context.Context) string {
	if id, ok := ctx.Value(publishIDCtx{}).(string); ok {
		return id
	}
	return ""
}

type publishTimeCtx struct{}

// WithPublishTime attaches the publish start time to the context.
func WithPublishTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, publishTimeCtx{}, t)
}

// PublishTime extracts the publish start time from the context.
// Returns zero time if not present.
func PublishTime(ctx context.Context) time.Time {
	if t, ok := ctx.Value(publishTimeCtx{}).(time.Time); ok {
		return t
	}
	return time.Time{}
}
