package util

import (
	"context"

	"github.com/google/uuid"
)

// WithRequestID returns a context with a request id.
// It will generate new request id if the provided id is empty.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = NewRequestID()
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// EnsureRequestID returns ctx unchanged when it already carries a request id,
// otherwise a child context with a fresh one.
func EnsureRequestID(ctx context.Context) context.Context {
	if GetRequestID(ctx) != "" {
		return ctx
	}
	return WithRequestID(ctx, "")
}

// NewRequestID returns a uuid-v4 string to use as request id
func NewRequestID() string {
	return uuid.NewString()
}

// GetRequestID returns request id from ctx if available
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
