package util

import (
	"context"
)

type key string

const (
	requestIDKey = key("x-request-id")
	operationKey = key("operation")
)

// WithOperation returns a context tagged with the name of the pipeline operation
// being served (e.g. "fetch-historical").
func WithOperation(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, operationKey, name)
}

// GetOperation returns the operation name from context
// will return empty string if not present
func GetOperation(ctx context.Context) string {
	op, _ := ctx.Value(operationKey).(string)
	return op
}

// Fields returns the key-value pairs this package has set into ctx.
func Fields(ctx context.Context) map[string]interface{} {
	mapFields := make(map[string]interface{})
	mapFields["request_id"] = GetRequestID(ctx)
	if op := GetOperation(ctx); op != "" {
		mapFields["operation"] = op
	}
	return mapFields
}
