package pkg

import "context"

type traceIDKey struct{}

// ContextWithTraceID returns a copy of ctx carrying traceID, so outbound calls can propagate it.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceIDFromContext returns the trace id stored by ContextWithTraceID, or "".
func TraceIDFromContext(ctx context.Context) string {
	traceID, _ := ctx.Value(traceIDKey{}).(string)
	return traceID
}
