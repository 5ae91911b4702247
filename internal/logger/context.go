package logger

import "context"

type ctxKey struct{}

// WithLogger returns a copy of ctx that carries l. Anything started with the
// returned context logs through l, including the fields l was built With.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger carried by ctx. When ctx carries none the
// fallback is used, and a nil fallback yields a no-op logger.
func FromContext(ctx context.Context, fallback Logger) Logger {
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok && l != nil {
		return l
	}
	if fallback != nil {
		return fallback
	}
	return NewNop()
}
