package trace

import "context"

// ctxKey is the key type for storing Tracer in context.
type ctxKey struct{}

// FromContext extracts the Tracer from context.
// If not found, returns Nop tracer.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(ctxKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches a Tracer to context.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, t)
}

// SpanContext holds current span info for propagation.
type SpanContext struct {
	SpanID uint64
	Worker int // -1 outside the check worker pool
}

type spanCtxKey struct{}

// CurrentSpan retrieves the active span context from context.
func CurrentSpan(ctx context.Context) SpanContext {
	if ctx != nil {
		if sc, ok := ctx.Value(spanCtxKey{}).(SpanContext); ok {
			return sc
		}
	}
	return SpanContext{Worker: -1}
}

// WithSpanContext attaches span context.
func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	return context.WithValue(ctx, spanCtxKey{}, sc)
}

// WithWorker marks ctx as running on check worker w.
func WithWorker(ctx context.Context, w int) context.Context {
	sc := CurrentSpan(ctx)
	sc.Worker = w
	return WithSpanContext(ctx, sc)
}
