package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var globalSpans atomic.Uint64

// NextSpanID returns a unique span ID.
func NextSpanID() uint64 {
	return globalSpans.Add(1)
}

// Span tracks one logical operation from Begin to End.
type Span struct {
	tracer   Tracer
	id       uint64
	parentID uint64
	worker   int
	scope    Scope
	name     string
	started  time.Time
	extra    map[string]string
}

// Begin starts a new span and emits a SpanBegin event.
// parent is the parent span ID (0 if root).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	return begin(t, scope, name, SpanContext{SpanID: parent, Worker: -1})
}

func begin(t Tracer, scope Scope, name string, parent SpanContext) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{tracer: Nop, worker: parent.Worker, parentID: parent.SpanID}
	}

	now := time.Now()
	s := &Span{
		tracer:   t,
		id:       NextSpanID(),
		parentID: parent.SpanID,
		worker:   parent.Worker,
		scope:    scope,
		name:     name,
		started:  now,
	}
	t.Emit(&Event{
		Time:     now,
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   s.id,
		ParentID: s.parentID,
		Worker:   s.worker,
		Name:     name,
	})
	return s
}

// Start begins a span under the tracer and parent span carried by ctx and
// returns a context in which the new span is the parent.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	parent := CurrentSpan(ctx)
	s := begin(FromContext(ctx), scope, name, parent)
	if s.id == 0 {
		return ctx, s
	}
	return WithSpanContext(ctx, SpanContext{SpanID: s.id, Worker: parent.Worker}), s
}

// End emits a SpanEnd event and returns the duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil || !s.tracer.Enabled() {
		return 0
	}
	dur := time.Since(s.started)
	s.tracer.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parentID,
		Worker:   s.worker,
		Name:     s.name,
		Detail:   detail,
		Extra:    s.extra,
	})
	return dur
}

// WithExtra adds a key-value pair to the end event.
// Returns the span for method chaining.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.tracer == nil || !s.tracer.Enabled() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// ID returns the span ID.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event under the span carried by ctx.
func Point(ctx context.Context, scope Scope, name, detail string) {
	emitAt(ctx, KindPoint, scope, name, detail, nil)
}

// Failure records a property violation. It is emitted at every level except
// LevelOff, whatever its scope.
func Failure(ctx context.Context, name, detail string, extra map[string]string) {
	emitAt(ctx, KindFailure, ScopeCase, name, detail, extra)
}

func emitAt(ctx context.Context, kind Kind, scope Scope, name, detail string, extra map[string]string) {
	t := FromContext(ctx)
	if !t.Enabled() {
		return
	}
	sc := CurrentSpan(ctx)
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     kind,
		Scope:    scope,
		ParentID: sc.SpanID,
		Worker:   sc.Worker,
		Name:     name,
		Detail:   detail,
		Extra:    extra,
	})
}
