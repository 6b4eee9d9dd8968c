// Package trace records what the precis commands are doing.
//
// Tracing is off by default. Enable it with command-line flags or the
// [trace] table of precis.toml:
//
//	precis check --trace=- --trace-level=detail
//	precis check --trace=check.ndjson --trace-level=debug
//
// # Tracers
//
//   - Nop: used when tracing is disabled
//   - StreamTracer: writes each event as it happens (file or stderr)
//   - RingTracer: keeps the last events in memory and is dumped when a
//     property fails
//   - MultiTracer: combines tracers
//
// # Levels and scopes
//
// Events carry a scope: ScopeCommand for one CLI invocation, ScopeSuite for
// one word width, ScopeProperty for one property and ScopeCase for a single
// generated input. LevelPhase shows suites, LevelDetail adds properties and
// LevelDebug shows every case. Failures are emitted at every level other
// than LevelOff.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopeProperty, "div-round")
//	defer span.End("")
package trace
