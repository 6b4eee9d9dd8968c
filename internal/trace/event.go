package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd
	// KindPoint represents an instant event.
	KindPoint
	// KindFailure records a property violation. It is emitted at every level
	// except LevelOff.
	KindFailure
	KindHeartbeat // periodic liveness signal during long checks
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindFailure:
		return "failure"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity of the event.
// Lower numeric values are coarser.
type Scope uint8

const (
	// ScopeCommand is one CLI invocation (calc, check, bench).
	ScopeCommand Scope = iota + 1
	// ScopeSuite is one pass over the property suite for a word width.
	ScopeSuite
	// ScopeProperty is one property such as "div-round" or "normalization".
	ScopeProperty
	ScopeCase // a single generated operand set
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeCommand:
		return "command"
	case ScopeSuite:
		return "suite"
	case ScopeProperty:
		return "property"
	case ScopeCase:
		return "case"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time         // wall-clock timestamp
	Seq      uint64            // assigned by the tracer on emit
	Kind     Kind              // event kind
	Scope    Scope             // granularity level
	SpanID   uint64            // span identifier, 0 for points
	ParentID uint64            // parent span (0 if root)
	Worker   int               // check worker index, -1 outside the pool
	Name     string            // e.g. "check", "suite:uint32", "div-round"
	Detail   string            // optional detail message
	Extra    map[string]string // extensible key-value pairs
}

// passes reports whether ev clears the level filter.
func passes(l Level, ev *Event) bool {
	if l == LevelOff {
		return false
	}
	if ev.Kind == KindFailure || ev.Kind == KindHeartbeat {
		return true
	}
	return l.ShouldEmit(ev.Scope)
}
