// Package tracer provides a small tracing abstraction for lookup calls.
//
// Implementations:
//   - NoopTracer: for tests and when tracing is disabled
//   - OTelTracer: OpenTelemetry adapter
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span. A non-nil err marks it failed. Call exactly once.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// SpanName returns the span name for a lookup endpoint.
func SpanName(endpoint string) string {
	return "lookup." + endpoint
}

// Attribute keys.
const (
	AttrEndpoint   = "lookup.endpoint"
	AttrKeyHash    = "lookup.key_hash"
	AttrStatusCode = "http.status_code"
	AttrCategory   = "lookup.error_category"
	AttrCacheHit   = "cache.hit"
	AttrShared     = "singleflight.shared"
)

// Event names.
const (
	EventCircuitOpened = "circuit.opened"
	EventCircuitClosed = "circuit.closed"
	EventSuperseded    = "lookup.superseded"
)
