package tracer_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"signup/internal/lookup/tracer"
)

func TestNoopTracer(t *testing.T) {
	ctx := context.Background()
	newCtx, span := tracer.NewNoop().Start(ctx, tracer.SpanName("city"),
		tracer.String(tracer.AttrEndpoint, "city"),
	)

	assert.Equal(t, ctx, newCtx)
	require.NotNil(t, span)
	span.SetAttributes(tracer.Bool(tracer.AttrCacheHit, true))
	span.AddEvent(tracer.EventCircuitOpened)
	span.End(errors.New("lookup failed"))
}

func TestOTelTracerWithInjectedProvider(t *testing.T) {
	tr := tracer.NewOTel(tracer.WithOTelTracer(noop.NewTracerProvider().Tracer("test")))

	_, span := tr.Start(context.Background(), tracer.SpanName("states"),
		tracer.Int64(tracer.AttrStatusCode, 200),
		tracer.Duration("elapsed_ms", 15*time.Millisecond),
	)
	require.NotNil(t, span)
	assert.NotPanics(t, func() {
		span.SetAttributes(tracer.String(tracer.AttrKeyHash, "abc"), tracer.Attribute{Key: "ignored", Value: struct{}{}})
		span.End(nil)
	})
}

func TestOTelSpanEndOutcomes(t *testing.T) {
	tr := tracer.NewOTel(tracer.WithOTelTracer(noop.NewTracerProvider().Tracer("test")))

	for name, err := range map[string]error{
		"success":    nil,
		"superseded": fmt.Errorf("city lookup: %w", context.Canceled),
		"failure":    errors.New("provider down"),
	} {
		t.Run(name, func(t *testing.T) {
			_, span := tr.Start(context.Background(), tracer.SpanName("city"))
			assert.NotPanics(t, func() { span.End(err) })
		})
	}
}

func TestSpanName(t *testing.T) {
	assert.Equal(t, "lookup.counties", tracer.SpanName("counties"))
}
