package observability

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecordErrorMarksSpanCountsAndLogs(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	counter, err := mp.Meter("test").Int64Counter("test.errors.total")
	if err != nil {
		t.Fatalf("creating counter: %v", err)
	}

	core, logs := observer.New(zap.InfoLevel)
	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx, span := tp.Tracer("test").Start(ctx, "calculator.evaluate")

	RecordError(ctx, span, zap.New(core), counter, "evaluate", "evaluation failed", errors.New("division by zero"))
	span.End()

	ended := spans.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 ended span, got %d", len(ended))
	}
	if got := ended[0].Status(); got.Code != codes.Error || got.Description != "evaluation failed" {
		t.Fatalf("expected error status, got %+v", got)
	}
	if events := ended[0].Events(); len(events) != 1 || events[0].Name != "exception" {
		t.Fatalf("expected one exception event, got %+v", events)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collecting metrics: %v", err)
	}
	sum, ok := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Sum[int64])
	if !ok || len(sum.DataPoints) != 1 || sum.DataPoints[0].Value != 1 {
		t.Fatalf("expected error counter at 1, got %#v", rm.ScopeMetrics[0].Metrics[0].Data)
	}
	if op, _ := sum.DataPoints[0].Attributes.Value("operation"); op.AsString() != "evaluate" {
		t.Fatalf("expected operation attribute evaluate, got %q", op.AsString())
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != "req-1" || fields["operation"] != "evaluate" {
		t.Fatalf("unexpected log fields %#v", fields)
	}
}
