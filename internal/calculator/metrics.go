package calculator

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"voice-calculator/internal/expression"
)

// OTel instruments, no-ops until InitMetrics runs.
var (
	opsCounter   metric.Int64Counter     = noop.Int64Counter{}
	opsHistogram metric.Float64Histogram = noop.Float64Histogram{}
	errorCounter metric.Int64Counter     = noop.Int64Counter{}
	resultGauge  metric.Float64Gauge     = noop.Float64Gauge{}
)

// resultsTotal is scraped from /metrics regardless of OTLP export.
var resultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "calculator",
	Name:      "results_total",
	Help:      "Calculator requests by operation and outcome.",
}, []string{"operation", "outcome"})

// Outcomes of a calculator request.
const (
	outcomeNumber = "number"
	outcomeEmpty  = "empty"
	outcomeError  = "error"
)

// InitMetrics registers custom OTel metric instruments for the calculator domain.
// Call this once at startup, after observability.StartTelemetry.
func InitMetrics() error {
	meter := otel.Meter("calculator")

	var err error

	opsCounter, err = meter.Int64Counter("calculator.operations.total",
		metric.WithDescription("Total number of calculator requests handled"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return fmt.Errorf("creating ops counter: %w", err)
	}

	opsHistogram, err = meter.Float64Histogram("calculator.operation.duration",
		metric.WithDescription("Time spent translating and evaluating, in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10),
	)
	if err != nil {
		return fmt.Errorf("creating ops histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Total number of failed calculator requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	resultGauge, err = meter.Float64Gauge("calculator.last_result",
		metric.WithDescription("The last numeric result shown"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating result gauge: %w", err)
	}

	return nil
}

func outcomeOf(res expression.Result) string {
	switch {
	case res.IsEmpty():
		return outcomeEmpty
	case res.OK():
		return outcomeNumber
	default:
		return outcomeError
	}
}

// recordOperation counts one handled request and its duration.
func recordOperation(ctx context.Context, opName, outcome string, elapsedMS float64) {
	attrs := metric.WithAttributes(
		attribute.String("operation", opName),
		attribute.String("outcome", outcome),
	)
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsedMS, attrs)
	resultsTotal.WithLabelValues(opName, outcome).Inc()
}

// recordResult reports a numeric result on the gauge. Integers too large for
// a double are skipped.
func recordResult(ctx context.Context, opName string, v expression.Number) {
	f, err := v.Float64()
	if err != nil {
		return
	}
	resultGauge.Record(ctx, f, metric.WithAttributes(attribute.String("operation", opName)))
}
