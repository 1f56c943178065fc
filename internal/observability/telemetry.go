package observability

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultServiceName = "voice-calculator"

var serviceName atomic.Value

// SetServiceName sets the service.name resource attribute used by every
// exporter started afterwards.
func SetServiceName(name string) {
	serviceName.Store(name)
}

// ServiceName returns the configured service name, falling back to
// OTEL_SERVICE_NAME and then to a default.
func ServiceName() string {
	if name, _ := serviceName.Load().(string); name != "" {
		return name
	}
	if name := os.Getenv("OTEL_SERVICE_NAME"); name != "" {
		return name
	}
	return defaultServiceName
}

// Telemetry selects the OTLP exporters to start. Endpoints come from the
// standard OTEL_EXPORTER_OTLP_* variables.
type Telemetry struct {
	ServiceName string
	Traces      bool
	Metrics     bool
	Logs        bool
}

// ShutdownFunc flushes and stops whatever StartTelemetry started.
type ShutdownFunc func(context.Context) error

// StartTelemetry installs the global tracer and meter providers and tees
// Logger into the OTLP log pipeline, as selected by t. On error the returned
// ShutdownFunc still stops what was started before the failure.
func StartTelemetry(ctx context.Context, t Telemetry) (ShutdownFunc, error) {
	if t.ServiceName != "" {
		SetServiceName(t.ServiceName)
	}

	var stops []ShutdownFunc
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(stops) - 1; i >= 0; i-- {
			errs = append(errs, stops[i](ctx))
		}
		return errors.Join(errs...)
	}

	res, err := resource.New(
		ctx,
		resource.WithFromEnv(),
		resource.WithAttributes(semconv.ServiceName(ServiceName())),
	)
	if err != nil {
		return shutdown, err
	}

	starters := []struct {
		enabled bool
		start   func(context.Context, *resource.Resource) (ShutdownFunc, error)
	}{
		{t.Traces, startTracing},
		{t.Metrics, startMetrics},
		{t.Logs, startLogging},
	}
	for _, s := range starters {
		if !s.enabled {
			continue
		}
		stop, err := s.start(ctx, res)
		if err != nil {
			return shutdown, err
		}
		stops = append(stops, stop)
	}
	return shutdown, nil
}

func startTracing(ctx context.Context, res *resource.Resource) (ShutdownFunc, error) {
	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	return provider.Shutdown, nil
}

func startMetrics(ctx context.Context, res *resource.Resource) (ShutdownFunc, error) {
	exporter, err := otlpmetrichttp.New(ctx)
	if err != nil {
		return nil, err
	}
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
	)
	otel.SetMeterProvider(provider)
	return provider.Shutdown, nil
}

// startLogging keeps stdout logging and adds the OTLP exporter beside it.
func startLogging(ctx context.Context, res *resource.Resource) (ShutdownFunc, error) {
	exporter, err := otlploghttp.New(ctx)
	if err != nil {
		return nil, err
	}
	provider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	core := otelzap.NewCore(ServiceName(), otelzap.WithLoggerProvider(provider))
	Logger = zap.New(zapcore.NewTee(Logger.Core(), core), zap.AddCaller())
	return provider.Shutdown, nil
}

// PrometheusHandler serves the default Prometheus registry.
func PrometheusHandler() http.Handler {
	return promhttp.Handler()
}
