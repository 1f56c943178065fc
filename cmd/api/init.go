package main

import (
	"context"

	"voice-calculator/internal/calculator"
	"voice-calculator/internal/config"
	"voice-calculator/internal/observability"
)

// initTelemetry starts the exporters enabled in cfg and binds the calculator
// instruments to the resulting meter provider, the no-op one when metrics
// export is off.
func initTelemetry(ctx context.Context, cfg config.Telemetry) (observability.ShutdownFunc, error) {
	shutdown, err := observability.StartTelemetry(ctx, observability.Telemetry{
		ServiceName: cfg.ServiceName,
		Traces:      cfg.Traces,
		Metrics:     cfg.Metrics,
		Logs:        cfg.Logs,
	})
	if err != nil {
		return shutdown, err
	}
	if err := calculator.InitMetrics(); err != nil {
		return shutdown, err
	}
	return shutdown, nil
}
