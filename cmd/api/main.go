package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"voice-calculator/internal/calculator"
	"voice-calculator/internal/config"
	"voice-calculator/internal/observability"
	"voice-calculator/internal/server"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to the YAML configuration file (default $CALC_CONFIG)")
	envFile := flag.String("env-file", "", "load environment variables from `file` instead of .env")
	flag.Parse()

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	if err := loadDotEnv(envFiles...); err != nil {
		return err
	}
	if *configPath == "" {
		*configPath = os.Getenv("CALC_CONFIG")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// Logger
	if err := observability.InitLogger(cfg.Log.Level, cfg.Log.Development); err != nil {
		return err
	}
	defer observability.SyncLogger()
	logger := observability.Logger

	ctx := context.Background()

	// Tracing, metrics and log export
	telemetryShutdown, err := initTelemetry(ctx, cfg.Telemetry)
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()
	if err != nil {
		return err
	}
	// Log export replaces the logger with a tee.
	logger = observability.Logger

	// Calculator
	settings, err := calculator.SettingsFromConfig(cfg.Calculator)
	if err != nil {
		return err
	}
	calc := calculator.NewHandler(settings)

	if *configPath != "" {
		watcher, err := config.NewWatcher(*configPath, cfg, logger)
		if err != nil {
			return err
		}
		defer watcher.Close()
		watcher.OnChange(func(c *config.Config) {
			s, err := calculator.SettingsFromConfig(c.Calculator)
			if err != nil {
				logger.Error("calculator settings not applied", zap.Error(err))
				return
			}
			calc.SetSettings(s)
		})
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.NewRouter(calc),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started",
			zap.String("addr", cfg.Server.Addr),
			zap.String("service", observability.ServiceName()),
			zap.String("angle_unit", settings.AngleUnit.String()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	return waitForShutdown(srv, errCh, cfg.Server, logger)
}

func waitForShutdown(srv *http.Server, errCh <-chan error, cfg config.Server, logger *zap.Logger) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
