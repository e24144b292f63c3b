package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"cafeteria/internal/config"
)

type ShutdownFunc func(ctx context.Context) error

// Setup installs a global tracer provider writing spans to stdout. When
// telemetry is disabled the global no-op provider stays in place.
func Setup(cfg config.TelemetryConfig, logger *zap.Logger) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := stdouttrace.New()
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)

	logger.Info("tracing enabled", zap.String("service", cfg.ServiceName))

	return tp.Shutdown, nil
}
