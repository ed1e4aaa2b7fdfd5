// Package tracer installs the global OpenTelemetry providers and exposes
// Prometheus metrics.
package tracer

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const serviceName = "voyaiger-server"

// InitTracingAndMetrics installs the global tracer and meter providers and
// serves Prometheus metrics on metricsPort. The returned shutdown function
// stops the metrics server and flushes both providers.
func InitTracingAndMetrics(metricsPort string, logger *slog.Logger) (func(context.Context) error, error) {
	tp := trace.NewTracerProvider(
		trace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
		)),
	)
	otel.SetTracerProvider(tp)

	exporter, err := prometheus.New()
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(mp)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              metricsPort,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", slog.Any("error", err))
		}
	}()
	logger.Info("Prometheus metrics exposed", slog.String("address", metricsPort))

	shutdown := func(ctx context.Context) error {
		_ = srv.Shutdown(ctx)
		if merr := mp.Shutdown(ctx); merr != nil {
			return merr
		}
		return tp.Shutdown(ctx)
	}
	return shutdown, nil
}
