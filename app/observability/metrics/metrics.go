package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	GenerationRequestsTotal   metric.Int64Counter
	GenerationDurationSeconds metric.Float64Histogram
	BundlesReturnedTotal      metric.Int64Counter
	CandidateRejectionsTotal  metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// Get returns the global AppMetrics instance, creating the instruments on
// first use from the globally configured MeterProvider. Before a provider is
// installed the otel default is a no-op.
func Get() *AppMetrics {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("voyaiger-server")
		var err error
		m := &AppMetrics{}

		m.GenerationRequestsTotal, err = meter.Int64Counter(
			"itinerary_generation_requests_total",
			metric.WithDescription("Total number of itinerary generation requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_generation_requests_total: %v", err)
		}

		m.GenerationDurationSeconds, err = meter.Float64Histogram(
			"itinerary_generation_duration_seconds",
			metric.WithDescription("Duration of itinerary generation requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_generation_duration_seconds: %v", err)
		}

		m.BundlesReturnedTotal, err = meter.Int64Counter(
			"itinerary_bundles_returned_total",
			metric.WithDescription("Total number of itinerary bundles returned to clients"),
			metric.WithUnit("{bundle}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_bundles_returned_total: %v", err)
		}

		m.CandidateRejectionsTotal, err = meter.Int64Counter(
			"itinerary_candidate_rejections_total",
			metric.WithDescription("Total number of candidates rejected during validation"),
			metric.WithUnit("{candidate}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_candidate_rejections_total: %v", err)
		}

		appMetrics = m
	})
	return appMetrics
}
