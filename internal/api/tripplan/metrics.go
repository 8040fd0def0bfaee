package tripplan

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	metricsOnce sync.Once

	tripRequestsTotal      metric.Int64Counter
	mockFallbacksTotal     metric.Int64Counter
	microFillAttemptsTotal metric.Int64Counter
	planDurationSeconds    metric.Float64Histogram
)

func initMetrics() {
	metricsOnce.Do(func() {
		meter := otel.Meter("wanderly.tripplan")
		var err error

		tripRequestsTotal, err = meter.Int64Counter(
			"trip_plan_requests_total",
			metric.WithDescription("Total number of trip plan requests"),
		)
		if err != nil {
			slog.Warn("Failed to create trip_plan_requests_total counter", slog.Any("error", err))
		}

		mockFallbacksTotal, err = meter.Int64Counter(
			"trip_plan_mock_fallbacks_total",
			metric.WithDescription("Trip plans answered by the deterministic mock"),
		)
		if err != nil {
			slog.Warn("Failed to create trip_plan_mock_fallbacks_total counter", slog.Any("error", err))
		}

		microFillAttemptsTotal, err = meter.Int64Counter(
			"trip_plan_microfill_attempts_total",
			metric.WithDescription("Micro-fill repair attempts, labelled by block section"),
		)
		if err != nil {
			slog.Warn("Failed to create trip_plan_microfill_attempts_total counter", slog.Any("error", err))
		}

		planDurationSeconds, err = meter.Float64Histogram(
			"trip_plan_duration_seconds",
			metric.WithDescription("End-to-end trip plan generation latency"),
			metric.WithUnit("s"),
		)
		if err != nil {
			slog.Warn("Failed to create trip_plan_duration_seconds histogram", slog.Any("error", err))
		}
	})
}

func recordTripRequest(ctx context.Context) {
	initMetrics()
	if tripRequestsTotal != nil {
		tripRequestsTotal.Add(ctx, 1)
	}
}

func recordMockFallback(ctx context.Context, stage string) {
	initMetrics()
	if mockFallbacksTotal != nil {
		mockFallbacksTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
	}
}

func recordMicroFillAttempt(ctx context.Context, section string) {
	initMetrics()
	if microFillAttemptsTotal != nil {
		microFillAttemptsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("section", section)))
	}
}

func recordPlanDuration(ctx context.Context, seconds float64, mock bool) {
	initMetrics()
	if planDurationSeconds != nil {
		planDurationSeconds.Record(ctx, seconds, metric.WithAttributes(attribute.Bool("mock", mock)))
	}
}
