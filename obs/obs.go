//go:build !nometrics

package obs

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

var (
	setupOnce sync.Once
	shutdown  = func(context.Context) error { return nil }
)

var (
	batchRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rankfuse_runs_total",
		Help: "Total fusion batch runs by strategy.",
	}, []string{"strategy"})
	queriesFused = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rankfuse_queries_fused_total",
		Help: "Total queries fused by strategy.",
	}, []string{"strategy"})
	queryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rankfuse_query_fuse_duration_us",
		Help:    "Histogram of per-query fusion latency in microseconds.",
		Buckets: prometheus.ExponentialBuckets(10, 2, 10),
	})
	queryResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rankfuse_query_results",
		Help:    "Histogram of fused result list size per query.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
	missingQueryWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rankfuse_missing_query_warnings_total",
		Help: "Count of queries absent from at least one input system.",
	})
)

// RecordRun counts a started batch run for the given strategy.
func RecordRun(strategy string) {
	batchRuns.WithLabelValues(strategy).Inc()
}

// ObserveQueryFusion records per-query fusion metrics.
func ObserveQueryFusion(strategy string, results int, duration time.Duration) {
	queriesFused.WithLabelValues(strategy).Inc()
	queryDuration.Observe(float64(duration.Microseconds()))
	queryResults.Observe(float64(results))
}

// IncMissingQuery counts a query that some input system did not cover.
func IncMissingQuery() {
	missingQueryWarnings.Inc()
}

// InitTracer sets up a minimal OpenTelemetry tracer provider.
func InitTracer(serviceName string) (func(context.Context) error, error) {
	var initErr error
	setupOnce.Do(func() {
		res, err := resource.New(context.Background(),
			resource.WithAttributes(
				semconv.ServiceName(serviceName),
			),
		)
		if err != nil {
			initErr = err
			return
		}

		provider := sdktrace.NewTracerProvider(
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.3))),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(provider)
		shutdown = provider.Shutdown
	})
	return shutdown, initErr
}
