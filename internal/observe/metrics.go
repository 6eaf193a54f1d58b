// Package observe provides application-wide observability primitives for
// fuzzrex: OpenTelemetry metrics, tracing helpers, structured logging, and
// HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all fuzzrex metrics.
const meterName = "github.com/MrWong99/fuzzrex"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms ---

	// PatternBuildDuration tracks pattern generation plus compilation latency.
	PatternBuildDuration metric.Float64Histogram

	// ScanDuration tracks end-to-end scan latency per scan call.
	ScanDuration metric.Float64Histogram

	// HTTPRequestDuration tracks HTTP request processing time. Use with
	// attributes: attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram

	// --- Counters ---

	// PatternBuilds counts pattern constructions. Use with attribute:
	//   attribute.String("status", "ok"|"invalid")
	PatternBuilds metric.Int64Counter

	// CompileErrors counts patterns rejected by the regexp engine. Any
	// increment signals a generator defect.
	CompileErrors metric.Int64Counter

	// ScanLines counts lines examined by the scanner.
	ScanLines metric.Int64Counter

	// ScanMatches counts lines accepted by the scanner.
	ScanMatches metric.Int64Counter

	// CacheHits and CacheMisses count lookups in the server's compiled
	// matcher cache.
	CacheHits   metric.Int64Counter
	CacheMisses metric.Int64Counter

	// --- Gauges ---

	// ActiveScans tracks the number of scans currently in flight.
	ActiveScans metric.Int64UpDownCounter
}

// buildBuckets defines histogram bucket boundaries (in seconds) for pattern
// generation, which is microsecond-scale work.
var buildBuckets = []float64{
	0.000005, 0.00001, 0.000025, 0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005,
}

// ioBuckets defines histogram bucket boundaries (in seconds) for scan and
// HTTP latencies.
var ioBuckets = []float64{
	0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.PatternBuildDuration, err = m.Float64Histogram("fuzzrex.pattern.build.duration",
		metric.WithDescription("Latency of pattern generation and compilation."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(buildBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ScanDuration, err = m.Float64Histogram("fuzzrex.scan.duration",
		metric.WithDescription("End-to-end latency of a scan call."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(ioBuckets...),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("fuzzrex.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(ioBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.PatternBuilds, err = m.Int64Counter("fuzzrex.pattern.builds",
		metric.WithDescription("Total pattern constructions by status."),
	); err != nil {
		return nil, err
	}
	if met.CompileErrors, err = m.Int64Counter("fuzzrex.pattern.compile_errors",
		metric.WithDescription("Total generated patterns rejected by the regexp engine."),
	); err != nil {
		return nil, err
	}
	if met.ScanLines, err = m.Int64Counter("fuzzrex.scan.lines",
		metric.WithDescription("Total lines examined by the scanner."),
	); err != nil {
		return nil, err
	}
	if met.ScanMatches, err = m.Int64Counter("fuzzrex.scan.matches",
		metric.WithDescription("Total lines accepted by the scanner."),
	); err != nil {
		return nil, err
	}
	if met.CacheHits, err = m.Int64Counter("fuzzrex.cache.hits",
		metric.WithDescription("Compiled matcher cache hits."),
	); err != nil {
		return nil, err
	}
	if met.CacheMisses, err = m.Int64Counter("fuzzrex.cache.misses",
		metric.WithDescription("Compiled matcher cache misses."),
	); err != nil {
		return nil, err
	}

	// Gauges (UpDownCounters).
	if met.ActiveScans, err = m.Int64UpDownCounter("fuzzrex.active_scans",
		metric.WithDescription("Number of scans currently in flight."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordPatternBuild records a pattern construction with the standard status
// attribute ("ok" or "invalid").
func (m *Metrics) RecordPatternBuild(ctx context.Context, status string) {
	m.PatternBuilds.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", status)),
	)
}

// RecordCompileError records a regexp engine rejection.
func (m *Metrics) RecordCompileError(ctx context.Context) {
	m.CompileErrors.Add(ctx, 1)
}

// RecordCacheLookup records a compiled matcher cache lookup outcome.
func (m *Metrics) RecordCacheLookup(ctx context.Context, hit bool) {
	if hit {
		m.CacheHits.Add(ctx, 1)
		return
	}
	m.CacheMisses.Add(ctx, 1)
}
