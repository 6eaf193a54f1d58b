package observe

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// requestInfo collects facts a handler learns while serving: the registered
// route pattern it was matched against and the preset that shaped the
// generated pattern. [Middleware] plants a pointer to it in the request
// context and reads it back once the handler returns, so spans and metrics
// carry bounded route labels instead of raw URL paths.
type requestInfo struct {
	mu     sync.Mutex
	route  string
	preset string
}

type requestInfoKey struct{}

func infoFrom(ctx context.Context) *requestInfo {
	info, _ := ctx.Value(requestInfoKey{}).(*requestInfo)
	return info
}

// SetRoute records the matched route pattern, e.g. "POST /v1/pattern", for
// the current request. Handlers pass [http.Request.Pattern]. A no-op when the
// request did not come through [Middleware].
func SetRoute(ctx context.Context, pattern string) {
	info := infoFrom(ctx)
	if info == nil || pattern == "" {
		return
	}
	info.mu.Lock()
	info.route = pattern
	info.mu.Unlock()
}

// SetPreset records the name of the option preset applied while serving the
// current request, so request metrics can be split per preset.
func SetPreset(ctx context.Context, name string) {
	info := infoFrom(ctx)
	if info == nil || name == "" {
		return
	}
	info.mu.Lock()
	info.preset = name
	info.mu.Unlock()
}

// statusRecorder wraps [http.ResponseWriter] to capture the status code
// written by the downstream handler.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware returns an [http.Handler] wrapper that traces and measures every
// request. Incoming W3C Trace Context headers are honoured, the trace ID is
// echoed back as X-Correlation-ID, and the request duration lands in
// [Metrics.HTTPRequestDuration] labelled with the route pattern and, when the
// handler reported one via [SetPreset], the preset name.
func Middleware(m *Metrics) func(http.Handler) http.Handler {
	prop := propagation.TraceContext{}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx := prop.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			info := &requestInfo{}
			ctx = context.WithValue(ctx, requestInfoKey{}, info)

			// The span starts under the raw path and is renamed to the
			// registered route once the handler has reported it.
			ctx, span := StartSpan(ctx, "HTTP "+r.Method+" "+r.URL.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.URLPath(r.URL.Path),
				),
			)
			defer span.End()

			cid := CorrelationID(ctx)
			if cid != "" {
				w.Header().Set("X-Correlation-ID", cid)
			}
			prop.Inject(ctx, propagation.HeaderCarrier(w.Header()))

			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(ctx))

			info.mu.Lock()
			route, preset := info.route, info.preset
			info.mu.Unlock()

			if route != "" {
				span.SetName("HTTP " + route)
				span.SetAttributes(semconv.HTTPRoute(route))
			} else {
				// Unmatched request; the raw path is all we have.
				route = r.URL.Path
			}
			span.SetAttributes(semconv.HTTPResponseStatusCode(rec.statusCode))

			attrs := []attribute.KeyValue{
				attribute.String("method", r.Method),
				attribute.String("route", route),
			}
			if preset != "" {
				attrs = append(attrs, attribute.String("preset", preset))
			}

			duration := time.Since(start)
			m.HTTPRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))

			slog.LogAttrs(ctx, slog.LevelInfo, "request completed",
				slog.String("trace_id", cid),
				slog.String("method", r.Method),
				slog.String("route", route),
				slog.Int("status", rec.statusCode),
				slog.Duration("duration", duration),
			)
		})
	}
}
