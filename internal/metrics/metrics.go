package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medilearn_http_requests_total",
			Help: "HTTP requests by route pattern, method and status code",
		},
		[]string{"route", "method", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "medilearn_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// ProviderRequests counts outbound content searches; outcome is ok, error or rejected.
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medilearn_content_provider_requests_total",
			Help: "Outbound content provider requests by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	ProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "medilearn_content_provider_duration_seconds",
			Help:    "Outbound content provider latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	// BreakerState is 0 closed, 1 half-open, 2 open.
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "medilearn_content_provider_breaker_state",
			Help: "Circuit breaker state per content provider",
		},
		[]string{"provider"},
	)

	// FallbackServed counts responses that substituted static data; kind is stats, recommendations or flashcards.
	FallbackServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medilearn_fallback_served_total",
			Help: "Responses that contained static fallback data",
		},
		[]string{"kind"},
	)

	ActivityRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medilearn_activity_recorded_total",
			Help: "Activity records by kind and delivery path (queued or direct)",
		},
		[]string{"kind", "path"},
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medilearn_login_attempts_total",
			Help: "Login attempts by result",
		},
		[]string{"result"},
	)
)

// ObserveProvider records one outbound content request.
func ObserveProvider(provider, outcome string, started time.Time) {
	ProviderRequests.WithLabelValues(provider, outcome).Inc()
	ProviderDuration.WithLabelValues(provider).Observe(time.Since(started).Seconds())
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request count and latency keyed by the matched chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		HTTPDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
