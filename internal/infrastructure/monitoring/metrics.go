// Package monitoring provides prometheus metrics and opentelemetry tracing
package monitoring

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "homemadefood"

// Outcome labels for mutation counters
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// MetricsCollector handles Prometheus metrics collection. Every collector is
// registered on a private registry so tests can build as many as they like.
type MetricsCollector struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// Business metrics
	kitchenMutationsTotal *prometheus.CounterVec
	loginAttemptsTotal    *prometheus.CounterVec
	toastsTotal           *prometheus.CounterVec
	rateLimitedTotal      prometheus.Counter
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &MetricsCollector{
		logger:   logger.Named("metrics"),
		registry: registry,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		httpResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_size_bytes",
				Help:      "HTTP response size in bytes",
				Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
			},
			[]string{"method", "path"},
		),

		kitchenMutationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "kitchen_mutations_total",
				Help:      "Admin mutations of kitchen records",
			},
			[]string{"entity", "operation", "outcome"},
		),
		loginAttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_attempts_total",
				Help:      "Back office sign-in attempts",
			},
			[]string{"outcome"},
		),
		toastsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "toasts_total",
				Help:      "Toast notifications queued for the admin UI",
			},
			[]string{"type"},
		),
		rateLimitedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limited_requests_total",
				Help:      "Requests rejected by the rate limiter",
			},
		),
	}
}

// ObserveRequest records one served HTTP request. path is the route
// template, never the raw URL, to bound label cardinality.
func (m *MetricsCollector) ObserveRequest(method, path string, status int, duration time.Duration, size int) {
	statusCode := strconv.Itoa(status)
	m.httpRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration.Seconds())
	if size > 0 {
		m.httpResponseSize.WithLabelValues(method, path).Observe(float64(size))
	}
}

// KitchenMutation counts a create, edit or delete of entity
func (m *MetricsCollector) KitchenMutation(entity, operation string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.kitchenMutationsTotal.WithLabelValues(entity, operation, outcome).Inc()
}

// LoginAttempt counts a sign-in
func (m *MetricsCollector) LoginAttempt(err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.loginAttemptsTotal.WithLabelValues(outcome).Inc()
}

// ToastQueued counts a toast by type
func (m *MetricsCollector) ToastQueued(toastType string) {
	m.toastsTotal.WithLabelValues(toastType).Inc()
}

// RateLimited counts a throttled request
func (m *MetricsCollector) RateLimited() {
	m.rateLimitedTotal.Inc()
}

// RegisterDBStats exposes the connection pool statistics of db
func (m *MetricsCollector) RegisterDBStats(db *sql.DB, name string) error {
	return m.registry.Register(collectors.NewDBStatsCollector(db, name))
}

// Registry returns the registry the collectors live on
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus metrics HTTP handler
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
