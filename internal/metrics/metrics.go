// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures request latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// URLsCreatedTotal counts short links created.
	URLsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "urls_created_total",
			Help: "Total number of short links created",
		},
	)

	// RedirectsTotal counts resolved redirects.
	RedirectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redirects_total",
			Help: "Total number of resolved redirects",
		},
	)

	// ClicksRecordedTotal counts click events written to storage.
	ClicksRecordedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clicks_recorded_total",
			Help: "Total number of click events recorded",
		},
	)

	// ShortCodeCollisionsTotal counts generated codes rejected as taken.
	ShortCodeCollisionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "short_code_collisions_total",
			Help: "Total number of short code generation collisions",
		},
	)

	// ClicksDeletedTotal counts click events removed by retention cleanup.
	ClicksDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clicks_deleted_total",
			Help: "Total number of click events deleted by retention cleanup",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRequest records an HTTP request metric.
func RecordRequest(method, path string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordURLCreated records a short link creation.
func RecordURLCreated() {
	URLsCreatedTotal.Inc()
}

// RecordRedirect records a resolved redirect.
func RecordRedirect() {
	RedirectsTotal.Inc()
}

// RecordClick records a persisted click event.
func RecordClick() {
	ClicksRecordedTotal.Inc()
}

// RecordCollision records a short code generation collision.
func RecordCollision() {
	ShortCodeCollisionsTotal.Inc()
}

// RecordClicksDeleted records click events removed by retention cleanup.
func RecordClicksDeleted(n int64) {
	ClicksDeletedTotal.Add(float64(n))
}
