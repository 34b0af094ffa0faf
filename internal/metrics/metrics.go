package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Caption store metrics
	CaptionOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cueline_caption_operations_total",
			Help: "Caption store operations by kind and outcome",
		},
		[]string{"op", "result"},
	)

	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cueline_exports_total",
			Help: "Subtitle documents produced, by format",
		},
		[]string{"format"},
	)

	// API metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cueline_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cueline_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordCaptionOperation counts one store call; err decides the result label.
func RecordCaptionOperation(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	CaptionOperationsTotal.WithLabelValues(op, result).Inc()
}

func RecordExport(format string) {
	ExportsTotal.WithLabelValues(format).Inc()
}

// RecordHTTPRequest records an HTTP request
func RecordHTTPRequest(method, route, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration)
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
