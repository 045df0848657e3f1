// Package metrics provides Prometheus metrics for the analysis service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dise_jobs_submitted_total",
			Help: "Total number of analysis jobs submitted",
		},
		[]string{"source"},
	)
	JobsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dise_jobs_completed_total",
			Help: "Total number of analysis jobs completed successfully",
		},
	)
	JobsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dise_jobs_failed_total",
			Help: "Total number of analysis jobs that failed",
		},
	)
	JobsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dise_jobs_active",
			Help: "Number of analysis jobs currently running",
		},
	)
	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dise_job_duration_seconds",
			Help:    "Analysis job duration in seconds",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"status"},
	)
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dise_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dise_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

func RecordJobSubmitted(source string) {
	JobsSubmitted.WithLabelValues(source).Inc()
}

func RecordJobCompleted(duration time.Duration) {
	JobsCompleted.Inc()
	JobDuration.WithLabelValues("completed").Observe(duration.Seconds())
}

func RecordJobFailed(duration time.Duration) {
	JobsFailed.Inc()
	JobDuration.WithLabelValues("failed").Observe(duration.Seconds())
}

func RecordHTTPRequest(method, endpoint, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
