package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the tracker worker.

var (
	// NHL API call metrics
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gr8tracker_api_calls_total",
			Help: "Total number of NHL API calls",
		},
		[]string{"endpoint", "status"},
	)

	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gr8tracker_api_call_duration_seconds",
			Help:    "Duration of NHL API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gr8tracker_cache_hits_total",
			Help: "Total number of stats cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gr8tracker_cache_misses_total",
			Help: "Total number of stats cache misses",
		},
	)

	// Delivery metrics
	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gr8tracker_emails_sent_total",
			Help: "Total number of stats emails sent",
		},
		[]string{"status"},
	)

	WebsitePublishesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gr8tracker_website_publishes_total",
			Help: "Total number of website publish runs",
		},
		[]string{"status"},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gr8tracker_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// Refresh metrics
	RefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gr8tracker_refreshes_total",
			Help: "Total number of stats refresh cycles",
		},
		[]string{"status"},
	)

	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gr8tracker_refresh_duration_seconds",
			Help:    "Duration of stats refresh cycles in seconds",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	LastSuccessfulRefresh = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gr8tracker_last_successful_refresh_timestamp",
			Help: "Timestamp of the last successful stats refresh",
		},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gr8tracker_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)
)

// RecordAPICall records an NHL API call metric.
func RecordAPICall(endpoint, status string, duration float64) {
	APICallsTotal.WithLabelValues(endpoint, status).Inc()
	APICallDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordCacheHit records a cache hit.
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss.
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordEmail records an email delivery attempt.
func RecordEmail(status string) {
	EmailsSentTotal.WithLabelValues(status).Inc()
}

// RecordWebsitePublish records a website publish run.
func RecordWebsitePublish(status string) {
	WebsitePublishesTotal.WithLabelValues(status).Inc()
}

// RecordError records an error.
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// RecordRefresh records a stats refresh cycle.
func RecordRefresh(status string, duration float64) {
	RefreshesTotal.WithLabelValues(status).Inc()
	RefreshDuration.Observe(duration)

	if status == "success" {
		LastSuccessfulRefresh.SetToCurrentTime()
	}
}
