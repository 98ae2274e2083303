package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the server's Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "bioserver",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bioserver",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bioserver",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	deviceSteps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bioserver",
			Subsystem: "device",
			Name:      "steps_total",
			Help:      "Device creation steps by outcome.",
		},
		[]string{"step", "outcome"},
	)

	deviceStepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bioserver",
			Subsystem: "device",
			Name:      "step_duration_seconds",
			Help:      "Duration of device creation steps.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"step"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		deviceSteps,
		deviceStepDuration,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler exposes the registered metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RequestStarted() {
	httpInFlight.Inc()
}

// RequestFinished records one served request. route is the matched route
// template, so ids do not explode label cardinality.
func RequestFinished(method, route, status string, duration time.Duration) {
	httpInFlight.Dec()
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordDeviceStep records the outcome of one device creation step:
// "created", "skipped" or "failed".
func RecordDeviceStep(step, outcome string, duration time.Duration) {
	if duration <= 0 {
		duration = time.Microsecond
	}
	deviceSteps.WithLabelValues(step, outcome).Inc()
	deviceStepDuration.WithLabelValues(step).Observe(duration.Seconds())
}
