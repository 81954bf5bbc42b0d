package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pixsteg",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pixsteg",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	stegoOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pixsteg",
			Subsystem: "stego",
			Name:      "operations_total",
			Help:      "Insert and extract operations by result.",
		},
		[]string{"operation", "result"},
	)
	stegoPayloadBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pixsteg",
			Subsystem: "stego",
			Name:      "payload_bytes",
			Help:      "Size of hidden or recovered files in bytes.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 10),
		},
		[]string{"operation"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, stegoOperations, stegoPayloadBytes)
	})
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

// RecordStegoOperation counts one insert or extract. result is a short
// failure kind such as "capacity" or "ok".
func RecordStegoOperation(operation, result string, payloadBytes int) {
	RegisterMetrics()
	stegoOperations.WithLabelValues(operation, result).Inc()
	if result == "ok" {
		stegoPayloadBytes.WithLabelValues(operation).Observe(float64(payloadBytes))
	}
}
