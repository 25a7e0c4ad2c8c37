package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tuntun",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tuntun",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tuntun",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	paymentsRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tuntun",
			Subsystem: "payments",
			Name:      "recorded_total",
			Help:      "Total number of payments recorded.",
		},
	)

	pinAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tuntun",
			Subsystem: "pin",
			Name:      "attempts_total",
			Help:      "PIN verifications by outcome.",
		},
		[]string{"outcome"},
	)

	liveSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tuntun",
			Subsystem: "realtime",
			Name:      "subscribers",
			Help:      "Current number of live-update subscribers.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		paymentsRecorded,
		pinAttempts,
		liveSubscribers,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registry for scraping.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records HTTP metrics keyed by the gin route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func RecordPayment() {
	paymentsRecorded.Inc()
}

// RecordPinAttempt counts a verification; outcome is "ok", "mismatch", "locked" or "throttled".
func RecordPinAttempt(outcome string) {
	pinAttempts.WithLabelValues(outcome).Inc()
}

func SubscriberAdded() {
	liveSubscribers.Inc()
}

func SubscriberRemoved() {
	liveSubscribers.Dec()
}
