// Package observability provides Prometheus metrics and OpenTelemetry
// tracing for the snipbox server.
//
// Metrics are registered on a caller-supplied registry so that several
// servers can coexist in one process (tests build many).
package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/abhisek/snipbox/internal/complexity"
)

const metricsNamespace = "snipbox"

// Metrics holds all Prometheus collectors.
type Metrics struct {
	// RequestsTotal counts HTTP requests.
	// Labels: method, route, status
	RequestsTotal *prometheus.CounterVec

	// RequestDuration measures HTTP handling latency.
	// Labels: method, route
	RequestDuration *prometheus.HistogramVec

	// EstimatesTotal counts complexity estimates.
	// Labels: rule, time
	EstimatesTotal *prometheus.CounterVec

	// SnippetsCreated counts stored snippets.
	// Labels: language
	SnippetsCreated *prometheus.CounterVec

	// LiveSessions tracks open live-analysis websockets.
	LiveSessions prometheus.Gauge
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),

		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		EstimatesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "complexity",
			Name:      "estimates_total",
			Help:      "Complexity estimates by deciding rule and time label.",
		}, []string{"rule", "time"}),

		SnippetsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "snippets",
			Name:      "created_total",
			Help:      "Snippets created by language.",
		}, []string{"language"}),

		LiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "analyze",
			Name:      "live_sessions",
			Help:      "Open live-analysis websocket sessions.",
		}),
	}
}

// ObserveEstimate records one estimator result.
func (m *Metrics) ObserveEstimate(r complexity.Result) {
	m.EstimatesTotal.WithLabelValues(r.Rule, string(r.Time)).Inc()
}

// SnippetCreated records a stored snippet.
func (m *Metrics) SnippetCreated(language string) {
	m.SnippetsCreated.WithLabelValues(language).Inc()
}

// Middleware records request count and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
