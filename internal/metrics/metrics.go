// Package metrics exposes Prometheus collectors for the HTTP API, model
// calls and diagnostic sessions.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pathmind"

// Metrics owns a registry and every collector registered on it.
type Metrics struct {
	reg *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	llmCalls    *prometheus.CounterVec
	llmDuration *prometheus.HistogramVec

	transitions   *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	sessions      prometheus.Gauge
}

// New creates collectors on a fresh registry, including the Go runtime
// and process collectors.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"method", "endpoint"},
		),
		llmCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llm_requests_total",
				Help:      "Model calls by purpose, model and outcome",
			},
			[]string{"purpose", "model", "outcome"},
		),
		llmDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "llm_request_duration_seconds",
				Help:      "Duration of model calls including retries",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
			},
			[]string{"purpose"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "diagnostic_transitions_total",
				Help:      "Diagnostic session stage transitions",
			},
			[]string{"from", "to"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "diagnostic_stage_duration_seconds",
				Help:      "Time spent in a diagnostic stage before leaving it",
				Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
			},
			[]string{"stage"},
		),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "diagnostic_sessions_active",
			Help:      "Diagnostic sessions held in memory",
		}),
	}

	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.llmCalls,
		m.llmDuration,
		m.transitions,
		m.stageDuration,
		m.sessions,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// Middleware records request count and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// ObserveLLM records one model call.
func (m *Metrics) ObserveLLM(purpose, model string, ok bool, d time.Duration) {
	outcome := "success"
	if !ok {
		outcome = "error"
	}
	m.llmCalls.WithLabelValues(purpose, model, outcome).Inc()
	m.llmDuration.WithLabelValues(purpose).Observe(d.Seconds())
}

// ObserveTransition records a diagnostic stage change and how long the
// session spent in the stage it left.
func (m *Metrics) ObserveTransition(from, to string, inStage time.Duration) {
	m.transitions.WithLabelValues(from, to).Inc()
	m.stageDuration.WithLabelValues(from).Observe(inStage.Seconds())
}

// SetActiveSessions reports the current number of held sessions.
func (m *Metrics) SetActiveSessions(n int) {
	m.sessions.Set(float64(n))
}
