// Package metrics exposes library workflow counters to Prometheus.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"libraryhub/internal/library"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry        *prometheus.Registry
	outcomes        *prometheus.CounterVec
	inconsistencies *prometheus.CounterVec
	requests        *prometheus.CounterVec
	latency         *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "libraryhub",
			Name:      "loan_operations_total",
			Help:      "Borrow and return calls by outcome.",
		}, []string{"operation", "outcome"}),
		inconsistencies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "libraryhub",
			Name:      "inventory_inconsistencies_total",
			Help:      "Loan writes whose inventory adjustment failed after the loan was committed.",
		}, []string{"operation"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "libraryhub",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "libraryhub",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		m.outcomes,
		m.inconsistencies,
		m.requests,
		m.latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveOutcome implements library.Observer.
func (m *Metrics) ObserveOutcome(op library.Operation, outcome string) {
	m.outcomes.WithLabelValues(string(op), outcome).Inc()
}

func (m *Metrics) ObserveInconsistency(op library.Operation) {
	m.inconsistencies.WithLabelValues(string(op)).Inc()
}

// Middleware records a count and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		timer := prometheus.NewTimer(m.latency.WithLabelValues(c.Request.Method, route))
		c.Next()
		timer.ObserveDuration()
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
