// Package observability exposes Prometheus metrics for the HTTP API and
// the account flows behind it.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Account event labels
const (
	EventRegistered   = "registered"
	EventLogin        = "login"
	EventLoginFailed  = "login_failed"
	EventLogout       = "logout"
	EventPromoted     = "promoted"
	EventPromoteClash = "promote_rejected"
)

// Metrics holds the application's collectors.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	AccountEvents   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hero_http_requests_total",
				Help: "Total number of HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hero_http_request_duration_seconds",
				Help:    "HTTP request latency by method and route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		AccountEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hero_account_events_total",
				Help: "Total number of account events by kind",
			},
			[]string{"event"},
		),
	}

	reg.MustRegister(m.RequestsTotal)
	reg.MustRegister(m.RequestDuration)
	reg.MustRegister(m.AccountEvents)

	return m
}

// RecordAccountEvent increments the account event counter. Safe on a nil
// receiver so handlers can run without metrics.
func (m *Metrics) RecordAccountEvent(event string) {
	if m == nil {
		return
	}
	m.AccountEvents.WithLabelValues(event).Inc()
}

// NewRegistry returns a private registry carrying the Go and process
// collectors, keeping the global registry clean.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return registry
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
