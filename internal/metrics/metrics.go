// Package metrics exposes Prometheus instrumentation for the dashboard.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SmitUplenchwar2687/schedboard/internal/scheduler"
)

const namespace = "schedboard"

// Metrics holds the dashboard's collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	pushMessages   *prometheus.CounterVec
	fetches        *prometheus.CounterVec
	fetchDuration  prometheus.Histogram
	focusChanges   prometheus.Counter
	browserClients prometheus.Gauge
}

// New creates the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		pushMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "push_messages_total",
				Help:      "Inbound push messages by outcome",
			},
			[]string{"outcome"}, // applied, ignored, dropped, after_unmount
		),
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetches_total",
				Help:      "Initial data fetches by status",
			},
			[]string{"status"}, // success, error
		),
		fetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Duration of the three-way initial fetch in seconds",
				Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
		),
		focusChanges: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "focus_changes_total",
				Help:      "Number of times the focused panel changed",
			},
		),
		browserClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "browser_clients",
				Help:      "Browser websocket clients currently connected",
			},
		),
	}

	m.registry.MustRegister(
		m.pushMessages,
		m.fetches,
		m.fetchDuration,
		m.focusChanges,
		m.browserClients,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// PushMessage counts one handled push message.
func (m *Metrics) PushMessage(outcome scheduler.Outcome) {
	if m == nil {
		return
	}
	m.pushMessages.WithLabelValues(string(outcome)).Inc()
}

// Fetch records the result of the initial fetch.
func (m *Metrics) Fetch(err error, took time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.fetches.WithLabelValues(status).Inc()
	m.fetchDuration.Observe(took.Seconds())
}

// FocusChanged counts a focus change.
func (m *Metrics) FocusChanged() {
	if m == nil {
		return
	}
	m.focusChanges.Inc()
}

// BrowserConnected adjusts the connected browser gauge by delta.
func (m *Metrics) BrowserConnected(delta int) {
	if m == nil {
		return
	}
	m.browserClients.Add(float64(delta))
}
