// Package metrics exposes Prometheus counters for the site and its upstream calls.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	upstream *prometheus.CounterVec
	cards    *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "HTTP requests served, by route pattern and status code.",
		}, []string{"route", "code"}),
		upstream: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_upstream_requests_total",
			Help: "Requests sent to upstream APIs, by upstream, status code and method.",
		}, []string{"upstream", "code", "method"}),
		cards: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portfolio_card_aggregation_seconds",
			Help:    "Time spent aggregating dashboard card data.",
			Buckets: prometheus.DefBuckets,
		}, []string{"card", "result"}),
	}
	m.registry.MustRegister(
		m.requests,
		m.upstream,
		m.cards,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest counts one served request.
func (m *Metrics) ObserveRequest(route string, code int) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// ObserveCard records how long aggregating a card took.
func (m *Metrics) ObserveCard(card string, took time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.cards.WithLabelValues(card, result).Observe(took.Seconds())
}

// Transport wraps base so every upstream round trip is counted under upstream.
// A nil base means http.DefaultTransport.
func (m *Metrics) Transport(upstream string, base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	counter := m.upstream.MustCurryWith(prometheus.Labels{"upstream": upstream})
	return promhttp.InstrumentRoundTripperCounter(counter, base)
}
