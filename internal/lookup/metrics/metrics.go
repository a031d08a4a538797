// Package metrics provides Prometheus metrics for remote lookups and the lookup cache.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains lookup request, cache and circuit breaker metrics.
type Metrics struct {
	RequestsTotal          *prometheus.CounterVec   // by endpoint and outcome
	RequestDurationSeconds *prometheus.HistogramVec // by endpoint
	CacheHitsTotal         *prometheus.CounterVec   // by endpoint
	CacheMissesTotal       *prometheus.CounterVec   // by endpoint
	SharedCallsTotal       *prometheus.CounterVec   // singleflight followers, by endpoint
	CircuitOpen            prometheus.Gauge
}

// New creates the lookup metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_lookup_requests_total",
			Help: "Remote lookup calls by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),

		RequestDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "signup_lookup_request_duration_seconds",
			Help:    "Duration of remote lookup calls by endpoint",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"endpoint"}),

		CacheHitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_lookup_cache_hits_total",
			Help: "Lookup cache hits by endpoint",
		}, []string{"endpoint"}),

		CacheMissesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_lookup_cache_misses_total",
			Help: "Lookup cache misses by endpoint",
		}, []string{"endpoint"}),

		SharedCallsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_lookup_shared_calls_total",
			Help: "Lookups served by joining an identical in-flight call",
		}, []string{"endpoint"}),

		CircuitOpen: factory.NewGauge(prometheus.GaugeOpts{
			Name: "signup_lookup_circuit_open",
			Help: "1 while the lookup circuit breaker is open",
		}),
	}
}

// ObserveRequest records one remote call.
func (m *Metrics) ObserveRequest(endpoint, outcome string, durationSeconds float64) {
	m.RequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	m.RequestDurationSeconds.WithLabelValues(endpoint).Observe(durationSeconds)
}

func (m *Metrics) RecordCacheHit(endpoint string) {
	m.CacheHitsTotal.WithLabelValues(endpoint).Inc()
}

func (m *Metrics) RecordCacheMiss(endpoint string) {
	m.CacheMissesTotal.WithLabelValues(endpoint).Inc()
}

func (m *Metrics) RecordSharedCall(endpoint string) {
	m.SharedCallsTotal.WithLabelValues(endpoint).Inc()
}

func (m *Metrics) SetCircuitOpen(open bool) {
	if open {
		m.CircuitOpen.Set(1)
		return
	}
	m.CircuitOpen.Set(0)
}

// CacheHitRate is hits / (hits + misses), or 0 with no traffic.
func CacheHitRate(hits, misses float64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return hits / total
}
