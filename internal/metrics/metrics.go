// Package metrics holds the prometheus collectors for the lookup tiers.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors. A nil *Metrics records nothing.
type Metrics struct {
	resolved         *prometheus.CounterVec
	providerRequests *prometheus.CounterVec
	cacheWrites      *prometheus.CounterVec
	budgetUsed       prometheus.Gauge
}

// New creates unregistered collectors
func New() *Metrics {
	return &Metrics{
		resolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hops_search_resolved_total",
			Help: "Lookups answered per tier. Label \"tier\" = local|shared|live|fallback.",
		}, []string{"tier"}),
		providerRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hops_provider_requests_total",
			Help: "Calls to the beer provider by outcome.",
		}, []string{"outcome"}),
		cacheWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hops_cache_writes_total",
			Help: "Write-backs into cache tiers. Label \"result\" = ok|failed.",
		}, []string{"tier", "result"}),
		budgetUsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hops_budget_used",
			Help: "Provider requests counted in the current budget period.",
		}),
	}
}

// Register registers every collector with reg
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.resolved, m.providerRequests, m.cacheWrites, m.budgetUsed} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) Resolved(tier string) {
	if m == nil {
		return
	}
	m.resolved.WithLabelValues(tier).Inc()
}

func (m *Metrics) ProviderRequest(outcome string) {
	if m == nil {
		return
	}
	m.providerRequests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) CacheWrite(tier string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.cacheWrites.WithLabelValues(tier, result).Inc()
}

func (m *Metrics) BudgetUsed(count int) {
	if m == nil {
		return
	}
	m.budgetUsed.Set(float64(count))
}
