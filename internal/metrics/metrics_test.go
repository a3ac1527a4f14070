package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m := New()
	reg := prometheus.NewRegistry()
	require.NoError(t, m.Register(reg))

	m.Resolved("local")
	m.Resolved("local")
	m.ProviderRequest("ok")
	m.CacheWrite("shared", false)
	m.BudgetUsed(12)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.resolved.WithLabelValues("local")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.providerRequests.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.cacheWrites.WithLabelValues("shared", "failed")))
	assert.Equal(t, float64(12), testutil.ToFloat64(m.budgetUsed))

	assert.Error(t, m.Register(reg))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Resolved("local")
		m.ProviderRequest("ok")
		m.CacheWrite("local", true)
		m.BudgetUsed(1)
	})
}
