package internarena

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatherCounter reads one counter/gauge value back out of a registry by its
// fully-qualified name, failing the test if it was never registered.
func gatherCounter(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		require.Len(t, mf.GetMetric(), 1)
		m := mf.GetMetric()[0]
		if c := m.GetCounter(); c != nil {
			return c.GetValue()
		}
		return m.GetGauge().GetValue()
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

// TestMetricsCountHitsAndMisses checks the hit/miss/intern counters move
// as expected: one miss per new string, one hit per repeat.
func TestMetricsCountHitsAndMisses(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := newDefaultRodeo(t, WithMetrics(reg))

	r.Intern("fresh")
	r.Intern("fresh")
	r.Intern("another")

	assert.Equal(t, float64(3), gatherCounter(t, reg, "internarena_interns_total"))
	assert.Equal(t, float64(1), gatherCounter(t, reg, "internarena_intern_hits_total"))
	assert.Equal(t, float64(2), gatherCounter(t, reg, "internarena_intern_misses_total"))
	assert.Equal(t, float64(len("fresh")+len("another")),
		gatherCounter(t, reg, "internarena_bytes_allocated_total"))
}

// TestMetricsRecordMemoryLimitRejections checks the error counter path.
func TestMetricsRecordMemoryLimitRejections(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := newDefaultRodeo(t, WithMetrics(reg),
		WithCapacity(Capacity{Bytes: 4}), WithMaxByteLimit(4))

	_, err := r.TryIntern("wont-fit-at-all")
	require.Error(t, err)

	assert.Equal(t, float64(1), gatherCounter(t, reg, "internarena_memory_limit_reached_total"))
}

// TestMetricsArenaBytesGauge checks the gauge tracks reserved arena bytes.
func TestMetricsArenaBytesGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := newDefaultRodeo(t, WithMetrics(reg), WithCapacity(Capacity{Bytes: 64}))

	r.Intern("something")
	assert.Equal(t, float64(r.ArenaBytes()), gatherCounter(t, reg, "internarena_arena_bytes"))
}

// TestNoopMetricsIsDefault checks that without WithMetrics the sink is the
// no-op implementation, keeping the hot path free of metric costs.
func TestNoopMetricsIsDefault(t *testing.T) {
	r := newDefaultRodeo(t)
	_, isNoop := r.metrics.(noopMetrics)
	assert.True(t, isNoop)
}
