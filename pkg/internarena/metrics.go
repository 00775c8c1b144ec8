package internarena

// metrics.go defines a metricsSink interface with a no-op default and a
// Prometheus-backed implementation, so the hot path never pays for a
// metric update unless the caller opted in via WithMetrics.
//
// ┌────────────────────────────────┐
// │ Metric                   │ Type │
// ├───────────────────────────┼──────┤
// │ interns_total              │ Ctr  │
// │ intern_hits_total          │ Ctr  │
// │ intern_misses_total        │ Ctr  │
// │ bytes_allocated_total      │ Ctr  │
// │ key_space_exhausted_total  │ Ctr  │
// │ memory_limit_reached_total │ Ctr  │
// │ allocation_failed_total    │ Ctr  │
// │ arena_bytes                │ Gge  │
// └────────────────────────────────┘
//
// © 2025 internarena authors. MIT License.

import "github.com/prometheus/client_golang/prometheus"

type metricsSink interface {
	incIntern()
	incHit()
	incMiss()
	addBytesAllocated(delta int64)
	incKeySpaceExhausted()
	incMemoryLimitReached()
	incAllocationFailed()
	setArenaBytes(value int64)
}

type noopMetrics struct{}

func (noopMetrics) incIntern()              {}
func (noopMetrics) incHit()                 {}
func (noopMetrics) incMiss()                {}
func (noopMetrics) addBytesAllocated(int64) {}
func (noopMetrics) incKeySpaceExhausted()   {}
func (noopMetrics) incMemoryLimitReached()  {}
func (noopMetrics) incAllocationFailed()    {}
func (noopMetrics) setArenaBytes(int64)     {}

type promMetrics struct {
	interns            prometheus.Counter
	hits               prometheus.Counter
	misses             prometheus.Counter
	bytesAllocated     prometheus.Counter
	keySpaceExhausted  prometheus.Counter
	memoryLimitReached prometheus.Counter
	allocationFailed   prometheus.Counter
	arenaBytes         prometheus.Gauge
}

func newPromMetrics(reg *prometheus.Registry) *promMetrics {
	ns := "internarena"
	pm := &promMetrics{
		interns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "interns_total", Help: "Number of Intern/TryIntern calls.",
		}),
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "intern_hits_total", Help: "Number of interns that found an existing key.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "intern_misses_total", Help: "Number of interns that minted a new key.",
		}),
		bytesAllocated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "bytes_allocated_total", Help: "Cumulative bytes copied into arena buckets.",
		}),
		keySpaceExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "key_space_exhausted_total", Help: "Number of inserts rejected by key-space exhaustion.",
		}),
		memoryLimitReached: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "memory_limit_reached_total", Help: "Number of inserts rejected by the memory ceiling.",
		}),
		allocationFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "allocation_failed_total", Help: "Number of inserts rejected by allocator failure.",
		}),
		arenaBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Name: "arena_bytes", Help: "Live bytes reserved in arena buckets.",
		}),
	}
	reg.MustRegister(pm.interns, pm.hits, pm.misses, pm.bytesAllocated,
		pm.keySpaceExhausted, pm.memoryLimitReached, pm.allocationFailed, pm.arenaBytes)
	return pm
}

func (m *promMetrics) incIntern()                { m.interns.Inc() }
func (m *promMetrics) incHit()                   { m.hits.Inc() }
func (m *promMetrics) incMiss()                  { m.misses.Inc() }
func (m *promMetrics) addBytesAllocated(n int64) { m.bytesAllocated.Add(float64(n)) }
func (m *promMetrics) incKeySpaceExhausted()     { m.keySpaceExhausted.Inc() }
func (m *promMetrics) incMemoryLimitReached()    { m.memoryLimitReached.Inc() }
func (m *promMetrics) incAllocationFailed()      { m.allocationFailed.Inc() }
func (m *promMetrics) setArenaBytes(v int64)     { m.arenaBytes.Set(float64(v)) }

func newMetricsSink(reg *prometheus.Registry) metricsSink {
	if reg == nil {
		return noopMetrics{}
	}
	return newPromMetrics(reg)
}
