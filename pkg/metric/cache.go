package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

var _ Cache = (*cacheMetrics)(nil)

const (
	_lookupHit  = "hit"
	_lookupMiss = "miss"
)

type cacheMetrics struct {
	lookups   *prometheus.CounterVec
	evictions *prometheus.CounterVec
	entries   *prometheus.GaugeVec
}

func newCacheMetrics(registry *promRegistry) *cacheMetrics {
	lookups := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: _namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by cache name and result (hit or miss)",
		},
		[]string{"cache", "result"},
	)

	evictions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: _namespace,
			Subsystem: "cache",
			Name:      "evictions_total",
			Help:      "Cache entries removed, by reason (capacity, expired, deleted, purged)",
		},
		[]string{"cache", "reason"},
	)

	entries := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: _namespace,
			Subsystem: "cache",
			Name:      "entries",
			Help:      "Number of entries currently held",
		},
		[]string{"cache"},
	)

	registry.registry.MustRegister(lookups, evictions, entries)

	return &cacheMetrics{
		lookups:   lookups,
		evictions: evictions,
		entries:   entries,
	}
}

func (m *cacheMetrics) Hit(cache string) {
	m.lookups.WithLabelValues(cache, _lookupHit).Inc()
}

func (m *cacheMetrics) Miss(cache string) {
	m.lookups.WithLabelValues(cache, _lookupMiss).Inc()
}

func (m *cacheMetrics) Eviction(cache string, reason string) {
	m.evictions.WithLabelValues(cache, reason).Inc()
}

func (m *cacheMetrics) Size(cache string, size int) {
	m.entries.WithLabelValues(cache).Set(float64(size))
}
