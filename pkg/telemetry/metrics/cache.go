package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/srinathmkce/imagetoken/pkg/config"
)

// dimensionCache is the cache label for the URL dimension cache.
const dimensionCache = "dimensions"

// CacheMetrics tracks cache performance metrics.
//
// Metrics:
//   - imagetoken_estimator_cache_hits_total: Total cache hits by cache name
//   - imagetoken_estimator_cache_misses_total: Total cache misses by cache name
//   - imagetoken_estimator_cache_entries: Current number of entries in cache
//   - imagetoken_estimator_cache_errors_total: Failed cache operations
type CacheMetrics struct {
	hitsTotal   *prometheus.CounterVec
	missesTotal *prometheus.CounterVec
	entries     *prometheus.GaugeVec
	errorsTotal *prometheus.CounterVec
}

// NewCacheMetrics creates and registers cache metrics with the provided registry.
func NewCacheMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CacheMetrics {
	cm := &CacheMetrics{
		hitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_hits_total",
				Help:      "Total number of cache hits",
			},
			[]string{"cache"},
		),

		missesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_misses_total",
				Help:      "Total number of cache misses",
			},
			[]string{"cache"},
		),

		entries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_entries",
				Help:      "Current number of entries in cache",
			},
			[]string{"cache"},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_errors_total",
				Help:      "Total number of failed cache operations",
			},
			[]string{"cache", "op"},
		),
	}

	registry.MustRegister(
		cm.hitsTotal,
		cm.missesTotal,
		cm.entries,
		cm.errorsTotal,
	)

	return cm
}

// RecordHit records a cache hit.
func (cm *CacheMetrics) RecordHit(cacheName string) {
	cm.hitsTotal.WithLabelValues(cacheName).Inc()
}

// RecordMiss records a cache miss.
func (cm *CacheMetrics) RecordMiss(cacheName string) {
	cm.missesTotal.WithLabelValues(cacheName).Inc()
}

// UpdateSize updates the current size of a cache.
func (cm *CacheMetrics) UpdateSize(cacheName string, size int) {
	cm.entries.WithLabelValues(cacheName).Set(float64(size))
}

// RecordError records a failed cache operation. A failing cache never fails
// an estimate, so this counter is the only place such failures surface.
func (cm *CacheMetrics) RecordError(cacheName, op string) {
	cm.errorsTotal.WithLabelValues(cacheName, op).Inc()
}

// Hit rate is a PromQL concern:
//
//	rate(imagetoken_estimator_cache_hits_total{cache="dimensions"}[5m]) /
//	(rate(imagetoken_estimator_cache_hits_total{cache="dimensions"}[5m]) +
//	 rate(imagetoken_estimator_cache_misses_total{cache="dimensions"}[5m]))
