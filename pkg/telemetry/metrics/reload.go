package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/srinathmkce/imagetoken/pkg/config"
)

// ReloadMetrics tracks model table reloads.
//
// Metrics:
//   - imagetoken_estimator_registry_reloads_total: Reload attempts by trigger and status
//   - imagetoken_estimator_registry_last_reload_timestamp_seconds: Time of the last successful reload
//   - imagetoken_estimator_registry_models: Models in the active table
type ReloadMetrics struct {
	reloadsTotal *prometheus.CounterVec
	lastReload   prometheus.Gauge
	models       prometheus.Gauge
}

// NewReloadMetrics creates and registers reload metrics with the provided registry.
func NewReloadMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ReloadMetrics {
	rm := &ReloadMetrics{
		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "registry_reloads_total",
				Help:      "Total number of model table reload attempts",
			},
			[]string{"trigger", "status"},
		),

		lastReload: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "registry_last_reload_timestamp_seconds",
				Help:      "Unix time of the last successful model table reload",
			},
		),

		models: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "registry_models",
				Help:      "Number of models in the active table",
			},
		),
	}

	registry.MustRegister(
		rm.reloadsTotal,
		rm.lastReload,
		rm.models,
	)

	return rm
}

// RecordReload records a reload attempt.
func (rm *ReloadMetrics) RecordReload(trigger string, err error) {
	if err != nil {
		rm.reloadsTotal.WithLabelValues(trigger, "error").Inc()
		return
	}
	rm.reloadsTotal.WithLabelValues(trigger, "success").Inc()
	rm.lastReload.Set(float64(time.Now().Unix()))
}

// UpdateModels sets the number of models in the active table.
func (rm *ReloadMetrics) UpdateModels(count int) {
	rm.models.Set(float64(count))
}
