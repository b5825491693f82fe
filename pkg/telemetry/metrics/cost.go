package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/srinathmkce/imagetoken/pkg/config"
)

// CostMetrics tracks computed costs.
//
// Metrics:
//   - imagetoken_estimator_cost_usd_total: Summed estimated cost by provider and model
//   - imagetoken_estimator_cost_per_request_usd: Cost distribution per calculation
//   - imagetoken_estimator_pricing_tier_total: Calculations by model and pricing tier
type CostMetrics struct {
	costTotal      *prometheus.CounterVec
	costPerRequest *prometheus.HistogramVec
	tierTotal      *prometheus.CounterVec
}

// NewCostMetrics creates and registers cost metrics with the provided registry.
func NewCostMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CostMetrics {
	cm := &CostMetrics{
		costTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cost_usd_total",
				Help:      "Total estimated cost in USD by provider and model",
			},
			[]string{"provider", "model"},
		),

		costPerRequest: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cost_per_request_usd",
				Help:      "Estimated cost distribution per calculation in USD",
				Buckets:   cfg.CostBuckets,
			},
			[]string{"provider"},
		),

		tierTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "pricing_tier_total",
				Help:      "Total cost calculations by model and pricing tier",
			},
			[]string{"model", "tier"},
		),
	}

	registry.MustRegister(
		cm.costTotal,
		cm.costPerRequest,
		cm.tierTotal,
	)

	return cm
}

// RecordCost records the cost of a single calculation. A zero cost still
// counts towards the tier total.
func (cm *CostMetrics) RecordCost(provider, model, tier string, costUSD float64) {
	cm.tierTotal.WithLabelValues(model, tier).Inc()
	if costUSD <= 0 {
		return
	}

	cm.costTotal.WithLabelValues(provider, model).Add(costUSD)
	cm.costPerRequest.WithLabelValues(provider).Observe(costUSD)
}
