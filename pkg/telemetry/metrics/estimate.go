package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/srinathmkce/imagetoken/pkg/config"
)

// EstimateMetrics tracks token estimation.
//
// Metrics:
//   - imagetoken_estimator_estimates_total: Estimates by model and family
//   - imagetoken_estimator_image_tokens: Image token distribution by family
//   - imagetoken_estimator_estimate_duration_seconds: Estimation time by family
//   - imagetoken_estimator_estimate_errors_total: Failed estimates by reason
type EstimateMetrics struct {
	estimatesTotal   *prometheus.CounterVec
	imageTokens      *prometheus.HistogramVec
	estimateDuration *prometheus.HistogramVec
	errorsTotal      *prometheus.CounterVec
}

// NewEstimateMetrics creates and registers estimate metrics with the provided registry.
func NewEstimateMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *EstimateMetrics {
	em := &EstimateMetrics{
		estimatesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "estimates_total",
				Help:      "Total number of image token estimates",
			},
			[]string{"model", "family"},
		),

		imageTokens: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "image_tokens",
				Help:      "Estimated image tokens per image",
				Buckets:   cfg.TokenCountBuckets,
			},
			[]string{"family"},
		),

		estimateDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "estimate_duration_seconds",
				Help:      "Time spent computing an estimate in seconds",
				Buckets:   []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01},
			},
			[]string{"family"},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "estimate_errors_total",
				Help:      "Total number of failed estimates by reason",
			},
			[]string{"reason"},
		),
	}

	registry.MustRegister(
		em.estimatesTotal,
		em.imageTokens,
		em.estimateDuration,
		em.errorsTotal,
	)

	return em
}

// RecordEstimate records a successful estimate.
func (em *EstimateMetrics) RecordEstimate(model, family string, imageTokens int, duration time.Duration) {
	em.estimatesTotal.WithLabelValues(model, family).Inc()
	em.imageTokens.WithLabelValues(family).Observe(float64(imageTokens))
	em.estimateDuration.WithLabelValues(family).Observe(duration.Seconds())
}

// RecordError records a failed estimate.
func (em *EstimateMetrics) RecordError(reason string) {
	em.errorsTotal.WithLabelValues(reason).Inc()
}
