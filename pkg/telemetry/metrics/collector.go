package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/srinathmkce/imagetoken/pkg/config"
)

// otherModel replaces model labels once the cardinality limit is reached.
const otherModel = "other"

// Collector is the main orchestrator for all Prometheus metrics in imagetoken.
// It manages metric registration and provides a single recording surface for
// the estimator, the cost calculator, the dimension cache, model table
// reloads and the HTTP server.
//
// All methods are safe to call on a nil *Collector and do nothing when
// metrics are disabled.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	estimateMetrics *EstimateMetrics
	costMetrics     *CostMetrics
	cacheMetrics    *CacheMetrics
	reloadMetrics   *ReloadMetrics
	requestMetrics  *RequestMetrics

	// Model names come from callers, so they are capped
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a new registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "imagetoken",
//		Subsystem: "estimator",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	// Set defaults if not specified
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.TokenCountBuckets) == 0 {
		cfg.TokenCountBuckets = config.DefaultTokenCountBuckets()
	}
	if len(cfg.CostBuckets) == 0 {
		cfg.CostBuckets = config.DefaultCostBuckets()
	}

	return &Collector{
		config:             cfg,
		registry:           registry,
		estimateMetrics:    NewEstimateMetrics(cfg, registry),
		costMetrics:        NewCostMetrics(cfg, registry),
		cacheMetrics:       NewCacheMetrics(cfg, registry),
		reloadMetrics:      NewReloadMetrics(cfg, registry),
		requestMetrics:     NewRequestMetrics(cfg, registry),
		cardinalityLimiter: NewCardinalityLimiter(1000),
	}
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

func (c *Collector) modelLabel(kind, model string) string {
	if !c.cardinalityLimiter.Allow(fmt.Sprintf("%s:%s", kind, model)) {
		return otherModel
	}
	return model
}

// RecordEstimate records a token estimate.
//
// Parameters:
//   - model: Model name
//   - family: Token family ("patch", "tile", "gemini")
//   - imageTokens: Estimated image tokens (without prefix)
//   - duration: Time spent on the estimate, excluding image reads
func (c *Collector) RecordEstimate(model, family string, imageTokens int, duration time.Duration) {
	if !c.enabled() {
		return
	}

	c.estimateMetrics.RecordEstimate(c.modelLabel("estimate", model), family, imageTokens, duration)
}

// RecordEstimateError records a failed estimate.
//
// Parameters:
//   - reason: Failure class ("unknown_model", "unsupported_model", "invalid_dimensions", "read")
func (c *Collector) RecordEstimateError(reason string) {
	if !c.enabled() {
		return
	}

	c.estimateMetrics.RecordError(reason)
}

// RecordCost records a computed cost.
//
// Parameters:
//   - provider: "openai" or "google"
//   - model: Model name
//   - tier: Pricing tier label ("flat", "<=200000", "unbounded")
//   - costUSD: Total cost in USD
func (c *Collector) RecordCost(provider, model, tier string, costUSD float64) {
	if !c.enabled() {
		return
	}

	c.costMetrics.RecordCost(provider, c.modelLabel("cost", model), tier, costUSD)
}

// ObserveCacheLookup records a dimension cache lookup.
func (c *Collector) ObserveCacheLookup(hit bool) {
	if !c.enabled() {
		return
	}

	if hit {
		c.cacheMetrics.RecordHit(dimensionCache)
	} else {
		c.cacheMetrics.RecordMiss(dimensionCache)
	}
}

// ObserveCacheError records a failed dimension cache operation.
//
// Parameters:
//   - op: Operation ("get", "put", "delete", "count")
func (c *Collector) ObserveCacheError(op string) {
	if !c.enabled() {
		return
	}

	c.cacheMetrics.RecordError(dimensionCache, op)
}

// UpdateCacheSize updates the number of entries in the dimension cache.
func (c *Collector) UpdateCacheSize(size int) {
	if !c.enabled() {
		return
	}

	c.cacheMetrics.UpdateSize(dimensionCache, size)
}

// ObserveReload records a model table reload attempt.
//
// Parameters:
//   - trigger: What caused the reload ("watch", "schedule", "manual")
//   - err: nil if the new table was installed
func (c *Collector) ObserveReload(trigger string, err error) {
	if !c.enabled() {
		return
	}

	c.reloadMetrics.RecordReload(trigger, err)
}

// UpdateModelCount sets the number of models in the active table.
func (c *Collector) UpdateModelCount(count int) {
	if !c.enabled() {
		return
	}

	c.reloadMetrics.UpdateModels(count)
}

// RecordRequest records a completed HTTP API request.
//
// Parameters:
//   - route: Route pattern (e.g., "/v1/tokens")
//   - status: HTTP status code
//   - duration: Total handling time
func (c *Collector) RecordRequest(route string, status int, duration time.Duration) {
	if !c.enabled() {
		return
	}

	c.requestMetrics.RecordRequest(route, status, duration)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations per metric.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether a label set may be used: it already exists or the
// limit has not been reached.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
