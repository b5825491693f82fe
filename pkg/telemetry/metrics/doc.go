// Package metrics exposes Prometheus metrics for token estimates, cost
// calculations, the URL dimension cache, model table reloads and the HTTP API.
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	collector.RecordEstimate("gpt-4o", "tile", 765, elapsed)
//	collector.RecordCost("google", "gemini-2.5-pro", "<=200000", 0.31)
//
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// The collector also satisfies dimensions.CacheObserver and
// registry.ReloadObserver, so it can be handed to those packages directly.
//
// # Cardinality
//
// Model names arrive from users. After 1000 distinct model label sets, new
// names are recorded as "other".
package metrics
