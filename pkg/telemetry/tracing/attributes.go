package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for imagetoken spans.
const (
	AttrModel        = attribute.Key("imagetoken.model")
	AttrProvider     = attribute.Key("imagetoken.provider")
	AttrFamily       = attribute.Key("imagetoken.family")
	AttrWidth        = attribute.Key("imagetoken.image.width")
	AttrHeight       = attribute.Key("imagetoken.image.height")
	AttrSourceKind   = attribute.Key("imagetoken.image.source_kind")
	AttrImageTokens  = attribute.Key("imagetoken.tokens.image")
	AttrPrefixTokens = attribute.Key("imagetoken.tokens.prefix")
	AttrTotalTokens  = attribute.Key("imagetoken.tokens.total")
	AttrInputTokens  = attribute.Key("imagetoken.cost.input_tokens")
	AttrOutputTokens = attribute.Key("imagetoken.cost.output_tokens")
	AttrCostUSD      = attribute.Key("imagetoken.cost.total_usd")
	AttrPricingTier  = attribute.Key("imagetoken.cost.tier")
	AttrModality     = attribute.Key("imagetoken.cost.modality")
	AttrCacheHit     = attribute.Key("imagetoken.cache.hit")
	AttrRunID        = attribute.Key("imagetoken.batch.run_id")
	AttrItems        = attribute.Key("imagetoken.batch.items")
	AttrFailed       = attribute.Key("imagetoken.batch.failed")
)

// SetModelAttributes records which model an operation ran against.
func SetModelAttributes(span trace.Span, model, provider, family string) {
	span.SetAttributes(
		AttrModel.String(model),
		AttrProvider.String(provider),
		AttrFamily.String(family),
	)
}

// SetImageAttributes records image dimensions and where the image came from
// ("file", "url", "data_url", "bytes").
func SetImageAttributes(span trace.Span, width, height int, sourceKind string) {
	span.SetAttributes(
		AttrWidth.Int(width),
		AttrHeight.Int(height),
		AttrSourceKind.String(sourceKind),
	)
}

// SetTokenAttributes records an estimate.
func SetTokenAttributes(span trace.Span, imageTokens, prefixTokens, totalTokens int) {
	span.SetAttributes(
		AttrImageTokens.Int(imageTokens),
		AttrPrefixTokens.Int(prefixTokens),
		AttrTotalTokens.Int(totalTokens),
	)
}

// SetCostAttributes records a cost calculation.
func SetCostAttributes(span trace.Span, inputTokens, outputTokens int, totalUSD float64, tier, modality string) {
	span.SetAttributes(
		AttrInputTokens.Int(inputTokens),
		AttrOutputTokens.Int(outputTokens),
		AttrCostUSD.Float64(totalUSD),
		AttrPricingTier.String(tier),
		AttrModality.String(modality),
	)
}

// SetCacheAttributes records whether a dimension lookup hit the cache.
func SetCacheAttributes(span trace.Span, hit bool) {
	span.SetAttributes(AttrCacheHit.Bool(hit))
}

// SetBatchAttributes records a batch run summary.
func SetBatchAttributes(span trace.Span, runID string, items, failed int) {
	span.SetAttributes(
		AttrRunID.String(runID),
		AttrItems.Int(items),
		AttrFailed.Int(failed),
	)
}
