package costs

import (
	"fmt"

	"github.com/srinathmkce/imagetoken/pkg/registry"
)

// FlatTier is the PricingTier label of OpenAI models.
const FlatTier = "flat"

// Calculator prices token counts with the rates in a registry. It reads the
// registry's current table on every call, so a table swap takes effect
// immediately.
type Calculator struct {
	registry *registry.Registry
}

// NewCalculator creates a cost calculator backed by reg.
func NewCalculator(reg *registry.Registry) *Calculator {
	return &Calculator{
		registry: reg,
	}
}

// ComputeCost prices input and output tokens for model. modality selects the
// input rate of Gemini tiers priced per modality; empty means "text".
func (c *Calculator) ComputeCost(inputTokens, outputTokens int, model, modality string) (*CostEstimate, error) {
	cfg, err := c.registry.Get(model)
	if err != nil {
		return nil, err
	}
	return ComputeCostForConfig(inputTokens, outputTokens, cfg, modality)
}

// ComputeCostForConfig prices tokens with an explicit configuration.
// OpenAI configurations use their flat rates. Gemini configurations use the
// first tier whose threshold is at least inputTokens; a modality missing from
// a per-modality tier has a zero input rate.
func ComputeCostForConfig(inputTokens, outputTokens int, cfg registry.ModelConfig, modality string) (*CostEstimate, error) {
	if inputTokens < 0 || outputTokens < 0 {
		return nil, fmt.Errorf("%w: input %d, output %d", ErrInvalidTokenCount, inputTokens, outputTokens)
	}
	if modality == "" {
		modality = DefaultModality
	}

	est := &CostEstimate{
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		Model:        cfg.ModelName(),
		Provider:     string(cfg.Provider()),
		Modality:     modality,
		Currency:     Currency,
	}

	var inputRate, outputRate float64
	switch c := cfg.(type) {
	case *registry.PatchConfig:
		inputRate, outputRate = c.Pricing.InputPerMillion, c.Pricing.OutputPerMillion
		est.PricingTier = FlatTier

	case *registry.TileConfig:
		inputRate, outputRate = c.Pricing.InputPerMillion, c.Pricing.OutputPerMillion
		est.PricingTier = FlatTier

	case *registry.GeminiConfig:
		tier, err := SelectTier(c.Tiers, inputTokens)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", c.Name, err)
		}
		inputRate, outputRate = tier.Input.For(modality), tier.OutputPerMillion
		est.PricingTier = tier.Label()

	default:
		return nil, fmt.Errorf("model %q has unhandled configuration type %T", cfg.ModelName(), cfg)
	}

	est.InputCost = calculateTokenCost(inputTokens, inputRate)
	est.OutputCost = calculateTokenCost(outputTokens, outputRate)
	est.TotalCost = est.InputCost + est.OutputCost

	return est, nil
}

// SelectTier returns the first tier whose UpToTokens is at least inputTokens.
func SelectTier(tiers []registry.PricingTier, inputTokens int) (registry.PricingTier, error) {
	for _, tier := range tiers {
		if registry.TokenLimit(inputTokens) <= tier.UpToTokens {
			return tier, nil
		}
	}
	return registry.PricingTier{}, fmt.Errorf("%w: %d", ErrNoPricingTier, inputTokens)
}

// calculateTokenCost calculates the cost for a given number of tokens.
// costPerMillion is the cost per million tokens in USD.
func calculateTokenCost(tokens int, costPerMillion float64) float64 {
	if tokens <= 0 {
		return 0.0
	}

	return (float64(tokens) / 1_000_000) * costPerMillion
}
