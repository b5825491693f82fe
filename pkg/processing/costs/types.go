package costs

import "errors"

var (
	// ErrNoPricingTier is returned when no tier accepts the input token
	// count. It means the model table is malformed.
	ErrNoPricingTier = errors.New("no pricing tier matches input token count")

	// ErrInvalidTokenCount is returned for negative token counts.
	ErrInvalidTokenCount = errors.New("token count must not be negative")
)

// DefaultModality is the input modality priced when none is given.
const DefaultModality = "text"

// Currency is the currency of every CostEstimate.
const Currency = "USD"

// CostEstimate contains cost calculations in USD. Values are not rounded.
type CostEstimate struct {
	// InputCost is the cost of the input tokens in USD.
	InputCost float64 `json:"input_cost"`

	// OutputCost is the cost of the output tokens in USD.
	OutputCost float64 `json:"output_cost"`

	// TotalCost is InputCost plus OutputCost.
	TotalCost float64 `json:"total_cost"`

	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`

	// Model is the model used for pricing.
	Model string `json:"model"`

	// Provider is the provider name (openai, google).
	Provider string `json:"provider"`

	// PricingTier identifies the tier used: "flat" for OpenAI models, the
	// tier label (e.g. "<=200000") for Gemini models.
	PricingTier string `json:"pricing_tier"`

	// Modality is the input modality the rate was looked up for.
	Modality string `json:"modality"`

	// Currency is the currency code (always "USD").
	Currency string `json:"currency"`
}
