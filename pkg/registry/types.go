package registry

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Family identifies which token formula applies to a model.
type Family int

const (
	// FamilyPatch covers OpenAI models billed by 32x32 patches with a budget cap.
	FamilyPatch Family = iota + 1

	// FamilyTile covers OpenAI models billed by 512x512 tiles.
	FamilyTile

	// FamilyGemini covers Google Gemini models.
	FamilyGemini
)

// String returns the lowercase family name.
func (f Family) String() string {
	switch f {
	case FamilyPatch:
		return "patch"
	case FamilyTile:
		return "tile"
	case FamilyGemini:
		return "gemini"
	default:
		return fmt.Sprintf("family(%d)", int(f))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Family) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Family) UnmarshalText(text []byte) error {
	switch string(text) {
	case "patch":
		*f = FamilyPatch
	case "tile":
		*f = FamilyTile
	case "gemini":
		*f = FamilyGemini
	default:
		return fmt.Errorf("unknown model family %q", text)
	}
	return nil
}

// Provider is the vendor a model name routes to.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGoogle Provider = "google"
)

// ModelConfig is the per-model entry of a Table. It is implemented only by
// PatchConfig, TileConfig and GeminiConfig; callers switch on the concrete type.
type ModelConfig interface {
	// ModelName returns the lookup key of the entry.
	ModelName() string

	// Family returns the formula family of the entry.
	Family() Family

	// Provider returns the vendor serving the model.
	Provider() Provider

	modelConfig()
}

// FlatPricing is a single per-million-token rate pair.
type FlatPricing struct {
	InputPerMillion  float64 `yaml:"input_cost_per_million_tokens" json:"input_cost_per_million_tokens"`
	OutputPerMillion float64 `yaml:"output_cost_per_million_tokens" json:"output_cost_per_million_tokens"`
}

// PatchConfig describes a patch-family model.
type PatchConfig struct {
	Name string `yaml:"-" json:"name"`

	// Factor calibrates the raw patch count against observed API usage.
	Factor float64 `yaml:"factor" json:"factor"`

	// MaxTokens is the patch budget before the image is shrunk.
	MaxTokens int `yaml:"max_tokens" json:"max_tokens"`

	Pricing FlatPricing `yaml:",inline" json:"pricing"`
}

func (c *PatchConfig) ModelName() string  { return c.Name }
func (c *PatchConfig) Family() Family     { return FamilyPatch }
func (c *PatchConfig) Provider() Provider { return ProviderOpenAI }
func (c *PatchConfig) modelConfig()       {}

// TileConfig describes a tile-family model.
type TileConfig struct {
	Name          string      `yaml:"-" json:"name"`
	BaseTokens    int         `yaml:"base_tokens" json:"base_tokens"`
	TokensPerTile int         `yaml:"tokens_per_tile" json:"tokens_per_tile"`
	Pricing       FlatPricing `yaml:",inline" json:"pricing"`
}

func (c *TileConfig) ModelName() string  { return c.Name }
func (c *TileConfig) Family() Family     { return FamilyTile }
func (c *TileConfig) Provider() Provider { return ProviderOpenAI }
func (c *TileConfig) modelConfig()       {}

// GeminiConfig describes a Gemini model priced by input-size tiers.
type GeminiConfig struct {
	Name  string        `yaml:"-" json:"name"`
	Tiers []PricingTier `yaml:"pricing_tiers" json:"pricing_tiers"`
}

func (c *GeminiConfig) ModelName() string  { return c.Name }
func (c *GeminiConfig) Family() Family     { return FamilyGemini }
func (c *GeminiConfig) Provider() Provider { return ProviderGoogle }
func (c *GeminiConfig) modelConfig()       {}

// PricingTier applies to requests whose input token count is at most UpToTokens.
type PricingTier struct {
	UpToTokens       TokenLimit `yaml:"up_to_tokens" json:"up_to_tokens"`
	Input            InputRate  `yaml:"input_cost_per_million_tokens" json:"input_cost_per_million_tokens"`
	OutputPerMillion float64    `yaml:"output_cost_per_million_tokens" json:"output_cost_per_million_tokens"`
}

// Label names the tier for reports, e.g. "<=128000" or "unbounded".
func (t PricingTier) Label() string {
	if t.UpToTokens == Unbounded {
		return "unbounded"
	}
	return "<=" + strconv.FormatInt(int64(t.UpToTokens), 10)
}

// TokenLimit is a tier threshold. Unbounded marks the terminal tier.
type TokenLimit int64

// Unbounded is the threshold of a tier that accepts any input size.
const Unbounded TokenLimit = math.MaxInt64

// String returns "inf" for Unbounded and the decimal value otherwise.
func (l TokenLimit) String() string {
	if l == Unbounded {
		return "inf"
	}
	return strconv.FormatInt(int64(l), 10)
}

// UnmarshalYAML accepts an integer or one of inf, .inf, unbounded.
func (l *TokenLimit) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: up_to_tokens must be a scalar", value.Line)
	}
	switch strings.ToLower(strings.TrimSpace(value.Value)) {
	case "inf", ".inf", "+inf", "+.inf", "unbounded":
		*l = Unbounded
		return nil
	}
	n, err := strconv.ParseInt(value.Value, 10, 64)
	if err != nil {
		return fmt.Errorf("line %d: invalid up_to_tokens %q: %w", value.Line, value.Value, err)
	}
	*l = TokenLimit(n)
	return nil
}

// MarshalJSON encodes Unbounded as the string "inf".
func (l TokenLimit) MarshalJSON() ([]byte, error) {
	if l == Unbounded {
		return []byte(`"inf"`), nil
	}
	return []byte(strconv.FormatInt(int64(l), 10)), nil
}

// InputRate is a per-million input rate that is either flat or keyed by
// input modality (text, image, video, audio).
type InputRate struct {
	Flat       float64
	ByModality map[string]float64
}

// FlatRate returns a flat InputRate.
func FlatRate(perMillion float64) InputRate {
	return InputRate{Flat: perMillion}
}

// ModalityRates returns an InputRate keyed by modality.
func ModalityRates(rates map[string]float64) InputRate {
	return InputRate{ByModality: rates}
}

// PerModality reports whether the rate is keyed by modality.
func (r InputRate) PerModality() bool {
	return r.ByModality != nil
}

// For returns the rate for modality. An unmapped modality has a zero rate.
func (r InputRate) For(modality string) float64 {
	if r.ByModality == nil {
		return r.Flat
	}
	return r.ByModality[modality]
}

// UnmarshalYAML accepts either a number or a modality mapping.
func (r *InputRate) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var f float64
		if err := value.Decode(&f); err != nil {
			return fmt.Errorf("line %d: invalid input rate: %w", value.Line, err)
		}
		*r = FlatRate(f)
		return nil
	case yaml.MappingNode:
		m := make(map[string]float64)
		if err := value.Decode(&m); err != nil {
			return fmt.Errorf("line %d: invalid modality rates: %w", value.Line, err)
		}
		*r = ModalityRates(m)
		return nil
	default:
		return fmt.Errorf("line %d: input rate must be a number or a mapping", value.Line)
	}
}

// MarshalJSON encodes the flat rate as a number and modality rates as an object.
func (r InputRate) MarshalJSON() ([]byte, error) {
	if r.ByModality != nil {
		return json.Marshal(r.ByModality)
	}
	return json.Marshal(r.Flat)
}
