package registry

import (
	"fmt"
	"sort"
)

// Table is an immutable snapshot of model configurations. Build one with
// NewTable, Parse or LoadFile; a Table is never modified after construction.
type Table struct {
	version string
	models  map[string]ModelConfig
}

// NewTable validates configs and returns a table holding them.
func NewTable(version string, configs ...ModelConfig) (*Table, error) {
	t := &Table{
		version: version,
		models:  make(map[string]ModelConfig, len(configs)),
	}

	var errs []FieldError
	for _, cfg := range configs {
		name := cfg.ModelName()
		if _, dup := t.models[name]; dup {
			errs = append(errs, FieldError{
				Field:   name,
				Message: "model is defined more than once",
			})
			continue
		}
		errs = append(errs, validateConfig(cfg)...)
		t.models[name] = cfg
	}

	if len(errs) > 0 {
		return nil, ValidationError{Errors: errs}
	}
	return t, nil
}

// Version returns the data version label of the table.
func (t *Table) Version() string {
	return t.version
}

// Lookup returns the configuration stored under name.
func (t *Table) Lookup(name string) (ModelConfig, bool) {
	cfg, ok := t.models[name]
	return cfg, ok
}

// Len returns the number of models in the table.
func (t *Table) Len() int {
	return len(t.models)
}

// Configs returns every configuration sorted by model name.
func (t *Table) Configs() []ModelConfig {
	out := make([]ModelConfig, 0, len(t.models))
	for _, cfg := range t.models {
		out = append(out, cfg)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ModelName() < out[j].ModelName()
	})
	return out
}

func validateConfig(cfg ModelConfig) []FieldError {
	var errs []FieldError
	name := cfg.ModelName()

	if name == "" {
		return []FieldError{{Field: "model", Message: "name is required"}}
	}

	provider, err := ProviderFor(name)
	if err != nil {
		errs = append(errs, FieldError{
			Field:   name,
			Message: "name does not follow any provider naming convention",
		})
	} else if provider != cfg.Provider() {
		errs = append(errs, FieldError{
			Field:   name,
			Message: fmt.Sprintf("name routes to %s but is configured as a %s model", provider, cfg.Provider()),
		})
	}

	switch c := cfg.(type) {
	case *PatchConfig:
		if c.Factor <= 0 {
			errs = append(errs, FieldError{Field: name + ".factor", Message: "must be positive"})
		}
		if c.MaxTokens <= 0 {
			errs = append(errs, FieldError{Field: name + ".max_tokens", Message: "must be positive"})
		}
		errs = append(errs, validateFlatPricing(name, c.Pricing)...)

	case *TileConfig:
		if c.BaseTokens < 0 {
			errs = append(errs, FieldError{Field: name + ".base_tokens", Message: "must not be negative"})
		}
		if c.TokensPerTile <= 0 {
			errs = append(errs, FieldError{Field: name + ".tokens_per_tile", Message: "must be positive"})
		}
		errs = append(errs, validateFlatPricing(name, c.Pricing)...)

	case *GeminiConfig:
		errs = append(errs, validateTiers(name, c.Tiers)...)
	}

	return errs
}

func validateFlatPricing(name string, p FlatPricing) []FieldError {
	var errs []FieldError
	if p.InputPerMillion < 0 {
		errs = append(errs, FieldError{Field: name + ".input_cost_per_million_tokens", Message: "must not be negative"})
	}
	if p.OutputPerMillion < 0 {
		errs = append(errs, FieldError{Field: name + ".output_cost_per_million_tokens", Message: "must not be negative"})
	}
	return errs
}

// validateTiers checks that thresholds strictly increase and that the last
// tier is Unbounded, so every non-negative input count finds a tier.
func validateTiers(name string, tiers []PricingTier) []FieldError {
	if len(tiers) == 0 {
		return []FieldError{{Field: name + ".pricing_tiers", Message: "at least one tier is required"}}
	}

	var errs []FieldError
	for i, tier := range tiers {
		field := fmt.Sprintf("%s.pricing_tiers[%d]", name, i)
		if tier.UpToTokens < 0 {
			errs = append(errs, FieldError{Field: field + ".up_to_tokens", Message: "must not be negative"})
		}
		if i > 0 && tier.UpToTokens <= tiers[i-1].UpToTokens {
			errs = append(errs, FieldError{Field: field + ".up_to_tokens", Message: "thresholds must be strictly increasing"})
		}
		if tier.Input.Flat < 0 {
			errs = append(errs, FieldError{Field: field + ".input_cost_per_million_tokens", Message: "must not be negative"})
		}
		for modality, rate := range tier.Input.ByModality {
			if rate < 0 {
				errs = append(errs, FieldError{
					Field:   field + ".input_cost_per_million_tokens." + modality,
					Message: "must not be negative",
				})
			}
		}
		if tier.OutputPerMillion < 0 {
			errs = append(errs, FieldError{Field: field + ".output_cost_per_million_tokens", Message: "must not be negative"})
		}
	}

	if tiers[len(tiers)-1].UpToTokens != Unbounded {
		errs = append(errs, FieldError{
			Field:   name + ".pricing_tiers",
			Message: "last tier must have up_to_tokens: inf",
		})
	}
	return errs
}
