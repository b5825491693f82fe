package tokens

import (
	"fmt"

	"github.com/srinathmkce/imagetoken/pkg/registry"
)

// DefaultPrefixTokens is the fixed per-request overhead OpenAI adds on top of
// the image tokens.
const DefaultPrefixTokens = 9

// Estimate contains the breakdown of a single image estimation.
type Estimate struct {
	// Model is the model the image was estimated for.
	Model string `json:"model"`

	Provider registry.Provider `json:"provider"`
	Family   registry.Family   `json:"family"`

	Width  int `json:"width"`
	Height int `json:"height"`

	// ImageTokens is the cost of the image alone: the calibrated patch count,
	// the tile sum, or the Gemini tile charge.
	ImageTokens int `json:"image_tokens"`

	// PrefixTokens is the request overhead added to ImageTokens. Always zero
	// for Gemini models.
	PrefixTokens int `json:"prefix_tokens"`

	// TotalTokens is ImageTokens plus PrefixTokens.
	TotalTokens int `json:"total_tokens"`
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithPrefixTokens sets the prefix added to OpenAI estimates (default 9).
func WithPrefixTokens(n int) Option {
	return func(e *Estimator) {
		e.prefixTokens = n
	}
}

// WithPatchSize overrides the patch side used for patch-family models.
func WithPatchSize(px int) Option {
	return func(e *Estimator) {
		if px > 0 {
			e.patchSize = px
		}
	}
}

// WithTileSize overrides the tile side used for tile-family models.
func WithTileSize(px int) Option {
	return func(e *Estimator) {
		if px > 0 {
			e.tileSize = px
		}
	}
}

// Estimator turns a model name and image dimensions into a token count using
// the formula of the model's family and the numbers in the registry.
// It holds no mutable state and is safe for concurrent use.
type Estimator struct {
	registry     *registry.Registry
	prefixTokens int
	patchSize    int
	tileSize     int
}

// NewEstimator creates an estimator backed by reg.
func NewEstimator(reg *registry.Registry, opts ...Option) *Estimator {
	e := &Estimator{
		registry:     reg,
		prefixTokens: DefaultPrefixTokens,
		patchSize:    DefaultPatchSize,
		tileSize:     DefaultTileSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the registry the estimator reads from.
func (e *Estimator) Registry() *registry.Registry {
	return e.registry
}

// PrefixTokens returns the configured default prefix.
func (e *Estimator) PrefixTokens() int {
	return e.prefixTokens
}

// EstimateTokens returns the total tokens for one image using the
// configured prefix.
func (e *Estimator) EstimateTokens(model string, width, height int) (int, error) {
	return e.EstimateTokensWithPrefix(model, width, height, e.prefixTokens)
}

// EstimateTokensWithPrefix is EstimateTokens with a per-call prefix.
func (e *Estimator) EstimateTokensWithPrefix(model string, width, height, prefixTokens int) (int, error) {
	est, err := e.estimate(model, width, height, prefixTokens)
	if err != nil {
		return 0, err
	}
	return est.TotalTokens, nil
}

// Estimate returns the full breakdown for one image using the configured prefix.
func (e *Estimator) Estimate(model string, width, height int) (*Estimate, error) {
	return e.estimate(model, width, height, e.prefixTokens)
}

// EstimateWithPrefix returns the full breakdown with a per-call prefix.
func (e *Estimator) EstimateWithPrefix(model string, width, height, prefixTokens int) (*Estimate, error) {
	return e.estimate(model, width, height, prefixTokens)
}

func (e *Estimator) estimate(model string, width, height, prefixTokens int) (*Estimate, error) {
	cfg, err := e.registry.Get(model)
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, &DimensionsError{Width: width, Height: height}
	}
	if prefixTokens < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPrefixTokens, prefixTokens)
	}

	est := &Estimate{
		Model:    model,
		Provider: cfg.Provider(),
		Family:   cfg.Family(),
		Width:    width,
		Height:   height,
	}

	switch c := cfg.(type) {
	case *registry.PatchConfig:
		patches := PatchTokens(width, height, c.MaxTokens, e.patchSize)
		est.ImageTokens = int(float64(patches) * c.Factor)
		est.PrefixTokens = prefixTokens

	case *registry.TileConfig:
		est.ImageTokens = TileTokens(width, height, c.BaseTokens, c.TokensPerTile, e.tileSize)
		est.PrefixTokens = prefixTokens

	case *registry.GeminiConfig:
		// Gemini does not bill a request prefix.
		est.ImageTokens = GeminiTokens(model, width, height)

	default:
		return nil, fmt.Errorf("model %q has unhandled configuration type %T", model, cfg)
	}

	est.TotalTokens = est.ImageTokens + est.PrefixTokens
	return est, nil
}
