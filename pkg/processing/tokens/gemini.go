package tokens

import (
	"math"
	"strings"

	"github.com/srinathmkce/imagetoken/pkg/processing/geometry"
)

const (
	// GeminiTokensPerTile is the charge for one Gemini image tile, and also
	// the flat per-image charge of models before 2.0.
	GeminiTokensPerTile = 258

	geminiTiledVersion   = "2.0"
	geminiSmallImageSide = 384
	geminiMinTileSide    = 256
	geminiMaxTileSide    = 768
)

// GeminiVersion returns the version segment of a Gemini model name, the
// second "-" separated field ("2.0" for "gemini-2.0-flash"). Names without
// one return "".
func GeminiVersion(model string) string {
	parts := strings.Split(model, "-")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// GeminiTokens returns the image tokens Gemini charges for a width x height
// image.
//
// Only version 2.0 tiles images. The tile side is the shorter image side
// divided by 1.5, clamped to [256, 768], and one extra global tile is always
// counted. Images no larger than 384x384 are charged a flat 258 tokens in
// addition to their tiles: the two charges are summed, not alternatives,
// which matches observed usage but is surprising. Every other version is
// charged a flat 258 tokens.
func GeminiTokens(model string, width, height int) int {
	if GeminiVersion(model) != geminiTiledVersion {
		return GeminiTokensPerTile
	}

	tokens := 0
	if width <= geminiSmallImageSide && height <= geminiSmallImageSide {
		tokens += GeminiTokensPerTile
	}

	smaller := float64(min(width, height))
	tileSide := math.Min(math.Max(smaller/1.5, geminiMinTileSide), geminiMaxTileSide)

	tiles := geometry.CeilDivFloat(float64(width), tileSide)*geometry.CeilDivFloat(float64(height), tileSide) + 1
	return tokens + tiles*GeminiTokensPerTile
}
