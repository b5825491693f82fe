package tokens

import (
	"math"

	"github.com/srinathmkce/imagetoken/pkg/processing/geometry"
)

const (
	// DefaultTileSize is the side of a square tile in pixels.
	DefaultTileSize = 512

	// maxSide is the bounding box an image is first fitted into.
	maxSide = 2048

	// maxShortSide caps the shorter side after the bounding-box fit.
	maxShortSide = 768
)

// TileTokens returns baseTokens plus tokensPerTile for every tile covering
// the image after it is fitted into 2048x2048 and its shorter side is
// reduced to 768. Images already inside both limits are tiled as-is.
func TileTokens(width, height, baseTokens, tokensPerTile, tileSize int) int {
	w, h := float64(width), float64(height)

	if width > maxSide || height > maxSide {
		scale := maxSide / math.Max(w, h)
		w *= scale
		h *= scale
	}

	if shortest := math.Min(w, h); shortest > maxShortSide {
		scale := maxShortSide / shortest
		w *= scale
		h *= scale
	}

	size := float64(tileSize)
	tiles := geometry.CeilDivFloat(w, size) * geometry.CeilDivFloat(h, size)
	return baseTokens + tiles*tokensPerTile
}
