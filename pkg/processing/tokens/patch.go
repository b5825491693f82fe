package tokens

import "github.com/srinathmkce/imagetoken/pkg/processing/geometry"

// DefaultPatchSize is the side of a square patch in pixels.
const DefaultPatchSize = 32

// PatchTokens returns the number of patchSize x patchSize patches an image
// occupies once it has been fitted into a budget of maxTokens patches.
//
// An image that already fits is counted directly. Otherwise it is shrunk to
// the budget area, each axis is floored to a whole number of patches, the
// scaled side is readjusted by that floor ratio, and the patches are counted
// again on the adjusted sides. The second floor can differ from a single
// floor by one patch per axis and must be kept.
func PatchTokens(width, height, maxTokens, patchSize int) int {
	patchesW := geometry.CeilDiv(width, patchSize)
	patchesH := geometry.CeilDiv(height, patchSize)
	if total := patchesW * patchesH; total <= maxTokens {
		return total
	}

	shrink := geometry.ShrinkFactor(maxTokens, patchSize*patchSize, width, height)
	scaledW := float64(width) * shrink
	scaledH := float64(height) * shrink

	size := float64(patchSize)
	scaledPatchesW := scaledW / size
	scaledPatchesH := scaledH / size

	fitW := scaledW * (float64(int(scaledPatchesW)) / scaledPatchesW)
	fitH := scaledH * (float64(int(scaledPatchesH)) / scaledPatchesH)

	return int(fitW/size) * int(fitH/size)
}
