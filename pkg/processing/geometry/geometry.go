// Package geometry holds the integer and floating-point helpers shared by the
// image token estimators: counting how many fixed-size units cover a side and
// computing the linear shrink needed to fit an image into a unit budget.
package geometry

import "math"

// CeilDiv returns how many units of size unit are needed to cover dimension
// pixels. Both arguments must be positive.
func CeilDiv(dimension, unit int) int {
	return (dimension + unit - 1) / unit
}

// CeilDivFloat is CeilDiv for sides that were already rescaled and may carry a
// fractional pixel size.
func CeilDivFloat(dimension, unit float64) int {
	return int(math.Ceil(dimension / unit))
}

// ShrinkFactor returns the linear scale that brings a width x height image
// down to maxUnits units of unitArea pixels each. Products are taken in
// float64 so very large images cannot overflow int.
func ShrinkFactor(maxUnits, unitArea, width, height int) float64 {
	return math.Sqrt(float64(maxUnits) * float64(unitArea) / (float64(width) * float64(height)))
}
