package geometry

import (
	"math"
	"testing"
)

func TestCeilDiv(t *testing.T) {
	tests := []struct {
		dimension int
		unit      int
		want      int
	}{
		{1, 32, 1},
		{32, 32, 1},
		{33, 32, 2},
		{64, 32, 2},
		{512, 512, 1},
		{513, 512, 2},
		{2048, 512, 4},
	}

	for _, tt := range tests {
		if got := CeilDiv(tt.dimension, tt.unit); got != tt.want {
			t.Errorf("CeilDiv(%d, %d) = %d, want %d", tt.dimension, tt.unit, got, tt.want)
		}
	}
}

func TestCeilDivFloat(t *testing.T) {
	tests := []struct {
		dimension float64
		unit      float64
		want      int
	}{
		{768, 512, 2},
		{1365.3333333333335, 512, 3},
		{512, 512, 1},
		{300, 256, 2},
		{0.5, 256, 1},
	}

	for _, tt := range tests {
		if got := CeilDivFloat(tt.dimension, tt.unit); got != tt.want {
			t.Errorf("CeilDivFloat(%v, %v) = %d, want %d", tt.dimension, tt.unit, got, tt.want)
		}
	}
}

func TestShrinkFactor(t *testing.T) {
	// 1536 patches of 32x32 over a 1600x1600 image.
	got := ShrinkFactor(1536, 32*32, 1600, 1600)
	want := math.Sqrt(1536.0 * 1024.0 / (1600.0 * 1600.0))
	if got != want {
		t.Errorf("ShrinkFactor = %v, want %v", got, want)
	}

	// An image that already fits exactly has no shrink.
	if got := ShrinkFactor(4, 100, 20, 20); got != 1 {
		t.Errorf("ShrinkFactor for exact fit = %v, want 1", got)
	}
}

func TestShrinkFactor_HugeDimensions(t *testing.T) {
	// width*height overflows int64 for these sides.
	const side = 1 << 40
	got := ShrinkFactor(1536, 32*32, side, side)
	want := math.Sqrt(1536.0 * 1024.0 / (float64(side) * float64(side)))
	if math.IsNaN(got) || math.IsInf(got, 0) || got <= 0 {
		t.Fatalf("ShrinkFactor = %v, want a small positive factor", got)
	}
	if got != want {
		t.Errorf("ShrinkFactor = %v, want %v", got, want)
	}
}
