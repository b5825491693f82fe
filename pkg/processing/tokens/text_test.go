package tokens

import (
	"strings"
	"testing"
)

func TestTextEstimator_EstimateText(t *testing.T) {
	estimator := NewTextEstimator(0)

	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "one char", text: "a", want: 1},
		{name: "short", text: "Describe this image.", want: 5},
		{name: "rounds up at half", text: strings.Repeat("x", 10), want: 3},
		{name: "counts runes", text: "ééééé", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := estimator.EstimateText(tt.text); got != tt.want {
				t.Errorf("EstimateText(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestTextEstimator_CustomRatio(t *testing.T) {
	estimator := NewTextEstimator(2)
	if got := estimator.EstimateText(strings.Repeat("x", 100)); got != 50 {
		t.Errorf("EstimateText() = %d, want 50", got)
	}
}
