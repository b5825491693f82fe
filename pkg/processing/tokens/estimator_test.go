package tokens

import (
	"errors"
	"testing"

	"github.com/srinathmkce/imagetoken/pkg/registry"
)

func newTestEstimator(t *testing.T, opts ...Option) *Estimator {
	t.Helper()
	reg, err := registry.NewDefault()
	if err != nil {
		t.Fatalf("registry.NewDefault() error: %v", err)
	}
	return NewEstimator(reg, opts...)
}

func TestEstimator_EstimateTokens(t *testing.T) {
	estimator := newTestEstimator(t)

	tests := []struct {
		model  string
		width  int
		height int
		want   int
	}{
		// Patch family: int(patches * 1.62) + 9
		{"gpt-4.1-mini", 64, 64, 15},
		{"gpt-4.1-mini", 128, 256, 60},
		{"gpt-4.1-mini", 256, 128, 60},
		{"gpt-4.1-mini", 300, 500, 268},
		{"gpt-4.1-mini", 800, 200, 292},
		{"gpt-4.1-mini", 512, 512, 423},
		{"gpt-4.1-mini", 1024, 1024, 1667},
		{"gpt-4.1-nano", 1920, 1080, 3718},
		{"o4-mini", 800, 600, 826},

		// Tile family: base + tiles*per_tile + 9
		{"gpt-4o", 1024, 1024, 774},
		{"gpt-4o", 512, 512, 264},
		{"gpt-4o-mini", 1024, 1024, 2833 + 4*5667 + 9},

		// Gemini: no prefix
		{"gemini-2.0-flash", 300, 300, 1548},
		{"gemini-2.0-flash", 1920, 1080, 1806},
		{"gemini-1.5-pro", 10000, 10000, 258},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			got, err := estimator.EstimateTokens(tt.model, tt.width, tt.height)
			if err != nil {
				t.Fatalf("EstimateTokens(%q, %d, %d) error: %v", tt.model, tt.width, tt.height, err)
			}
			if got != tt.want {
				t.Errorf("EstimateTokens(%q, %d, %d) = %d, want %d", tt.model, tt.width, tt.height, got, tt.want)
			}
		})
	}
}

func TestEstimator_Prefix(t *testing.T) {
	estimator := newTestEstimator(t)

	base, err := estimator.EstimateTokensWithPrefix("gpt-4o", 1024, 1024, 0)
	if err != nil {
		t.Fatal(err)
	}
	if base != 765 {
		t.Errorf("gpt-4o with no prefix = %d, want 765", base)
	}

	withPrefix, err := estimator.EstimateTokensWithPrefix("gpt-4o", 1024, 1024, 20)
	if err != nil {
		t.Fatal(err)
	}
	if withPrefix != 785 {
		t.Errorf("gpt-4o with prefix 20 = %d, want 785", withPrefix)
	}

	// Gemini ignores the prefix entirely.
	gemini, err := estimator.EstimateTokensWithPrefix("gemini-2.0-flash", 300, 300, 50)
	if err != nil {
		t.Fatal(err)
	}
	if gemini != 1548 {
		t.Errorf("gemini-2.0-flash with prefix 50 = %d, want 1548", gemini)
	}

	custom := newTestEstimator(t, WithPrefixTokens(0))
	got, err := custom.EstimateTokens("gpt-4.1-mini", 64, 64)
	if err != nil {
		t.Fatal(err)
	}
	if got != 6 {
		t.Errorf("gpt-4.1-mini 64x64 with WithPrefixTokens(0) = %d, want 6", got)
	}

	if _, err := estimator.EstimateTokensWithPrefix("gpt-4o", 10, 10, -1); !errors.Is(err, ErrInvalidPrefixTokens) {
		t.Errorf("negative prefix error = %v, want ErrInvalidPrefixTokens", err)
	}
}

func TestEstimator_Estimate(t *testing.T) {
	estimator := newTestEstimator(t)

	est, err := estimator.Estimate("gpt-4.1-mini", 1024, 1024)
	if err != nil {
		t.Fatal(err)
	}

	if est.Family != registry.FamilyPatch {
		t.Errorf("Family = %v, want patch", est.Family)
	}
	if est.Provider != registry.ProviderOpenAI {
		t.Errorf("Provider = %v, want openai", est.Provider)
	}
	if est.ImageTokens != 1658 || est.PrefixTokens != 9 || est.TotalTokens != 1667 {
		t.Errorf("Estimate = %+v, want image 1658 prefix 9 total 1667", est)
	}

	est, err = estimator.Estimate("gemini-2.0-flash", 1024, 1024)
	if err != nil {
		t.Fatal(err)
	}
	if est.PrefixTokens != 0 || est.TotalTokens != est.ImageTokens {
		t.Errorf("Gemini estimate carries a prefix: %+v", est)
	}
}

func TestEstimator_Errors(t *testing.T) {
	estimator := newTestEstimator(t)

	tests := []struct {
		name    string
		model   string
		width   int
		height  int
		wantErr error
	}{
		{name: "unsupported model", model: "not-a-real-model", width: 100, height: 100, wantErr: registry.ErrUnsupportedModel},
		{name: "unknown openai model", model: "gpt-2", width: 100, height: 100, wantErr: registry.ErrUnknownModel},
		{name: "zero width", model: "gpt-4o", width: 0, height: 100, wantErr: ErrInvalidDimensions},
		{name: "negative height", model: "gemini-2.0-flash", width: 100, height: -5, wantErr: ErrInvalidDimensions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := estimator.EstimateTokens(tt.model, tt.width, tt.height)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("EstimateTokens() error = %v, want %v", err, tt.wantErr)
			}
			if got != 0 {
				t.Errorf("EstimateTokens() = %d on error, want 0", got)
			}
		})
	}

	_, err := estimator.EstimateTokens("gpt-4o", 0, 7)
	var dimErr *DimensionsError
	if !errors.As(err, &dimErr) || dimErr.Width != 0 || dimErr.Height != 7 {
		t.Errorf("error = %v, want *DimensionsError{0, 7}", err)
	}
}

// Swapping prices must not change token counts.
func TestEstimator_IndependentOfPricing(t *testing.T) {
	estimator := newTestEstimator(t)
	before, err := estimator.EstimateTokens("gpt-4.1-mini", 1024, 1024)
	if err != nil {
		t.Fatal(err)
	}

	table, err := registry.NewTable("repriced",
		&registry.PatchConfig{
			Name:      "gpt-4.1-mini",
			Factor:    1.62,
			MaxTokens: 1536,
			Pricing:   registry.FlatPricing{InputPerMillion: 99, OutputPerMillion: 99},
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	estimator.Registry().Swap(table)

	after, err := estimator.EstimateTokens("gpt-4.1-mini", 1024, 1024)
	if err != nil {
		t.Fatal(err)
	}
	if before != after {
		t.Errorf("tokens changed after repricing: %d -> %d", before, after)
	}
}
