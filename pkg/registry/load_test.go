package registry

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultTable(t *testing.T) {
	table, err := DefaultTable()
	if err != nil {
		t.Fatalf("DefaultTable() error: %v", err)
	}

	if table.Version() == "" {
		t.Error("default table has no version")
	}

	cfg, ok := table.Lookup("gpt-4.1-mini")
	if !ok {
		t.Fatal("gpt-4.1-mini missing from default table")
	}
	patch := cfg.(*PatchConfig)
	if patch.Factor != 1.62 || patch.MaxTokens != 1536 {
		t.Errorf("gpt-4.1-mini = %+v, want factor 1.62 and max_tokens 1536", patch)
	}
	if patch.Pricing.InputPerMillion != 0.40 || patch.Pricing.OutputPerMillion != 1.60 {
		t.Errorf("gpt-4.1-mini pricing = %+v", patch.Pricing)
	}

	cfg, ok = table.Lookup("gpt-4o-mini")
	if !ok {
		t.Fatal("gpt-4o-mini missing from default table")
	}
	tile := cfg.(*TileConfig)
	if tile.BaseTokens != 2833 || tile.TokensPerTile != 5667 {
		t.Errorf("gpt-4o-mini = %+v, want 2833/5667", tile)
	}

	cfg, ok = table.Lookup("gemini-2.5-pro")
	if !ok {
		t.Fatal("gemini-2.5-pro missing from default table")
	}
	gemini := cfg.(*GeminiConfig)
	if len(gemini.Tiers) != 2 {
		t.Fatalf("gemini-2.5-pro has %d tiers, want 2", len(gemini.Tiers))
	}
	if gemini.Tiers[0].UpToTokens != 200000 || gemini.Tiers[1].UpToTokens != Unbounded {
		t.Errorf("gemini-2.5-pro thresholds = %v, %v", gemini.Tiers[0].UpToTokens, gemini.Tiers[1].UpToTokens)
	}

	cfg, _ = table.Lookup("gemini-2.0-flash")
	rate := cfg.(*GeminiConfig).Tiers[0].Input
	if !rate.PerModality() {
		t.Fatal("gemini-2.0-flash input rate should be per modality")
	}
	if got := rate.For("audio"); got != 0.70 {
		t.Errorf("gemini-2.0-flash audio rate = %v, want 0.70", got)
	}
}

func TestDefaultTable_EveryModelRoutes(t *testing.T) {
	table, err := DefaultTable()
	if err != nil {
		t.Fatalf("DefaultTable() error: %v", err)
	}

	for _, cfg := range table.Configs() {
		provider, err := ProviderFor(cfg.ModelName())
		if err != nil {
			t.Errorf("%s: %v", cfg.ModelName(), err)
			continue
		}
		if provider != cfg.Provider() {
			t.Errorf("%s routes to %s, configured for %s", cfg.ModelName(), provider, cfg.Provider())
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		wantField string
	}{
		{
			name:      "empty table",
			yaml:      `version: "x"`,
			wantField: "models",
		},
		{
			name: "non-positive factor",
			yaml: `
openai:
  patch:
    gpt-test:
      factor: 0
      max_tokens: 1536
`,
			wantField: "gpt-test.factor",
		},
		{
			name: "zero tokens per tile",
			yaml: `
openai:
  tile:
    gpt-test:
      base_tokens: 85
      tokens_per_tile: 0
`,
			wantField: "gpt-test.tokens_per_tile",
		},
		{
			name: "missing unbounded tier",
			yaml: `
gemini:
  gemini-test:
    pricing_tiers:
      - up_to_tokens: 1000
        input_cost_per_million_tokens: 1
        output_cost_per_million_tokens: 2
`,
			wantField: "gemini-test.pricing_tiers",
		},
		{
			name: "decreasing thresholds",
			yaml: `
gemini:
  gemini-test:
    pricing_tiers:
      - up_to_tokens: 2000
        input_cost_per_million_tokens: 1
      - up_to_tokens: 1000
        input_cost_per_million_tokens: 1
      - up_to_tokens: inf
        input_cost_per_million_tokens: 1
`,
			wantField: "gemini-test.pricing_tiers[1].up_to_tokens",
		},
		{
			name: "negative modality rate",
			yaml: `
gemini:
  gemini-test:
    pricing_tiers:
      - up_to_tokens: inf
        input_cost_per_million_tokens:
          text: -1
`,
			wantField: "gemini-test.pricing_tiers[0].input_cost_per_million_tokens.text",
		},
		{
			name: "gemini model under openai",
			yaml: `
openai:
  tile:
    gemini-test:
      base_tokens: 85
      tokens_per_tile: 170
`,
			wantField: "gemini-test",
		},
		{
			name: "same name in two families",
			yaml: `
openai:
  patch:
    gpt-test:
      factor: 1
      max_tokens: 10
  tile:
    gpt-test:
      base_tokens: 85
      tokens_per_tile: 170
`,
			wantField: "gpt-test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Parse() error = %v, want ValidationError", err)
			}

			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.wantField {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("Parse() errors %v do not mention field %q", verr.Errors, tt.wantField)
			}
		})
	}
}

func TestParse_BadThreshold(t *testing.T) {
	_, err := Parse([]byte(`
gemini:
  gemini-test:
    pricing_tiers:
      - up_to_tokens: lots
`))
	if err == nil || !strings.Contains(err.Error(), "up_to_tokens") {
		t.Errorf("Parse() error = %v, want up_to_tokens parse error", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "models.yaml")
	if err := os.WriteFile(path, DefaultTableYAML(), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	def, _ := DefaultTable()
	if table.Len() != def.Len() {
		t.Errorf("LoadFile() table has %d models, want %d", table.Len(), def.Len())
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadFile() on missing file returned nil error")
	}
}

func TestInputRate_For(t *testing.T) {
	flat := FlatRate(1.25)
	if got := flat.For("audio"); got != 1.25 {
		t.Errorf("flat.For(audio) = %v, want 1.25", got)
	}

	byModality := ModalityRates(map[string]float64{"text": 0.1, "audio": 0.7})
	if got := byModality.For("audio"); got != 0.7 {
		t.Errorf("For(audio) = %v, want 0.7", got)
	}
	if got := byModality.For("video"); got != 0 {
		t.Errorf("For(video) = %v, want 0 for unmapped modality", got)
	}
}

func TestPricingTier_Label(t *testing.T) {
	if got := (PricingTier{UpToTokens: 128000}).Label(); got != "<=128000" {
		t.Errorf("Label() = %q, want <=128000", got)
	}
	if got := (PricingTier{UpToTokens: Unbounded}).Label(); got != "unbounded" {
		t.Errorf("Label() = %q, want unbounded", got)
	}
}
