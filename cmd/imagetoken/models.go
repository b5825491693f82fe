package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/srinathmkce/imagetoken/pkg/registry"
)

var modelsFlags struct {
	provider string
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List supported models and prices",
	Long: `List every model in the model table with its token family and prices
(USD per million tokens). Gemini models list one row per pricing tier.

Examples:
  imagetoken models
  imagetoken models --provider google --output json`,
	RunE: runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.Flags().StringVar(&modelsFlags.provider, "provider", "", "only list models of this provider: openai, google")
}

// modelTable lists model configurations as a cli.Table and as JSON.
type modelTable struct {
	Version string                 `json:"version"`
	Models  []registry.ModelConfig `json:"models"`
}

func (t *modelTable) Header() []string {
	return []string{"MODEL", "PROVIDER", "FAMILY", "TIER", "INPUT", "OUTPUT"}
}

func (t *modelTable) Rows() [][]string {
	var rows [][]string
	for _, cfg := range t.Models {
		base := []string{cfg.ModelName(), string(cfg.Provider()), cfg.Family().String()}

		switch c := cfg.(type) {
		case *registry.PatchConfig:
			rows = append(rows, append(base, "flat", formatRate(c.Pricing.InputPerMillion), formatRate(c.Pricing.OutputPerMillion)))
		case *registry.TileConfig:
			rows = append(rows, append(base, "flat", formatRate(c.Pricing.InputPerMillion), formatRate(c.Pricing.OutputPerMillion)))
		case *registry.GeminiConfig:
			for _, tier := range c.Tiers {
				row := append(append([]string(nil), base...), tier.Label(), formatInputRate(tier.Input), formatRate(tier.OutputPerMillion))
				rows = append(rows, row)
			}
		}
	}
	return rows
}

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatInputRate renders modality rates as "audio=0.7 image=0.1 ...".
func formatInputRate(r registry.InputRate) string {
	if !r.PerModality() {
		return formatRate(r.Flat)
	}
	modalities := make([]string, 0, len(r.ByModality))
	for m := range r.ByModality {
		modalities = append(modalities, m)
	}
	sort.Strings(modalities)

	parts := make([]string, len(modalities))
	for i, m := range modalities {
		parts[i] = fmt.Sprintf("%s=%s", m, formatRate(r.ByModality[m]))
	}
	return strings.Join(parts, " ")
}

func runModels(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry(currentConfig().Registry)
	if err != nil {
		return err
	}

	table := &modelTable{Version: reg.Table().Version()}
	for _, cfg := range reg.Models() {
		if modelsFlags.provider != "" && string(cfg.Provider()) != modelsFlags.provider {
			continue
		}
		table.Models = append(table.Models, cfg)
	}
	return printResult(cmd, table)
}
