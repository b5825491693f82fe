package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/srinathmkce/imagetoken/pkg/batch"
	"github.com/srinathmkce/imagetoken/pkg/cli"
)

var costFlags struct {
	systemPromptTokens int
	systemPromptFile   string
	outputTokens       int
	modality           string
}

var costCmd = &cobra.Command{
	Use:   "cost [flags] INPUT...",
	Short: "Estimate the cost of a request with images",
	Long: `Estimate the cost of a request whose input is a system prompt plus the
given images, and whose output is --output-tokens long.

The system prompt is given as a token count, as a text file (approximated at
estimation.chars_per_token characters per token), or both. Gemini rates are
tiered by total input tokens; --modality selects the input rate for models
that price modalities differently.

Examples:
  imagetoken cost --model gpt-4o --system-prompt-tokens 500 --output-tokens 300 ./receipts
  imagetoken cost --model gemini-2.5-pro --system-prompt-file prompt.txt --output-tokens 1000 scan.png
  imagetoken cost --model gemini-2.0-flash --modality image --output-tokens 200 https://example.com/a.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCost,
}

func init() {
	rootCmd.AddCommand(costCmd)
	addBatchFlags(costCmd)

	costCmd.Flags().IntVar(&costFlags.systemPromptTokens, "system-prompt-tokens", 0, "system prompt size in tokens")
	costCmd.Flags().StringVar(&costFlags.systemPromptFile, "system-prompt-file", "", "file containing the system prompt text")
	costCmd.Flags().IntVar(&costFlags.outputTokens, "output-tokens", 0, "expected output tokens")
	costCmd.Flags().StringVar(&costFlags.modality, "modality", "", "Gemini input modality: text, image, video, audio (config value when empty)")
}

func runCost(cmd *cobra.Command, args []string) error {
	var prompt string
	if costFlags.systemPromptFile != "" {
		data, err := os.ReadFile(costFlags.systemPromptFile)
		if err != nil {
			return cli.NewConfigError("system-prompt-file", fmt.Sprintf("failed to read: %v", err))
		}
		prompt = string(data)
	}

	ctx := commandContext(cmd)
	a, err := newApp(batchConfig())
	if err != nil {
		return err
	}
	defer a.close(ctx)

	report, err := a.runner(progressReporter(cmd)).Cost(ctx, batch.CostRequest{
		Request:            batchRequest(args),
		SystemPromptTokens: costFlags.systemPromptTokens,
		SystemPrompt:       prompt,
		OutputTokens:       costFlags.outputTokens,
		Modality:           costFlags.modality,
	})
	if err != nil {
		return cli.NewCommandError("cost", err)
	}
	return printResult(cmd, report)
}
