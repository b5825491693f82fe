package main

import (
	"github.com/spf13/cobra"

	"github.com/srinathmkce/imagetoken/pkg/batch"
	"github.com/srinathmkce/imagetoken/pkg/cli"
	"github.com/srinathmkce/imagetoken/pkg/config"
)

var tokensFlags struct {
	model        string
	prefixTokens int
	saveTo       string
	recursive    bool
	failFast     bool
	progress     bool
}

var tokensCmd = &cobra.Command{
	Use:   "tokens [flags] INPUT...",
	Short: "Estimate image tokens",
	Long: `Estimate the input tokens of images for a vision model.

Each INPUT is an image file, a directory of images (.jpg, .jpeg, .png by
default), an http(s) URL or a data URL. Images that cannot be read are
reported and skipped unless --fail-fast is set.

Examples:
  # One image
  imagetoken tokens --model gpt-4.1-mini photo.png

  # A directory, recursively, saving per-image results
  imagetoken tokens --model gpt-4o --recursive --save-to tokens.json ./images

  # URLs, without the OpenAI request prefix
  imagetoken tokens --model o4-mini --prefix-tokens 0 https://example.com/a.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
	addBatchFlags(tokensCmd)
}

// addBatchFlags registers the flags shared by tokens and cost.
func addBatchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&tokensFlags.model, "model", "m", "", "model name (required)")
	cmd.Flags().IntVar(&tokensFlags.prefixTokens, "prefix-tokens", -1, "request prefix for OpenAI models (config value when negative)")
	cmd.Flags().StringVar(&tokensFlags.saveTo, "save-to", "", "write per-image token counts to this JSON file")
	cmd.Flags().BoolVarP(&tokensFlags.recursive, "recursive", "r", false, "descend into subdirectories")
	cmd.Flags().BoolVar(&tokensFlags.failFast, "fail-fast", false, "stop at the first image that cannot be read")
	cmd.Flags().BoolVar(&tokensFlags.progress, "progress", false, "show a progress bar on stderr")
	_ = cmd.MarkFlagRequired("model")
}

func runTokens(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	a, err := newApp(batchConfig())
	if err != nil {
		return err
	}
	defer a.close(ctx)

	report, err := a.runner(progressReporter(cmd)).Run(ctx, batchRequest(args))
	if err != nil {
		return cli.NewCommandError("tokens", err)
	}
	return printResult(cmd, report)
}

// batchConfig applies the batch flags to a copy of the configuration.
func batchConfig() *config.Config {
	cfg := *currentConfig()
	if tokensFlags.recursive {
		cfg.Batch.Recursive = true
	}
	if tokensFlags.failFast {
		cfg.Batch.FailFast = true
	}
	return &cfg
}

func batchRequest(args []string) batch.Request {
	req := batch.Request{
		Model:  tokensFlags.model,
		Inputs: args,
		SaveTo: tokensFlags.saveTo,
	}
	if tokensFlags.prefixTokens >= 0 {
		prefix := tokensFlags.prefixTokens
		req.PrefixTokens = &prefix
	}
	return req
}

func progressReporter(cmd *cobra.Command) cli.ProgressReporter {
	if !tokensFlags.progress {
		return cli.NopProgress{}
	}
	return cli.NewProgressReporter(cmd.ErrOrStderr())
}
