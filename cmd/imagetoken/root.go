package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/srinathmkce/imagetoken/pkg/cli"
	"github.com/srinathmkce/imagetoken/pkg/config"
	"github.com/srinathmkce/imagetoken/pkg/registry"
	"github.com/srinathmkce/imagetoken/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile      string
	outputFormat string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "imagetoken",
	Short: "Estimate image tokens and costs for OpenAI and Gemini vision models",
	Long: `imagetoken estimates the input tokens an image costs on OpenAI and Gemini
vision models from its dimensions alone, and prices requests with the
provider's published rates.

Images can be local files, directories, http(s) URLs or data URLs. URL
dimensions are cached so repeated estimates do not download again.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command with a context cancelled on SIGINT or SIGTERM.
func Execute() {
	ctx, stop := cli.SetupSignalHandler(context.Background())
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.ExitCode(err))
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults and IMAGETOKEN_* variables when empty)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format: text, json, csv")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}

// setup loads the configuration and installs the default logger before any
// subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	if _, err := cli.ParseOutputFormat(outputFormat); err != nil {
		return err
	}

	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("config", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	logCfg := logging.FromConfig(cfg.Telemetry.Logging, cmd.ErrOrStderr())
	if verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger.Slog())
	return nil
}

// printResult writes data in the selected output format.
func printResult(cmd *cobra.Command, data any) error {
	format, err := cli.ParseOutputFormat(outputFormat)
	if err != nil {
		return err
	}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), data)
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func defaultTableVersion() string {
	t, err := registry.DefaultTable()
	if err != nil {
		return "invalid"
	}
	return t.Version()
}
