package main

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/srinathmkce/imagetoken/pkg/cli"
	"github.com/srinathmkce/imagetoken/pkg/config"
	"github.com/srinathmkce/imagetoken/pkg/registry"
)

var validateFlags struct {
	tableFile string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and model table",
	Long: `Validate a configuration file and the model table it points at.

This command checks:
  - The configuration file parses and every field is in range
  - The model table (registry.file, or --table) loads and every model is
    complete
  - The refresh schedule is a valid five-field cron expression

Examples:
  # Validate the defaults and IMAGETOKEN_* variables
  imagetoken validate

  # Validate a config file
  imagetoken validate --config /etc/imagetoken/config.yaml

  # Validate a model table before deploying it
  imagetoken validate --table models.yaml`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFlags.tableFile, "table", "", "model table file to validate (overrides registry.file)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintln(out, "✗ Configuration invalid")
		return cli.NewConfigError("config", err.Error())
	}
	if cfgFile != "" {
		fmt.Fprintf(out, "✓ Configuration %s valid\n", cfgFile)
	} else {
		fmt.Fprintln(out, "✓ Configuration valid (defaults)")
	}

	tableFile := cfg.Registry.File
	if validateFlags.tableFile != "" {
		tableFile = validateFlags.tableFile
	}

	var table *registry.Table
	if tableFile != "" {
		table, err = registry.LoadFile(tableFile)
	} else {
		table, err = registry.DefaultTable()
	}
	if err != nil {
		fmt.Fprintln(out, "✗ Model table invalid")
		return cli.NewConfigError("registry.file", err.Error())
	}
	fmt.Fprintf(out, "✓ Model table %s valid (%d models)\n", table.Version(), table.Len())

	if schedule := cfg.Registry.RefreshSchedule; schedule != "" {
		sched, err := cron.ParseStandard(schedule)
		if err != nil {
			fmt.Fprintln(out, "✗ Refresh schedule invalid")
			return cli.NewConfigError("registry.refresh_schedule", err.Error())
		}
		next := sched.Next(time.Now())
		fmt.Fprintf(out, "✓ Refresh schedule %q valid (next run %s)\n", schedule, next.Format("2006-01-02 15:04 MST"))
	}

	return nil
}
