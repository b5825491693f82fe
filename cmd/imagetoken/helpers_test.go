package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/srinathmkce/imagetoken/pkg/config"
)

// useConfig installs cfg as the global configuration for the test and
// restores global flag state afterwards.
func useConfig(t *testing.T, cfg *config.Config) {
	t.Helper()

	prevConfig := config.GetConfig()
	prevOutput := outputFormat
	prevTokens := tokensFlags
	prevCost := costFlags
	prevModels := modelsFlags
	prevValidate := validateFlags

	config.SetConfig(cfg)
	t.Cleanup(func() {
		config.SetConfig(prevConfig)
		outputFormat = prevOutput
		tokensFlags = prevTokens
		costFlags = prevCost
		modelsFlags = prevModels
		validateFlags = prevValidate
	})
}

// testConfig returns defaults without the on-disk cache or metrics.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Cache.Enabled = false
	cfg.Telemetry.Metrics.Enabled = false
	return cfg
}

// newTestCommand returns a command whose output is captured in the buffer.
func newTestCommand() (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	return cmd, &out
}

func writePNG(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
