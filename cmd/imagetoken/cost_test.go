package main

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/srinathmkce/imagetoken/pkg/cli"
)

func TestRunCost_JSON(t *testing.T) {
	useConfig(t, testConfig())
	img := writePNG(t, t.TempDir(), "a.png", 512, 512)

	tokensFlags.model = "gpt-4o"
	tokensFlags.prefixTokens = -1
	costFlags.systemPromptTokens = 736
	costFlags.outputTokens = 1000
	outputFormat = "json"

	cmd, out := newTestCommand()
	if err := runCost(cmd, []string{img}); err != nil {
		t.Fatalf("runCost() error = %v", err)
	}

	var got struct {
		TotalTokens        int `json:"total_tokens"`
		SystemPromptTokens int `json:"system_prompt_tokens"`
		Cost               struct {
			InputTokens int     `json:"input_tokens"`
			TotalCost   float64 `json:"total_cost"`
		} `json:"cost"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if got.TotalTokens != 264 || got.SystemPromptTokens != 736 {
		t.Errorf("tokens = %d image, %d prompt, want 264 and 736", got.TotalTokens, got.SystemPromptTokens)
	}
	if got.Cost.InputTokens != 1000 {
		t.Errorf("InputTokens = %d, want 1000", got.Cost.InputTokens)
	}
	if math.Abs(got.Cost.TotalCost-0.0125) > 1e-9 {
		t.Errorf("TotalCost = %v, want 0.0125", got.Cost.TotalCost)
	}
}

func TestRunCost_SystemPromptFile(t *testing.T) {
	useConfig(t, testConfig())
	dir := t.TempDir()
	img := writePNG(t, dir, "a.png", 512, 512)
	prompt := filepath.Join(dir, "prompt.txt")
	if err := os.WriteFile(prompt, []byte(strings.Repeat("abcd", 100)), 0o644); err != nil {
		t.Fatalf("failed to write prompt: %v", err)
	}

	tokensFlags.model = "gpt-4o"
	tokensFlags.prefixTokens = -1
	costFlags.systemPromptFile = prompt
	outputFormat = "text"

	cmd, out := newTestCommand()
	if err := runCost(cmd, []string{img}); err != nil {
		t.Fatalf("runCost() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header and one row:\n%s", len(lines), out.String())
	}
	fields := strings.Fields(lines[1])
	if fields[0] != "gpt-4o" || fields[1] != "flat" {
		t.Errorf("row = %q, want gpt-4o flat", lines[1])
	}
	if fields[2] != "364" {
		t.Errorf("input tokens = %s, want 364 (264 image + 100 prompt)", fields[2])
	}
}

func TestRunCost_MissingPromptFile(t *testing.T) {
	useConfig(t, testConfig())
	tokensFlags.model = "gpt-4o"
	costFlags.systemPromptFile = filepath.Join(t.TempDir(), "missing.txt")

	cmd, _ := newTestCommand()
	err := runCost(cmd, []string{"a.png"})
	if cli.ExitCode(err) != cli.ExitUsage {
		t.Errorf("ExitCode(%v) = %d, want %d", err, cli.ExitCode(err), cli.ExitUsage)
	}
}
