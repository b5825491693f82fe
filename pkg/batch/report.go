package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/srinathmkce/imagetoken/pkg/dimensions"
	"github.com/srinathmkce/imagetoken/pkg/processing/costs"
)

// Item is the outcome for one image of a run.
type Item struct {
	// Source is the file path, URL or data URL the image was read from.
	Source string `json:"source"`

	// Kind is "file", "url" or "data_url".
	Kind string `json:"kind"`

	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	ImageTokens  int `json:"image_tokens"`
	PrefixTokens int `json:"prefix_tokens"`

	// Tokens is ImageTokens plus PrefixTokens.
	Tokens int `json:"tokens"`

	// Error is set when the image could not be read or estimated.
	Error string `json:"error,omitempty"`

	err error
}

// Err returns the error that failed the item, or nil.
func (i *Item) Err() error {
	return i.err
}

// Failed reports whether the item has no estimate.
func (i *Item) Failed() bool {
	return i.err != nil
}

func (i *Item) fail(err error) {
	i.err = err
	i.Error = err.Error()
}

// Report is the result of a batch run.
type Report struct {
	// RunID identifies the run in logs, spans and saved reports.
	RunID string `json:"run_id"`

	Model string `json:"model"`

	Items []*Item `json:"items"`

	// TotalTokens is the sum of Tokens over items that did not fail.
	TotalTokens int `json:"total_tokens"`

	// Failed counts items with an error.
	Failed int `json:"failed"`

	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
}

func (r *Report) add(item *Item) {
	r.Items = append(r.Items, item)
	if item.Failed() {
		r.Failed++
		return
	}
	r.TotalTokens += item.Tokens
}

// Results maps each successfully estimated source to its token count.
func (r *Report) Results() map[string]int {
	results := make(map[string]int, len(r.Items))
	for _, item := range r.Items {
		if !item.Failed() {
			results[item.Source] = item.Tokens
		}
	}
	return results
}

// Save writes Results to path as indented JSON.
func (r *Report) Save(path string) error {
	data, err := json.MarshalIndent(r.Results(), "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}
	return nil
}

// Header implements cli.Table.
func (r *Report) Header() []string {
	return []string{"SOURCE", "SIZE", "TOKENS", "ERROR"}
}

// Rows implements cli.Table. The last row is the run total.
func (r *Report) Rows() [][]string {
	rows := make([][]string, 0, len(r.Items)+1)
	for _, item := range r.Items {
		size, count := "-", "-"
		if !item.Failed() {
			size = fmt.Sprintf("%dx%d", item.Width, item.Height)
			count = strconv.Itoa(item.Tokens)
		}
		rows = append(rows, []string{displaySource(item.Source), size, count, item.Error})
	}
	rows = append(rows, []string{"TOTAL", "", strconv.Itoa(r.TotalTokens), failedSummary(r.Failed)})
	return rows
}

// CostReport is the result of a cost run.
type CostReport struct {
	*Report

	// SystemPromptTokens is the prompt share of the input tokens.
	SystemPromptTokens int `json:"system_prompt_tokens"`

	// Cost prices SystemPromptTokens plus the report's TotalTokens as input.
	Cost *costs.CostEstimate `json:"cost"`
}

// Header implements cli.Table.
func (r *CostReport) Header() []string {
	return []string{"MODEL", "TIER", "INPUT TOKENS", "OUTPUT TOKENS", "INPUT USD", "OUTPUT USD", "TOTAL USD"}
}

// Rows implements cli.Table.
func (r *CostReport) Rows() [][]string {
	c := r.Cost
	return [][]string{{
		c.Model,
		c.PricingTier,
		strconv.Itoa(c.InputTokens),
		strconv.Itoa(c.OutputTokens),
		formatUSD(c.InputCost),
		formatUSD(c.OutputCost),
		formatUSD(c.TotalCost),
	}}
}

func formatUSD(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func failedSummary(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d failed", n)
}

// displaySource shortens data URLs for tables.
func displaySource(s string) string {
	const maxLen = 48
	if !dimensions.IsDataURL(s) || len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
