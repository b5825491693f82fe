package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "negative prefix tokens",
			mutate:    func(c *Config) { c.Estimation.PrefixTokens = -1 },
			wantField: "estimation.prefix_tokens",
		},
		{
			name:      "zero patch size",
			mutate:    func(c *Config) { c.Estimation.PatchSize = 0 },
			wantField: "estimation.patch_size",
		},
		{
			name:      "unknown modality",
			mutate:    func(c *Config) { c.Estimation.InputModality = "smell" },
			wantField: "estimation.input_modality",
		},
		{
			name:      "watch without file",
			mutate:    func(c *Config) { c.Registry.Watch = true },
			wantField: "registry.watch",
		},
		{
			name: "bad cron schedule",
			mutate: func(c *Config) {
				c.Registry.File = "models.yaml"
				c.Registry.RefreshSchedule = "every day"
			},
			wantField: "registry.refresh_schedule",
		},
		{
			name:      "unknown cache backend",
			mutate:    func(c *Config) { c.Cache.Backend = "redis" },
			wantField: "cache.backend",
		},
		{
			name:      "extension without dot",
			mutate:    func(c *Config) { c.Batch.Extensions = []string{"png"} },
			wantField: "batch.extensions[0]",
		},
		{
			name:      "listen address without port",
			mutate:    func(c *Config) { c.Server.ListenAddress = "localhost" },
			wantField: "server.listen_address",
		},
		{
			name:      "unknown log level",
			mutate:    func(c *Config) { c.Telemetry.Logging.Level = "verbose" },
			wantField: "telemetry.logging.level",
		},
		{
			name: "tracing without endpoint",
			mutate: func(c *Config) {
				c.Telemetry.Tracing.Enabled = true
			},
			wantField: "telemetry.tracing.endpoint",
		},
		{
			name:      "sample ratio above one",
			mutate:    func(c *Config) { c.Telemetry.Tracing.SampleRatio = 1.5 },
			wantField: "telemetry.tracing.sample_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}

			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error for field %q, got %v", tt.wantField, verr.Errors)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	single := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}}}
	if got := single.Error(); got != "configuration validation failed: a: bad" {
		t.Errorf("single error message = %q", got)
	}

	multi := ValidationError{Errors: []FieldError{
		{Field: "a", Message: "bad"},
		{Field: "b", Message: "worse"},
	}}
	got := multi.Error()
	if !strings.Contains(got, "2 errors") || !strings.Contains(got, "  - b: worse") {
		t.Errorf("multi error message = %q", got)
	}
}
