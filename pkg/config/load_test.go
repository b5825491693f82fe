package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "imagetoken.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
estimation:
  prefix_tokens: 12
  input_modality: "image"

registry:
  file: "./models.yaml"
  watch: true
  refresh_schedule: "0 */6 * * *"

cache:
  backend: "memory"

batch:
  recursive: true
  extensions: [".png", ".webp"]

server:
  listen_address: "0.0.0.0:9000"
  read_timeout: "10s"

telemetry:
  logging:
    level: "debug"
    format: "json"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Estimation.PrefixTokens != 12 {
		t.Errorf("expected prefix tokens 12, got %d", cfg.Estimation.PrefixTokens)
	}
	if cfg.Estimation.InputModality != "image" {
		t.Errorf("expected input modality image, got %q", cfg.Estimation.InputModality)
	}
	if cfg.Registry.File != "./models.yaml" || !cfg.Registry.Watch {
		t.Errorf("unexpected registry config: %+v", cfg.Registry)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("expected memory cache backend, got %q", cfg.Cache.Backend)
	}
	if !cfg.Cache.Enabled {
		t.Error("expected cache to stay enabled when the file does not mention it")
	}
	if !cfg.Batch.Recursive {
		t.Error("expected recursive batch")
	}
	if len(cfg.Batch.Extensions) != 2 || cfg.Batch.Extensions[1] != ".webp" {
		t.Errorf("expected extensions from file, got %v", cfg.Batch.Extensions)
	}
	if cfg.Server.ListenAddress != "0.0.0.0:9000" {
		t.Errorf("expected listen address 0.0.0.0:9000, got %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("expected read timeout 10s, got %v", cfg.Server.ReadTimeout)
	}
	// Defaults are still applied to sections the file leaves out.
	if cfg.Estimation.PatchSize != DefaultPatchSize {
		t.Errorf("expected default patch size, got %d", cfg.Estimation.PatchSize)
	}
	if cfg.Server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("expected default write timeout, got %v", cfg.Server.WriteTimeout)
	}
}

func TestLoadConfig_ExplicitZeroValuesKept(t *testing.T) {
	path := writeConfig(t, `
estimation:
  prefix_tokens: 0
cache:
  enabled: false
telemetry:
  metrics:
    enabled: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Estimation.PrefixTokens != 0 {
		t.Errorf("expected prefix tokens 0, got %d", cfg.Estimation.PrefixTokens)
	}
	if cfg.Cache.Enabled {
		t.Error("expected cache disabled")
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics disabled")
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		if err == nil || !strings.Contains(err.Error(), "failed to read") {
			t.Errorf("expected read error, got %v", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "estimation: [unclosed"))
		if err == nil || !strings.Contains(err.Error(), "failed to parse") {
			t.Errorf("expected parse error, got %v", err)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, `
cache:
  backend: "redis"
`))
		var verr ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: "127.0.0.1:8080"
telemetry:
  logging:
    level: "info"
`)

	t.Setenv("IMAGETOKEN_SERVER_LISTEN_ADDRESS", "0.0.0.0:9090")
	t.Setenv("IMAGETOKEN_TELEMETRY_LOGGING_LEVEL", "debug")
	t.Setenv("IMAGETOKEN_ESTIMATION_PREFIX_TOKENS", "0")
	t.Setenv("IMAGETOKEN_CACHE_ENABLED", "false")
	t.Setenv("IMAGETOKEN_FETCH_TIMEOUT", "5s")
	t.Setenv("IMAGETOKEN_BATCH_EXTENSIONS", ".jpg, .gif")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("expected listen address from env, got %q", cfg.Server.ListenAddress)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected logging level from env, got %q", cfg.Telemetry.Logging.Level)
	}
	if cfg.Estimation.PrefixTokens != 0 {
		t.Errorf("expected prefix tokens 0 from env, got %d", cfg.Estimation.PrefixTokens)
	}
	if cfg.Cache.Enabled {
		t.Error("expected cache disabled from env")
	}
	if cfg.Fetch.Timeout != 5*time.Second {
		t.Errorf("expected fetch timeout 5s, got %v", cfg.Fetch.Timeout)
	}
	if len(cfg.Batch.Extensions) != 2 || cfg.Batch.Extensions[1] != ".gif" {
		t.Errorf("expected extensions from env, got %v", cfg.Batch.Extensions)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidOverride(t *testing.T) {
	path := writeConfig(t, "{}")
	t.Setenv("IMAGETOKEN_TELEMETRY_LOGGING_LEVEL", "loud")

	_, err := LoadConfigWithEnvOverrides(path)
	if err == nil || !strings.Contains(err.Error(), "after environment overrides") {
		t.Errorf("expected validation error after overrides, got %v", err)
	}
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv("IMAGETOKEN_REGISTRY_FILE", "/etc/imagetoken/models.yaml")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.Registry.File != "/etc/imagetoken/models.yaml" {
		t.Errorf("expected registry file from env, got %q", cfg.Registry.File)
	}
	if cfg.Estimation.PrefixTokens != DefaultPrefixTokens {
		t.Errorf("expected default prefix tokens, got %d", cfg.Estimation.PrefixTokens)
	}
}
