package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment variable override.
const EnvPrefix = "IMAGETOKEN_"

// LoadConfig loads configuration from a YAML file at the specified path.
// Fields missing from the file keep their Default values. The result is
// validated; environment variables are not consulted.
func LoadConfig(path string) (*Config, error) {
	// Read the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	// Parse YAML on top of the defaults
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	// Fill anything the file cleared
	ApplyDefaults(cfg)

	// Validate
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention IMAGETOKEN_SECTION_FIELD (e.g., IMAGETOKEN_SERVER_LISTEN_ADDRESS)
// and always take precedence over the file.
//
// The loading sequence is:
// 1. Start from Default
// 2. Load YAML from file
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// Load returns the configuration for path with environment overrides. An
// empty path means no file: defaults plus environment overrides.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadConfigWithEnvOverrides(path)
	}

	cfg := Default()
	applyEnvOverrides(cfg)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	// Estimation overrides
	envInt("ESTIMATION_PREFIX_TOKENS", &cfg.Estimation.PrefixTokens)
	envInt("ESTIMATION_PATCH_SIZE", &cfg.Estimation.PatchSize)
	envInt("ESTIMATION_TILE_SIZE", &cfg.Estimation.TileSize)
	envString("ESTIMATION_INPUT_MODALITY", &cfg.Estimation.InputModality)
	envFloat("ESTIMATION_CHARS_PER_TOKEN", &cfg.Estimation.CharsPerToken)

	// Registry overrides
	envString("REGISTRY_FILE", &cfg.Registry.File)
	envBool("REGISTRY_WATCH", &cfg.Registry.Watch)
	envDuration("REGISTRY_DEBOUNCE_INTERVAL", &cfg.Registry.DebounceInterval)
	envString("REGISTRY_REFRESH_SCHEDULE", &cfg.Registry.RefreshSchedule)

	// Cache overrides
	envBool("CACHE_ENABLED", &cfg.Cache.Enabled)
	envString("CACHE_BACKEND", &cfg.Cache.Backend)
	envString("CACHE_SQLITE_PATH", &cfg.Cache.SQLite.Path)
	envDuration("CACHE_SQLITE_BUSY_TIMEOUT", &cfg.Cache.SQLite.BusyTimeout)

	// Fetch overrides
	envDuration("FETCH_TIMEOUT", &cfg.Fetch.Timeout)
	if val := os.Getenv(EnvPrefix + "FETCH_MAX_BYTES"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Fetch.MaxBytes = i
		}
	}
	envString("FETCH_USER_AGENT", &cfg.Fetch.UserAgent)

	// Batch overrides
	envBool("BATCH_RECURSIVE", &cfg.Batch.Recursive)
	envBool("BATCH_FAIL_FAST", &cfg.Batch.FailFast)
	if val := os.Getenv(EnvPrefix + "BATCH_EXTENSIONS"); val != "" {
		var exts []string
		for _, ext := range strings.Split(val, ",") {
			if ext = strings.TrimSpace(ext); ext != "" {
				exts = append(exts, ext)
			}
		}
		cfg.Batch.Extensions = exts
	}

	// Server overrides
	envString("SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	envDuration("SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	envDuration("SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	envDuration("SERVER_IDLE_TIMEOUT", &cfg.Server.IdleTimeout)
	envDuration("SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)

	// Telemetry overrides
	envString("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	envString("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	envBool("TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	envString("TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	envBool("TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	envString("TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	envFloat("TELEMETRY_TRACING_SAMPLE_RATIO", &cfg.Telemetry.Tracing.SampleRatio)
}

func envString(key string, dst *string) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		*dst = val
	}
}

func envInt(key string, dst *int) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func envFloat(key string, dst *float64) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			*dst = f
		}
	}
}

func envBool(key string, dst *bool) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func envDuration(key string, dst *time.Duration) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}
