package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values for configuration fields.
const (
	// Estimation defaults
	DefaultPrefixTokens  = 9
	DefaultPatchSize     = 32
	DefaultTileSize      = 512
	DefaultInputModality = "text"
	DefaultCharsPerToken = 4.0

	// Registry defaults
	DefaultRegistryWatch            = false
	DefaultRegistryDebounceInterval = 100 * time.Millisecond

	// Cache defaults
	DefaultCacheEnabled           = true
	DefaultCacheBackend           = "sqlite"
	DefaultCacheSQLiteBusyTimeout = 5 * time.Second
	DefaultCacheFileName          = "ImageTokenDimensionCache.sqlite"
	DefaultCacheDirName           = ".image_cache"

	// CacheDirEnv overrides the directory holding the SQLite cache file.
	CacheDirEnv = "IMAGE_CACHE_DIR"

	// Fetch defaults
	DefaultFetchTimeout  = 30 * time.Second
	DefaultFetchMaxBytes = int64(50 << 20) // 50MB
	DefaultUserAgent     = "imagetoken"

	// Batch defaults
	DefaultBatchRecursive = false
	DefaultBatchFailFast  = false

	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB

	// Telemetry defaults
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "text"
	DefaultMetricsEnabled     = true
	DefaultMetricsPath        = "/metrics"
	DefaultMetricsNamespace   = "imagetoken"
	DefaultMetricsSubsystem   = "estimator"
	DefaultTracingEnabled     = false
	DefaultTracingSampler     = "ratio"
	DefaultTracingSampleRatio = 0.1
	DefaultTracingInsecure    = true
	DefaultTracingTimeout     = 10 * time.Second
	DefaultTracingServiceName = "imagetoken"
)

// DefaultBatchExtensions returns the image extensions picked up from directories.
func DefaultBatchExtensions() []string {
	return []string{".jpg", ".jpeg", ".png"}
}

// DefaultTokenCountBuckets returns the default histogram buckets for image token counts.
func DefaultTokenCountBuckets() []float64 {
	return []float64{100, 250, 500, 1000, 1500, 2500, 5000, 10000, 25000}
}

// DefaultCostBuckets returns the default histogram buckets for costs in USD.
func DefaultCostBuckets() []float64 {
	return []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1, 10}
}

// DefaultCachePath returns the SQLite cache file location: the file
// ImageTokenDimensionCache.sqlite inside $IMAGE_CACHE_DIR, or inside
// ~/.image_cache when the variable is unset.
func DefaultCachePath() string {
	dir := os.Getenv(CacheDirEnv)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dir = filepath.Join(home, DefaultCacheDirName)
	}
	return filepath.Join(dir, DefaultCacheFileName)
}

// Default returns a fully populated configuration. It also sets the fields
// whose zero value is meaningful (booleans and the prefix token count),
// which ApplyDefaults leaves alone.
func Default() *Config {
	cfg := &Config{}
	cfg.Estimation.PrefixTokens = DefaultPrefixTokens
	cfg.Registry.Watch = DefaultRegistryWatch
	cfg.Cache.Enabled = DefaultCacheEnabled
	cfg.Batch.Recursive = DefaultBatchRecursive
	cfg.Batch.FailFast = DefaultBatchFailFast
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	cfg.Telemetry.Tracing.Enabled = DefaultTracingEnabled
	cfg.Telemetry.Tracing.Insecure = DefaultTracingInsecure
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every unset field whose zero value is invalid.
func ApplyDefaults(cfg *Config) {
	// Estimation defaults
	if cfg.Estimation.PatchSize == 0 {
		cfg.Estimation.PatchSize = DefaultPatchSize
	}
	if cfg.Estimation.TileSize == 0 {
		cfg.Estimation.TileSize = DefaultTileSize
	}
	if cfg.Estimation.InputModality == "" {
		cfg.Estimation.InputModality = DefaultInputModality
	}
	if cfg.Estimation.CharsPerToken == 0 {
		cfg.Estimation.CharsPerToken = DefaultCharsPerToken
	}

	// Registry defaults
	if cfg.Registry.DebounceInterval == 0 {
		cfg.Registry.DebounceInterval = DefaultRegistryDebounceInterval
	}

	// Cache defaults
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = DefaultCacheBackend
	}
	if cfg.Cache.SQLite.Path == "" {
		cfg.Cache.SQLite.Path = DefaultCachePath()
	}
	if cfg.Cache.SQLite.BusyTimeout == 0 {
		cfg.Cache.SQLite.BusyTimeout = DefaultCacheSQLiteBusyTimeout
	}

	// Fetch defaults
	if cfg.Fetch.Timeout == 0 {
		cfg.Fetch.Timeout = DefaultFetchTimeout
	}
	if cfg.Fetch.MaxBytes == 0 {
		cfg.Fetch.MaxBytes = DefaultFetchMaxBytes
	}
	if cfg.Fetch.UserAgent == "" {
		cfg.Fetch.UserAgent = DefaultUserAgent
	}

	// Batch defaults
	if len(cfg.Batch.Extensions) == 0 {
		cfg.Batch.Extensions = DefaultBatchExtensions()
	}

	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.TokenCountBuckets) == 0 {
		cfg.Telemetry.Metrics.TokenCountBuckets = DefaultTokenCountBuckets()
	}
	if len(cfg.Telemetry.Metrics.CostBuckets) == 0 {
		cfg.Telemetry.Metrics.CostBuckets = DefaultCostBuckets()
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
}
