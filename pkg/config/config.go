package config

import "time"

// Config is the root configuration structure for imagetoken.
// It contains the estimation defaults, the model table source, the image
// dimension cache, URL fetching, batch runs, the HTTP server and telemetry.
type Config struct {
	// Estimation contains the defaults applied to every token estimate.
	Estimation EstimationConfig `yaml:"estimation"`

	// Registry contains the model table source and its reload settings.
	Registry RegistryConfig `yaml:"registry"`

	// Cache contains the URL dimension cache configuration.
	Cache CacheConfig `yaml:"cache"`

	// Fetch contains HTTP settings for reading images from URLs.
	Fetch FetchConfig `yaml:"fetch"`

	// Batch contains defaults for file, directory and URL list runs.
	Batch BatchConfig `yaml:"batch"`

	// Server contains the HTTP API server configuration.
	Server ServerConfig `yaml:"server"`

	// Telemetry contains configuration for logging, metrics and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// EstimationConfig contains token estimation defaults.
type EstimationConfig struct {
	// PrefixTokens is added to every OpenAI image estimate to account for
	// request formatting. Zero is allowed.
	// Default: 9
	PrefixTokens int `yaml:"prefix_tokens"`

	// PatchSize is the patch side in pixels for patch-family models.
	// Default: 32
	PatchSize int `yaml:"patch_size"`

	// TileSize is the tile side in pixels for tile-family models.
	// Default: 512
	TileSize int `yaml:"tile_size"`

	// InputModality is the modality priced for Gemini models when a request
	// does not name one.
	// Options: "text", "image", "video", "audio"
	// Default: "text"
	InputModality string `yaml:"input_modality"`

	// CharsPerToken converts system prompt text into tokens.
	// Default: 4.0
	CharsPerToken float64 `yaml:"chars_per_token"`
}

// RegistryConfig contains the model table source configuration.
type RegistryConfig struct {
	// File is a YAML model table replacing the compiled-in one.
	// Empty uses the compiled-in table.
	File string `yaml:"file"`

	// Watch reloads File whenever it changes on disk.
	// Default: false
	Watch bool `yaml:"watch"`

	// DebounceInterval is the quiet period after a change before reloading.
	// Default: 100ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`

	// RefreshSchedule is a cron expression for periodic reloads of File.
	// Empty disables scheduled reloads.
	RefreshSchedule string `yaml:"refresh_schedule"`
}

// CacheConfig contains the URL dimension cache configuration.
type CacheConfig struct {
	// Enabled controls whether URL dimensions are cached.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Backend is the cache store.
	// Options: "sqlite", "memory"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite backend settings.
	SQLite SQLiteCacheConfig `yaml:"sqlite"`
}

// SQLiteCacheConfig contains SQLite cache settings.
type SQLiteCacheConfig struct {
	// Path is the database file.
	// Default: $IMAGE_CACHE_DIR/ImageTokenDimensionCache.sqlite, with
	// IMAGE_CACHE_DIR defaulting to ~/.image_cache
	Path string `yaml:"path"`

	// BusyTimeout is how long a write waits for a lock held by another process.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// FetchConfig contains settings for downloading images.
type FetchConfig struct {
	// Timeout bounds a single image download.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// MaxBytes caps the bytes read from one image response.
	// Default: 52428800 (50MB)
	MaxBytes int64 `yaml:"max_bytes"`

	// UserAgent is sent with every request.
	// Default: "imagetoken/<version>"
	UserAgent string `yaml:"user_agent"`
}

// BatchConfig contains defaults for batch runs.
type BatchConfig struct {
	// Recursive descends into subdirectories of directory inputs.
	// Default: false
	Recursive bool `yaml:"recursive"`

	// Extensions lists the image file extensions picked up from directories.
	// Matching is case-insensitive.
	// Default: [".jpg", ".jpeg", ".png"]
	Extensions []string `yaml:"extensions"`

	// FailFast stops a run at the first input that cannot be read.
	// Default: false
	FailFast bool `yaml:"fail_fast"`
}

// ServerConfig contains configuration for the HTTP API server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. Requests that download an image count against it.
	// Default: 60s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next keep-alive request.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header size.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "imagetoken"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "estimator"
	Subsystem string `yaml:"subsystem"`

	// TokenCountBuckets defines histogram buckets for image token counts.
	// Default: [100, 250, 500, 1000, 1500, 2500, 5000, 10000, 25000]
	TokenCountBuckets []float64 `yaml:"token_count_buckets"`

	// CostBuckets defines histogram buckets for estimated costs in USD.
	// Default: [0.00001, 0.0001, 0.001, 0.01, 0.1, 1, 10]
	CostBuckets []float64 `yaml:"cost_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 0.1
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint, e.g. "localhost:4317".
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS for the collector connection.
	// Default: true
	Insecure bool `yaml:"insecure"`

	// Timeout is the timeout for span exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// ServiceName is the service name in traces.
	// Default: "imagetoken"
	ServiceName string `yaml:"service_name"`
}
