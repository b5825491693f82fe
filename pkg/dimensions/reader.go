package dimensions

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/srinathmkce/imagetoken/pkg/config"
	"github.com/srinathmkce/imagetoken/pkg/telemetry/tracing"
)

// Source kinds reported on spans.
const (
	SourceFile    = "file"
	SourceURL     = "url"
	SourceDataURL = "data_url"
	SourceBytes   = "bytes"
)

// Reader resolves image dimensions from files, bytes, data URLs and HTTP
// URLs. URL lookups go through the cache when one is configured; a failing
// cache is logged and skipped, never returned.
type Reader struct {
	client    *http.Client
	cache     Cache
	observer  CacheObserver
	logger    *slog.Logger
	tracer    *tracing.Tracer
	maxBytes  int64
	userAgent string
}

// Option configures a Reader.
type Option func(*Reader)

// WithCache sets the URL dimension cache.
func WithCache(cache Cache) Option {
	return func(r *Reader) {
		r.cache = cache
	}
}

// WithHTTPClient sets the client used for URL fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Reader) {
		r.client = client
	}
}

// WithObserver sets the cache observer.
func WithObserver(observer CacheObserver) Option {
	return func(r *Reader) {
		r.observer = observer
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) {
		r.logger = logger
	}
}

// WithTracer sets the tracer used for URL fetch spans.
func WithTracer(tracer *tracing.Tracer) Option {
	return func(r *Reader) {
		r.tracer = tracer
	}
}

// WithMaxBytes limits how much of a URL response is read.
func WithMaxBytes(n int64) Option {
	return func(r *Reader) {
		r.maxBytes = n
	}
}

// WithUserAgent sets the User-Agent header for URL fetches.
func WithUserAgent(ua string) Option {
	return func(r *Reader) {
		r.userAgent = ua
	}
}

// NewReader creates a Reader. Without options it has no cache, a 30 second
// HTTP timeout and a 50MB response limit.
func NewReader(opts ...Option) *Reader {
	r := &Reader{
		client:    &http.Client{Timeout: config.DefaultFetchTimeout},
		maxBytes:  config.DefaultFetchMaxBytes,
		userAgent: config.DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// FetchOptions converts the fetch section of the configuration into Reader
// options.
func FetchOptions(cfg config.FetchConfig) []Option {
	return []Option{
		WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		WithMaxBytes(cfg.MaxBytes),
		WithUserAgent(cfg.UserAgent),
	}
}

// Cache returns the configured cache, or nil.
func (r *Reader) Cache() Cache {
	return r.cache
}

// Read resolves source by its form: an http(s) URL, a data URL, or a file
// path (file:// URLs included).
func (r *Reader) Read(ctx context.Context, source string) (Dimensions, error) {
	switch {
	case IsURL(source):
		return r.FromURL(ctx, source)
	case IsDataURL(source):
		return r.FromDataURL(source)
	default:
		return r.FromFile(source)
	}
}

// FromFile reads the image header of a local file.
func (r *Reader) FromFile(path string) (Dimensions, error) {
	path = normalizeFilePath(path)

	f, err := os.Open(path)
	if err != nil {
		return Dimensions{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	dims, _, err := Decode(f)
	if err != nil {
		return Dimensions{}, fmt.Errorf("%s: %w", path, err)
	}
	return dims, nil
}

// FromBytes reads the image header from encoded image data.
func (r *Reader) FromBytes(data []byte) (Dimensions, error) {
	dims, _, err := DecodeBytes(data)
	return dims, err
}

// FromDataURL decodes a base64 data URL such as
// "data:image/png;base64,iVBORw0...".
func (r *Reader) FromDataURL(dataURL string) (Dimensions, error) {
	if !IsDataURL(dataURL) {
		return Dimensions{}, fmt.Errorf("%w: missing data: prefix", ErrInvalidDataURL)
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(dataURL, "data:"), ",")
	if !ok {
		return Dimensions{}, fmt.Errorf("%w: missing comma", ErrInvalidDataURL)
	}
	if !strings.HasSuffix(header, ";base64") {
		return Dimensions{}, fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURL)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Dimensions{}, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return r.FromBytes(data)
}

// FromURL returns the dimensions of the image at rawURL. A cached entry is
// returned without a request; otherwise the image is downloaded, decoded,
// and cached.
func (r *Reader) FromURL(ctx context.Context, rawURL string) (dims Dimensions, err error) {
	ctx, span := r.tracer.Start(ctx, "dimensions.from_url")
	defer func() { tracing.End(span, err) }()

	if cached, ok := r.cacheGet(ctx, rawURL); ok {
		tracing.SetCacheAttributes(span, true)
		tracing.SetImageAttributes(span, cached.Width, cached.Height, SourceURL)
		return cached, nil
	}
	tracing.SetCacheAttributes(span, false)

	start := time.Now()
	dims, err = r.fetch(ctx, rawURL)
	if err != nil {
		return Dimensions{}, err
	}
	tracing.SetImageAttributes(span, dims.Width, dims.Height, SourceURL)
	r.logger.DebugContext(ctx, "fetched image dimensions",
		"url", rawURL,
		"dimensions", dims.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	r.cachePut(ctx, rawURL, dims)
	return dims, nil
}

func (r *Reader) fetch(ctx context.Context, rawURL string) (Dimensions, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Dimensions{}, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}
	tracing.Inject(ctx, req.Header)

	resp, err := r.client.Do(req)
	if err != nil {
		return Dimensions{}, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Dimensions{}, fmt.Errorf("%w: %s returned status %d", ErrFetch, rawURL, resp.StatusCode)
	}

	// DecodeConfig stops after the header, so the body is never buffered.
	body := io.Reader(resp.Body)
	if r.maxBytes > 0 {
		body = io.LimitReader(resp.Body, r.maxBytes)
	}
	dims, _, err := Decode(body)
	if err != nil {
		return Dimensions{}, fmt.Errorf("%s: %w", rawURL, err)
	}
	return dims, nil
}

func (r *Reader) cacheGet(ctx context.Context, key string) (Dimensions, bool) {
	if r.cache == nil {
		return Dimensions{}, false
	}

	dims, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		r.cacheFailed(ctx, "get", key, err)
		return Dimensions{}, false
	}
	if r.observer != nil {
		r.observer.ObserveCacheLookup(ok)
	}
	return dims, ok
}

func (r *Reader) cachePut(ctx context.Context, key string, dims Dimensions) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Put(ctx, key, dims); err != nil {
		r.cacheFailed(ctx, "put", key, err)
	}
}

func (r *Reader) cacheFailed(ctx context.Context, op, key string, err error) {
	if r.observer != nil {
		r.observer.ObserveCacheError(op)
	}
	r.logger.WarnContext(ctx, "dimension cache operation failed",
		"op", op,
		"url", key,
		"error", err,
	)
}
