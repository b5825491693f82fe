package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/srinathmkce/imagetoken/pkg/config"
	"github.com/srinathmkce/imagetoken/pkg/dimensions"
	"github.com/srinathmkce/imagetoken/pkg/processing/costs"
	"github.com/srinathmkce/imagetoken/pkg/processing/tokens"
	"github.com/srinathmkce/imagetoken/pkg/telemetry/metrics"
	"github.com/srinathmkce/imagetoken/pkg/telemetry/tracing"
)

// Server serves token and cost estimates over HTTP.
type Server struct {
	config *config.ServerConfig

	estimator  *tokens.Estimator
	calculator *costs.Calculator
	reader     *dimensions.Reader
	modality   string

	logger      *slog.Logger
	metrics     *metrics.Collector
	metricsPath string
	tracer      *tracing.Tracer

	httpServer   *http.Server
	listener     net.Listener
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// Option configures a Server.
type Option func(*Server)

// WithCalculator sets the cost calculator. The default prices with the
// estimator's registry.
func WithCalculator(c *costs.Calculator) Option {
	return func(s *Server) {
		s.calculator = c
	}
}

// WithReader sets the dimension reader used for URL requests.
func WithReader(r *dimensions.Reader) Option {
	return func(s *Server) {
		s.reader = r
	}
}

// WithModality sets the Gemini input modality used when a cost request has none.
func WithModality(modality string) Option {
	return func(s *Server) {
		s.modality = modality
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics sets the collector and serves it on path.
func WithMetrics(m *metrics.Collector, path string) Option {
	return func(s *Server) {
		s.metrics = m
		s.metricsPath = path
	}
}

// WithTracer sets the tracer.
func WithTracer(t *tracing.Tracer) Option {
	return func(s *Server) {
		s.tracer = t
	}
}

// NewServer creates a server. It does not listen until Start is called.
func NewServer(cfg *config.ServerConfig, estimator *tokens.Estimator, opts ...Option) *Server {
	s := &Server{
		config:    cfg,
		estimator: estimator,
		modality:  costs.DefaultModality,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.calculator == nil {
		s.calculator = costs.NewCalculator(estimator.Registry())
	}
	if s.reader == nil {
		s.reader = dimensions.NewReader()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Start listens on the configured address and blocks until ctx is cancelled
// or the server fails. Cancelling ctx shuts the server down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	listener, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:        s.Handler(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "address", listener.Addr().String())

		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	}
}

// Shutdown gracefully shuts down the server, waiting at most the configured
// shutdown timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("server stopped")
	})

	return shutdownErr
}

// Addr returns the address the server listens on, or "" before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /v1/tokens", s.instrument("/v1/tokens", http.HandlerFunc(s.handleTokens)))
	mux.Handle("POST /v1/cost", s.instrument("/v1/cost", http.HandlerFunc(s.handleCost)))
	mux.Handle("GET /v1/models", s.instrument("/v1/models", http.HandlerFunc(s.handleModels)))
	mux.Handle("GET /healthz", http.HandlerFunc(s.handleHealth))
	if s.metrics != nil && s.metricsPath != "" {
		mux.Handle("GET "+s.metricsPath, s.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = tracing.HTTPMiddleware(handler)
	handler = requestIDMiddleware(handler)
	handler = s.loggingMiddleware(handler)
	handler = s.recoveryMiddleware(handler)
	return handler
}
