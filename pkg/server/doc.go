// Package server exposes the estimator and the cost calculator over HTTP.
//
// # Endpoints
//
//	POST /v1/tokens  {"model": "gpt-4o", "width": 1024, "height": 768}
//	                 {"model": "gpt-4o", "url": "https://example.com/cat.png"}
//	POST /v1/cost    {"model": "gemini-2.5-pro", "input_tokens": 250000, "output_tokens": 1000}
//	GET  /v1/models
//	GET  /healthz
//	GET  /metrics    (when a metrics collector is configured)
//
// Errors are returned as {"error": {"message": "...", "type": "..."}}. An
// unknown or unsupported model is 404, bad input is 400 and an image URL that
// cannot be downloaded is 502.
//
// Every response carries an X-Request-ID header, echoed from the request when
// the client sends one. No model provider is ever called.
//
// # Middleware
//
// Requests pass through, outermost first: panic recovery, request logging,
// request IDs and trace context extraction. Each API route additionally gets
// a span and request metrics.
//
// # Lifecycle
//
//	srv := server.NewServer(&cfg.Server, estimator,
//		server.WithReader(reader),
//		server.WithMetrics(collector, cfg.Telemetry.Metrics.Path),
//	)
//	if err := srv.Start(ctx); err != nil {
//		return err
//	}
//
// Start blocks until ctx is cancelled and then shuts down gracefully.
package server
