// Package telemetry groups the observability packages used by imagetoken.
//
//   - logging: structured log/slog logging with context fields and URL redaction
//   - metrics: Prometheus metrics for estimates, costs, the dimension cache,
//     model table reloads and the HTTP API
//   - tracing: OpenTelemetry spans exported over OTLP gRPC
//
// Each package takes its section of config.TelemetryConfig. Library packages
// accept a *slog.Logger, a *metrics.Collector and a *tracing.Tracer; the last
// two may be nil.
package telemetry
