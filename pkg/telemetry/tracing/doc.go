// Package tracing provides OpenTelemetry tracing for imagetoken.
//
// Spans cover image reads, estimates, cost calculations, batch runs and HTTP
// API requests. They are exported over OTLP gRPC when enabled:
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    endpoint: "localhost:4317"
//	    sampler: ratio
//	    sample_ratio: 0.1
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "estimate")
//	tracing.SetModelAttributes(span, "gpt-4o", "openai", "tile")
//	defer span.End()
//
// A nil or disabled Tracer creates noop spans.
package tracing
