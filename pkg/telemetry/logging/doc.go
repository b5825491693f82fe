// Package logging provides structured logging built on log/slog.
//
// # Overview
//
// The logging package wraps the standard log/slog package to provide:
//   - JSON, text, and console formats
//   - Context-aware logging with request and batch run IDs
//   - Redaction of signed image URLs and data URL payloads
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:         "info",
//	    Format:        "json",
//	    RedactSources: true,
//	})
//	if err != nil {
//	    return err
//	}
//
//	ctx = logging.WithRunID(ctx, runID)
//	logger.InfoContext(ctx, "batch started", "items", 12) // includes run_id
//
// Library packages take a *slog.Logger; pass logger.Slog().
//
// # Redaction
//
//   - https://user:pw@host/a.png?sig=abc becomes https://redacted@host/a.png?redacted
//   - data:image/png;base64,<payload> keeps the first 32 payload characters
package logging
