package logging

import (
	"log/slog"
	"net/url"
	"regexp"
	"strings"
)

// maxDataURLPrefix is how much of a data URL survives redaction.
const maxDataURLPrefix = 32

// Redactor removes secrets from image sources before they reach a log line.
// Signed URLs carry credentials in their query string, and data URLs can be
// megabytes of base64.
type Redactor struct {
	dataURL *regexp.Regexp
	httpURL *regexp.Regexp
}

// NewRedactor creates a Redactor.
func NewRedactor() *Redactor {
	return &Redactor{
		dataURL: regexp.MustCompile(`data:[a-zA-Z0-9.+/-]*;base64,[A-Za-z0-9+/=]+`),
		httpURL: regexp.MustCompile(`https?://[^\s"']+`),
	}
}

// Redact returns s with every URL query string, URL userinfo and data URL
// payload replaced.
func (r *Redactor) Redact(s string) string {
	if !strings.Contains(s, "://") && !strings.Contains(s, "data:") {
		return s
	}
	s = r.dataURL.ReplaceAllStringFunc(s, redactDataURL)
	return r.httpURL.ReplaceAllStringFunc(s, redactHTTPURL)
}

// ReplaceAttr is a slog.HandlerOptions.ReplaceAttr hook applying Redact to
// string values.
func (r *Redactor) ReplaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		if v := a.Value.String(); v != "" {
			a.Value = slog.StringValue(r.Redact(v))
		}
	}
	return a
}

func redactDataURL(s string) string {
	comma := strings.IndexByte(s, ',')
	header := s[:comma+1]
	payload := s[comma+1:]
	if len(payload) <= maxDataURLPrefix {
		return s
	}
	return header + payload[:maxDataURLPrefix] + "...[redacted]"
}

func redactHTTPURL(s string) string {
	u, err := url.Parse(s)
	if err != nil {
		return s
	}
	if u.User != nil {
		u.User = url.User("redacted")
	}
	if u.RawQuery != "" {
		u.RawQuery = "redacted"
	}
	return u.String()
}
