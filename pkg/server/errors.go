package server

import (
	"net/http"

	"github.com/srinathmkce/imagetoken/pkg/telemetry/logging"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	// Message is a human-readable error message.
	Message string `json:"message"`

	// Type categorizes the error.
	Type string `json:"type"`

	// RequestID matches the X-Request-ID response header.
	RequestID string `json:"request_id,omitempty"`
}

const (
	errorTypeInvalidRequest = "invalid_request_error"
	errorTypeNotFound       = "not_found"
	errorTypeBadGateway     = "bad_gateway"
	errorTypeServer         = "server_error"
)

func writeError(w http.ResponseWriter, r *http.Request, status int, errorType, message string) {
	// Recovery runs outside the request ID middleware, so fall back to the
	// header it already set.
	requestID := logging.GetRequestID(r.Context())
	if requestID == "" {
		requestID = w.Header().Get(RequestIDHeader)
	}
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{
		Message:   message,
		Type:      errorType,
		RequestID: requestID,
	}})
}
