package batch

import (
	"errors"

	"github.com/srinathmkce/imagetoken/pkg/dimensions"
	"github.com/srinathmkce/imagetoken/pkg/processing/costs"
	"github.com/srinathmkce/imagetoken/pkg/processing/tokens"
	"github.com/srinathmkce/imagetoken/pkg/registry"
)

var (
	// ErrInvalidInput is returned when an input is neither an existing file
	// or directory nor an http(s) or data URL, or when a request has no
	// inputs at all.
	ErrInvalidInput = errors.New("invalid input path or URL")

	// ErrInvalidRequest is returned for negative token counts in a request.
	ErrInvalidRequest = errors.New("invalid request")
)

// ErrorReason classifies an estimation failure for metrics labels.
func ErrorReason(err error) string {
	switch {
	case errors.Is(err, registry.ErrUnknownModel):
		return "unknown_model"
	case errors.Is(err, registry.ErrUnsupportedModel):
		return "unsupported_model"
	case errors.Is(err, tokens.ErrInvalidDimensions):
		return "invalid_dimensions"
	case errors.Is(err, tokens.ErrInvalidPrefixTokens), errors.Is(err, costs.ErrInvalidTokenCount):
		return "invalid_request"
	case errors.Is(err, dimensions.ErrUnsupportedExtension):
		return "unsupported_extension"
	case errors.Is(err, dimensions.ErrFetch):
		return "fetch"
	case errors.Is(err, dimensions.ErrDecode), errors.Is(err, dimensions.ErrInvalidDataURL):
		return "decode"
	default:
		return "read"
	}
}
