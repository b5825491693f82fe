package tokens

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimensions is returned when an image width or height is not positive.
	ErrInvalidDimensions = errors.New("invalid image dimensions")

	// ErrInvalidPrefixTokens is returned when a negative prefix token count is requested.
	ErrInvalidPrefixTokens = errors.New("prefix tokens must not be negative")
)

// DimensionsError reports the rejected dimensions.
type DimensionsError struct {
	Width  int
	Height int
}

// Error implements the error interface.
func (e *DimensionsError) Error() string {
	return fmt.Sprintf("invalid image dimensions %dx%d: width and height must be positive", e.Width, e.Height)
}

// Is implements error matching for errors.Is().
func (e *DimensionsError) Is(target error) bool {
	return target == ErrInvalidDimensions
}
