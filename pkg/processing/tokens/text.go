package tokens

import "unicode/utf8"

// DefaultCharsPerToken is the characters-per-token ratio used for prompt text.
const DefaultCharsPerToken = 4.0

// TextEstimator approximates the token count of prompt text with a fixed
// characters-per-token ratio. It is used to price a system prompt given as
// text instead of as a token count.
type TextEstimator struct {
	charsPerToken float64
}

// NewTextEstimator creates a text estimator. A non-positive ratio selects
// DefaultCharsPerToken.
func NewTextEstimator(charsPerToken float64) *TextEstimator {
	if charsPerToken <= 0 {
		charsPerToken = DefaultCharsPerToken
	}
	return &TextEstimator{charsPerToken: charsPerToken}
}

// EstimateText returns the approximate token count of text, rounded to the
// nearest integer. Non-empty text is at least one token.
func (e *TextEstimator) EstimateText(text string) int {
	chars := utf8.RuneCountInString(text)
	if chars == 0 {
		return 0
	}

	tokens := float64(chars) / e.charsPerToken
	if tokens < 1.0 {
		tokens = 1.0
	}
	return int(tokens + 0.5)
}
