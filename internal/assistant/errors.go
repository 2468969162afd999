package assistant

import "errors"

var (
	ErrEmptyPrompt     = errors.New("prompt is required")
	ErrEmptyCompletion = errors.New("model returned no choices")
)
