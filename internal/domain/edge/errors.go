package edge

import "errors"

// Sentinel kinds for validation errors.
var (
	ErrMissingRequiredInput = errors.New("missing required input")
	ErrInsufficientData     = errors.New("insufficient data")
)
