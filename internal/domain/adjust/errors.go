package adjust

import "errors"

// Sentinel kinds for adjustment errors.
var (
	ErrDuplicateAdjustment = errors.New("duplicate adjustment name")
	ErrInvalidAdjustment   = errors.New("invalid adjustment")
)
