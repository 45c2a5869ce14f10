package similarity

import "errors"

// Sentinel kinds for similarity errors.
var (
	ErrKindMismatch = errors.New("profile kind mismatch")
)
