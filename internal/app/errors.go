package service

import (
	"errors"
)

// Sentinel errors for this package. Callers match them with errors.Is.
var (
	ErrNotStarted      = errors.New("service not started")
	ErrEnqueueRejected = errors.New("build queue rejected request")
)
