package schema

import "errors"

// Sentinel kinds for schema errors.
var (
	ErrUnknownKind = errors.New("unknown entity kind")
)
