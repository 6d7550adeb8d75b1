package shell

import "errors"

// Sentinel kinds for wiring and dispatch errors.
var (
	ErrDuplicateOutput = errors.New("output already bound")
	ErrUnknownOutput   = errors.New("unknown output")
	ErrMissingInput    = errors.New("missing input value")
	ErrInvalidInput    = errors.New("invalid input value")
	ErrNoInputs        = errors.New("callback has no inputs")
)
