package derive

import "errors"

// Sentinel kinds for derivation errors.
var (
	ErrInvalidRange = errors.New("invalid payload range")
)
