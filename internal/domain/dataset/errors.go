package dataset

import "errors"

// Sentinel kinds for dataset load failures. All of them are fatal at startup.
var (
	ErrOpen          = errors.New("dataset open failed")
	ErrMissingColumn = errors.New("dataset missing required column")
	ErrMalformedRow  = errors.New("dataset malformed row")
	ErrEmptyDataset  = errors.New("dataset has no rows")
)
