package render

import "errors"

// Sentinel kinds for render errors.
var (
	ErrUnsupportedFigure = errors.New("unsupported figure")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrRender            = errors.New("chart render failed")
)
