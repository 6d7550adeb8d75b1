package probe

import "errors"

var (
	// ErrUnhealthy is returned when the health check does not answer 200.
	ErrUnhealthy = errors.New("dashboard is not healthy")
	// ErrUnexpectedStatus is returned when a catalog request does not answer 200.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrInvalidConfig is returned for unusable probe settings.
	ErrInvalidConfig = errors.New("invalid probe config")
	// ErrRequestsFailed is returned when any update request failed.
	ErrRequestsFailed = errors.New("update requests failed")
	// ErrMismatches is returned when any figure disagreed with the summary.
	ErrMismatches = errors.New("figures disagree with the dataset summary")
)
