// Package probe drives a running dashboard with concurrent callback
// requests and checks the returned figures against the dataset summary.
package probe

import (
	"encoding/json"
	"time"

	"github.com/okian/launchdash/internal/domain/types"
)

// Config holds configuration for a probe run.
type Config struct {
	BaseURL  string        // Base URL of the dashboard
	Requests int           // Number of update requests to send
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	Seed     uint64        // Seed for request generation; 0 picks one from the clock
	Verbose  bool          // Log every failed or mismatched request
}

// Request is one callback update sent to /api/update.
type Request struct {
	Output string                     `json:"output"`
	Inputs map[string]json.RawMessage `json:"inputs"`

	site string
	low  float64
	high float64
}

// Response is the body returned by /api/update.
type Response struct {
	Output string          `json:"output"`
	Figure json.RawMessage `json:"figure"`
}

// Result is the outcome of one request.
type Result struct {
	Request  Request
	Status   int
	Latency  time.Duration
	Err      error
	Mismatch string
}

// Catalog is what the probe learns from the dashboard before sending load.
type Catalog struct {
	Sites   []types.SiteOption
	Slider  types.RangeSlider
	Summary types.Summary

	// Inputs lists the input component IDs of each output, in declared order.
	Inputs map[string][]string
}

// Stats holds run statistics.
type Stats struct {
	RequestsPlanned   int
	RequestsSent      int
	RequestsOK        int
	RequestsFailed    int
	FiguresMismatched int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
	MaxLatency        time.Duration
	TotalLatency      time.Duration
}

// AverageLatency is the mean latency over sent requests.
func (s Stats) AverageLatency() time.Duration {
	if s.RequestsSent == 0 {
		return 0
	}
	return s.TotalLatency / time.Duration(s.RequestsSent)
}
