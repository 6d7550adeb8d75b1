package probe

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/okian/launchdash/pkg/logger"
)

// Run executes a complete probe: health check, catalog discovery, load,
// and verification. Stats are returned even when the run fails.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	if err := validate(config); err != nil {
		return stats, err
	}
	log := logger.Get().Named("probe")

	log.Info(ctx, "starting dashboard probe",
		logger.String("baseURL", config.BaseURL),
		logger.Int("requests", config.Requests),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Bool("verbose", config.Verbose))

	client := newHTTPClient(config.BaseURL, config.Timeout)

	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	cat, err := loadCatalog(ctx, client)
	if err != nil {
		return stats, fmt.Errorf("catalog discovery failed: %w", err)
	}

	requests := generateRequests(ctx, config, cat, stats)
	submitRequests(ctx, config, client, cat, requests, stats)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	if stats.RequestsFailed > 0 {
		return stats, fmt.Errorf("%w: %d of %d", ErrRequestsFailed, stats.RequestsFailed, stats.RequestsSent)
	}
	if stats.FiguresMismatched > 0 {
		return stats, fmt.Errorf("%w: %d of %d", ErrMismatches, stats.FiguresMismatched, stats.RequestsSent)
	}
	log.Info(ctx, "probe completed successfully")
	return stats, nil
}

func validate(config *Config) error {
	switch {
	case config == nil:
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	case strings.TrimSpace(config.BaseURL) == "":
		return fmt.Errorf("%w: base URL must not be empty", ErrInvalidConfig)
	case config.Requests <= 0:
		return fmt.Errorf("%w: requests must be positive, got %d", ErrInvalidConfig, config.Requests)
	case config.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, config.Workers)
	case config.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// checkServiceHealth verifies the dashboard is serving.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	resp, err := client.Get(ctx, healthPath)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return err
	}
	// The health route answers with the Prometheus exposition.
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

type dependency struct {
	Output string   `json:"output"`
	Inputs []string `json:"inputs"`
}

// loadCatalog reads the selector options, the slider, the summary and the
// callback wiring.
func loadCatalog(ctx context.Context, client *HTTPClient) (*Catalog, error) {
	cat := &Catalog{Inputs: make(map[string][]string)}
	if err := client.getJSON(ctx, optionsPath, &cat.Sites); err != nil {
		return nil, err
	}
	if err := client.getJSON(ctx, sliderPath, &cat.Slider); err != nil {
		return nil, err
	}
	if err := client.getJSON(ctx, summaryPath, &cat.Summary); err != nil {
		return nil, err
	}
	var deps []dependency
	if err := client.getJSON(ctx, dependenciesPath, &deps); err != nil {
		return nil, err
	}
	for _, d := range deps {
		output, _, _ := strings.Cut(d.Output, ".")
		ids := make([]string, 0, len(d.Inputs))
		for _, in := range d.Inputs {
			id, _, _ := strings.Cut(in, ".")
			ids = append(ids, id)
		}
		cat.Inputs[output] = ids
	}
	return cat, nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, requestsPerSecond float64
	if stats.RequestsSent > 0 {
		successRate = float64(stats.RequestsOK) / float64(stats.RequestsSent) * percentageMultiplier
	}
	if stats.Duration > 0 {
		requestsPerSecond = float64(stats.RequestsSent) / stats.Duration.Seconds()
	}

	logger.Get().Named("probe").Info(ctx, "final statistics",
		logger.Int("requestsPlanned", stats.RequestsPlanned),
		logger.Int("requestsSent", stats.RequestsSent),
		logger.Int("requestsOK", stats.RequestsOK),
		logger.Int("requestsFailed", stats.RequestsFailed),
		logger.Int("figuresMismatched", stats.FiguresMismatched),
		logger.Duration("duration", stats.Duration),
		logger.Duration("avgLatency", stats.AverageLatency()),
		logger.Duration("maxLatency", stats.MaxLatency),
		logger.Float64("successRate", successRate),
		logger.Float64("requestsPerSecond", requestsPerSecond))
}
