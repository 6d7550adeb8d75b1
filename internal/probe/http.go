package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/launchdash/pkg/logger"
)

// requestIDHeader matches the header the dashboard echoes back.
const requestIDHeader = "X-Request-ID"

// HTTPClient wraps http.Client with timeout and request IDs.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Get performs a GET request against a dashboard path.
func (c *HTTPClient) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(requestIDHeader, uuid.NewString())
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body.
func (c *HTTPClient) Post(ctx context.Context, path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())
	return c.client.Do(req)
}

// getJSON fetches path and decodes a 200 answer into v.
func (c *HTTPClient) getJSON(ctx context.Context, path string, v any) error {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: GET %s answered %d", ErrUnexpectedStatus, path, resp.StatusCode)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
}

// submitRequests sends requests through a worker pool and checks each
// figure against the catalog.
func submitRequests(ctx context.Context, config *Config, client *HTTPClient, cat *Catalog, requests []Request, stats *Stats) []Result {
	log := logger.Get().Named("probe")
	log.Info(ctx, "submitting update requests",
		logger.Int("requests", len(requests)),
		logger.Int("workers", config.Workers))

	results := make([]Result, len(requests))

	var (
		sent       atomic.Int64
		ok         atomic.Int64
		failed     atomic.Int64
		mismatched atomic.Int64
		lastReport atomic.Int64
	)

	jobs := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				res := submitSingleRequest(ctx, client, cat, requests[idx])
				results[idx] = res

				sent.Add(1)
				switch {
				case res.Err != nil:
					failed.Add(1)
					if config.Verbose {
						log.Warn(ctx, "request failed",
							logger.String("output", res.Request.Output),
							logger.Int("status", res.Status),
							logger.Error(res.Err))
					}
				case res.Mismatch != "":
					mismatched.Add(1)
					if config.Verbose {
						log.Warn(ctx, "figure mismatch",
							logger.String("output", res.Request.Output),
							logger.String("site", res.Request.site),
							logger.String("detail", res.Mismatch))
					}
				default:
					ok.Add(1)
				}

				now := time.Now().UnixNano()
				last := lastReport.Load()
				if now-last >= int64(progressInterval) && lastReport.CompareAndSwap(last, now) {
					log.Info(ctx, "progress",
						logger.Int("sent", int(sent.Load())),
						logger.Int("total", len(requests)),
						logger.Int("ok", int(ok.Load())),
						logger.Int("failed", int(failed.Load())),
						logger.Int("mismatched", int(mismatched.Load())))
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range requests {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	wg.Wait()

	stats.RequestsSent = int(sent.Load())
	stats.RequestsOK = int(ok.Load())
	stats.RequestsFailed = int(failed.Load())
	stats.FiguresMismatched = int(mismatched.Load())
	for _, r := range results {
		if r.Request.Output == "" {
			continue
		}
		stats.TotalLatency += r.Latency
		if r.Latency > stats.MaxLatency {
			stats.MaxLatency = r.Latency
		}
	}
	return results
}

// submitSingleRequest posts one update and verifies the returned figure.
func submitSingleRequest(ctx context.Context, client *HTTPClient, cat *Catalog, req Request) Result {
	res := Result{Request: req}
	start := time.Now()
	resp, err := client.Post(ctx, updatePath, req)
	if err != nil {
		res.Latency = time.Since(start)
		res.Err = err
		return res
	}
	body, err := readResponseBody(resp)
	res.Latency = time.Since(start)
	res.Status = resp.StatusCode
	if err != nil {
		res.Err = err
		return res
	}
	if resp.StatusCode != http.StatusOK {
		res.Err = fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(body)))
		return res
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		res.Err = fmt.Errorf("decode update response: %w", err)
		return res
	}
	res.Mismatch = verifyFigure(cat, req, out.Figure)
	return res
}
