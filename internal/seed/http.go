package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/rematch/pkg/logger"
)

// HTTP status codes the service responds with.
const (
	statusOK       = 200
	statusAccepted = 202
	statusCreated  = 201
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// postCreated posts the payload and expects a 201.
func postCreated(ctx context.Context, client *HTTPClient, url string, payload interface{}) error {
	resp, err := client.Post(ctx, url, payload)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != statusCreated {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// submitCandidates registers the generated candidates one by one. Profile
// registration is synchronous on the server side, so no pooling is needed.
func submitCandidates(ctx context.Context, config *Config, candidates []candidatePayload, stats *Stats) error {
	logger.Get().Info(ctx, "submitting candidates", logger.Int("count", len(candidates)))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/candidates"
	for i, c := range candidates {
		if err := postCreated(ctx, client, url, c); err != nil {
			return fmt.Errorf("candidate %d (%s): %w", i, c.ID, err)
		}
		stats.CandidatesSubmitted++
	}
	return nil
}

// submitJobs registers the generated job postings.
func submitJobs(ctx context.Context, config *Config, jobs []jobPayload, stats *Stats) error {
	logger.Get().Info(ctx, "submitting jobs", logger.Int("count", len(jobs)))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/jobs"
	for i, j := range jobs {
		if err := postCreated(ctx, client, url, j); err != nil {
			return fmt.Errorf("job %d (%s): %w", i, j.ID, err)
		}
		stats.JobsSubmitted++
	}
	return nil
}

// submitApplications submits applications concurrently using a worker pool.
func submitApplications(ctx context.Context, config *Config, applications []applicationPayload, stats *Stats) error {
	logger.Get().Info(ctx, "submitting applications",
		logger.Int("count", len(applications)),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/applications"

	var (
		accepted  int64
		duplicate int64
		failed    int64
		submitted int64
	)

	appChan := make(chan applicationPayload, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for app := range appChan {
				select {
				case <-ctx.Done():
					return
				default:
					result := submitSingleApplication(ctx, client, url, app)
					atomic.AddInt64(&submitted, 1)
					switch result {
					case "accepted":
						atomic.AddInt64(&accepted, 1)
					case "duplicate":
						atomic.AddInt64(&duplicate, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}
				}
			}
		}()
	}

	go func() {
		defer close(appChan)
		for _, app := range applications {
			select {
			case <-ctx.Done():
				return
			case appChan <- app:
			}
		}
	}()

	wg.Wait()

	stats.ApplicationsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.ApplicationsAccepted = int(atomic.LoadInt64(&accepted))
	stats.ApplicationsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.ApplicationsFailed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "application submission completed",
		logger.Int("accepted", stats.ApplicationsAccepted),
		logger.Int("duplicate", stats.ApplicationsDuplicate),
		logger.Int("failed", stats.ApplicationsFailed))
	return nil
}

// submitSingleApplication submits one application and classifies the result.
func submitSingleApplication(ctx context.Context, client *HTTPClient, url string, app applicationPayload) string {
	resp, err := client.Post(ctx, url, app)
	if err != nil {
		return "failed"
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case statusAccepted:
		return "accepted"
	case statusOK:
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
			return "duplicate"
		}
		return "duplicate"
	default:
		return "failed"
	}
}
