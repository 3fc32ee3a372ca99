package testmatches

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

	"github.com/okian/spdi/internal/domain/spdi"
	"github.com/okian/spdi/pkg/logger"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitMatches posts every match to /v1/spdi/evaluate from a worker pool.
// Outcomes are returned in match order.
func submitMatches(ctx context.Context, config *Config, matches []spdi.MatchInput, stats *Stats) []Outcome {
	log := logger.Get().Named("testmatches")
	log.Info(ctx, "submitting matches", logger.Int("matches", len(matches)), logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/v1/spdi/evaluate"

	var submitted, evaluated, rejected, failed atomic.Int64
	outcomes := make([]Outcome, len(matches))

	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup
	for range config.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexChan {
				o := submitSingleMatch(ctx, client, url, matches[i])
				o.Index = i
				outcomes[i] = o

				n := submitted.Add(1)
				switch {
				case o.Err != nil:
					failed.Add(1)
				case o.StatusCode == StatusOK:
					evaluated.Add(1)
				case o.StatusCode == StatusUnprocessable:
					rejected.Add(1)
				default:
					failed.Add(1)
				}
				if config.Verbose && n%1000 == 0 {
					log.Info(ctx, "progress", logger.Int("submitted", int(n)), logger.Int("total", len(matches)))
				}
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := range matches {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()
	wg.Wait()

	stats.MatchesSubmitted = int(submitted.Load())
	stats.MatchesEvaluated = int(evaluated.Load())
	stats.MatchesRejected = int(rejected.Load())
	stats.MatchesFailed = int(failed.Load())
	log.Info(ctx, "match submission completed",
		logger.Int("evaluated", stats.MatchesEvaluated),
		logger.Int("rejected", stats.MatchesRejected),
		logger.Int("failed", stats.MatchesFailed),
	)
	return outcomes[:stats.MatchesSubmitted]
}

// submitSingleMatch posts one match and decodes the 200 or 422 body.
func submitSingleMatch(ctx context.Context, client *HTTPClient, url string, in spdi.MatchInput) Outcome {
	resp, err := client.Post(ctx, url, in)
	if err != nil {
		return Outcome{Err: err}
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return Outcome{StatusCode: resp.StatusCode, Err: err}
	}
	o := Outcome{StatusCode: resp.StatusCode}
	switch resp.StatusCode {
	case StatusOK, StatusUnprocessable:
		var er evaluateResponse
		if err := json.Unmarshal(body, &er); err != nil {
			o.Err = fmt.Errorf("decode response: %w", err)
			return o
		}
		o.Result, o.Errors = er.Result, er.Errors
	default:
		o.Err = fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return o
}

// submitBatch sends matches in one /v1/spdi/batch call.
func submitBatch(ctx context.Context, config *Config, matches []spdi.MatchInput) ([]evaluateResponse, error) {
	client := newHTTPClient(config.Timeout)
	resp, err := client.Post(ctx, config.BaseURL+"/v1/spdi/batch", batchRequest{Inputs: matches})
	if err != nil {
		return nil, err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("batch failed with status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	var br batchResponse
	if err := json.Unmarshal(body, &br); err != nil {
		return nil, fmt.Errorf("decode batch response: %w", err)
	}
	return br.Evaluations, nil
}
