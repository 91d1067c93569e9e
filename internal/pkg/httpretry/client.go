// Package httpretry wraps an HTTP client with exponential backoff and
// jitter. The enrichment, personalization, and email provider APIs all rate
// limit aggressively; every outbound client in this repo goes through here.
package httpretry

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/ignite/outreach/internal/pkg/logger"
)

// HTTPDoer executes HTTP requests. Satisfied by *http.Client and
// *RetryClient, so clients can be stacked or swapped in tests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RetryClient retries transient failures with exponential backoff and full
// jitter. 4xx client errors are never retried.
type RetryClient struct {
	client     HTTPDoer
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// NewRetryClient wraps client with retry behavior. A nil client gets a
// default http.Client with a 30s timeout; maxRetries <= 0 means 3.
func NewRetryClient(client HTTPDoer, maxRetries int) *RetryClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &RetryClient{
		client:     client,
		maxRetries: maxRetries,
		baseDelay:  time.Second,
		maxDelay:   30 * time.Second,
	}
}

// Do executes the request, retrying on 429/5xx and transient network errors.
// The final attempt's response is returned as-is so the caller can read the
// status and body. Context cancellation stops retries immediately.
func (rc *RetryClient) Do(req *http.Request) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= rc.maxRetries; attempt++ {
		if err := req.Context().Err(); err != nil {
			if lastErr != nil {
				return nil, lastErr
			}
			return nil, err
		}

		resp, err := rc.client.Do(req)
		if err != nil {
			lastErr = err
			if req.Context().Err() != nil {
				return nil, err
			}
			if attempt == rc.maxRetries {
				return nil, lastErr
			}
			if !rc.wait(req, attempt+1, 0) {
				return nil, lastErr
			}
			if err := rewindBody(req); err != nil {
				return nil, err
			}
			continue
		}

		if !retryableStatus(resp.StatusCode) || attempt == rc.maxRetries {
			return resp, nil
		}

		// Drain so the connection can be reused.
		retryAfter := parseRetryAfter(resp)
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		lastErr = fmt.Errorf("httpretry: retryable status %d", resp.StatusCode)

		if !rc.wait(req, attempt+1, retryAfter) {
			return nil, lastErr
		}
		if err := rewindBody(req); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

// wait sleeps before retry attempt n. A provider Retry-After hint wins over
// the computed backoff when it is longer. Returns false on cancellation.
func (rc *RetryClient) wait(req *http.Request, attempt int, retryAfter time.Duration) bool {
	delay := rc.backoff(attempt)
	if retryAfter > delay && retryAfter <= rc.maxDelay {
		delay = retryAfter
	}

	logger.Debug("[HTTPRetry] backing off",
		"attempt", attempt, "max", rc.maxRetries,
		"host", req.URL.Host, "delay", delay.String())

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-req.Context().Done():
		return false
	}
}

// backoff computes the delay for retry attempt n: full jitter over
// baseDelay * 2^(n-1), capped at maxDelay, floored at 100ms.
func (rc *RetryClient) backoff(attempt int) time.Duration {
	exp := float64(rc.baseDelay) * math.Pow(2, float64(attempt-1))
	if exp > float64(rc.maxDelay) {
		exp = float64(rc.maxDelay)
	}
	d := time.Duration(rand.Float64() * exp)
	if d < 100*time.Millisecond {
		d = 100 * time.Millisecond
	}
	return d
}

// rewindBody resets the request body for a retry when the request carries one.
func rewindBody(req *http.Request) error {
	if req.GetBody == nil {
		return nil
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Errorf("httpretry: reset request body: %w", err)
	}
	req.Body = body
	return nil
}

// parseRetryAfter reads a seconds-valued Retry-After header, 0 when absent.
func parseRetryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
