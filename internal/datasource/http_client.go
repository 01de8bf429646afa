package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// ReferenceClientConfig tunes the outbound reference-data transport.
// RateLimit is in requests per second; BreakerThreshold counts
// consecutive transport failures before fetches are suspended.
type ReferenceClientConfig struct {
	Timeout          time.Duration
	MaxRetries       int
	RetryWaitMin     time.Duration
	RetryWaitMax     time.Duration
	RateLimit        float64
	BreakerThreshold int
}

// DefaultReferenceClientConfig returns the defaults used when the
// provider configuration leaves a field unset.
func DefaultReferenceClientConfig() ReferenceClientConfig {
	return ReferenceClientConfig{
		Timeout:          30 * time.Second,
		MaxRetries:       5,
		RetryWaitMin:     100 * time.Millisecond,
		RetryWaitMax:     10 * time.Second,
		RateLimit:        10.0,
		BreakerThreshold: 5,
	}
}

// ReferenceHTTPClient is the shared transport for reference-data
// providers. It layers retries, a request-rate limiter, a
// consecutive-failure breaker and bearer-token auth over net/http so
// provider code only deals with payloads.
type ReferenceHTTPClient struct {
	client           *retryablehttp.Client
	limiter          *rate.Limiter
	authToken        string
	breakerThreshold int
	logger           *log.Logger

	mu       sync.Mutex
	failures int
	open     bool
	lastErr  error
}

// NewReferenceHTTPClient creates a reference-data transport. The auth
// token may be empty for unauthenticated providers.
func NewReferenceHTTPClient(cfg ReferenceClientConfig, authToken string, logger *log.Logger) *ReferenceHTTPClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.RetryMax = cfg.MaxRetries
	rc.RetryWaitMin = cfg.RetryWaitMin
	rc.RetryWaitMax = cfg.RetryWaitMax
	rc.CheckRetry = referenceRetryPolicy()
	rc.Logger = logger

	return &ReferenceHTTPClient{
		client:           rc,
		limiter:          rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		authToken:        authToken,
		breakerThreshold: cfg.BreakerThreshold,
		logger:           logger,
	}
}

// GetJSON fetches url and decodes the JSON body into out. Auth headers
// and the provider status-code contract live here so every reference
// provider shares one throttling and credential handling path; source
// names the provider in returned errors.
func (c *ReferenceHTTPClient) GetJSON(ctx context.Context, url, source string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return NewDataSourceError(source, ErrCodeNetworkError, "failed to create request", err)
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(ctx, req)
	if err != nil {
		return NewDataSourceError(source, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return NewDataSourceError(source, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewDataSourceError(source, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return NewDataSourceError(source, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewDataSourceError(source, ErrCodeInvalidData, "failed to parse response", err)
	}
	return nil
}

// Do executes a request through the limiter and breaker. Callers that
// need raw responses can use this directly; GetJSON is the usual path.
func (c *ReferenceHTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	c.mu.Lock()
	if c.open {
		lastErr := c.lastErr
		c.mu.Unlock()
		return nil, fmt.Errorf("reference fetches suspended: %v", lastErr)
	}
	c.mu.Unlock()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	rreq, err := retryablehttp.FromRequest(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(rreq)
	if err != nil {
		c.recordFailure(err)
		return nil, err
	}

	if resp.StatusCode < 500 {
		c.reset()
	}
	return resp, nil
}

// Close releases idle connections held by the transport
func (c *ReferenceHTTPClient) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

func (c *ReferenceHTTPClient) recordFailure(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.failures++
	c.lastErr = err
	if !c.open && c.failures >= c.breakerThreshold {
		c.open = true
		c.logger.Printf("Suspending reference fetches after %d consecutive failures: %v", c.failures, err)
	}
}

func (c *ReferenceHTTPClient) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = 0
	c.open = false
}

// referenceRetryPolicy retries transport errors, throttling and 5xx
// responses. Other 4xx statuses surface immediately so bad credentials
// fail fast instead of burning the retry budget.
func referenceRetryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			return true, err
		}
		switch resp.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true, nil
		}
		return false, nil
	}
}
