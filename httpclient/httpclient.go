// Package httpclient provides the shared outbound HTTP client used by
// all upstream price and rate providers. Every request is rate limited
// and goes through a per-client circuit breaker, so a dead upstream is
// not hammered while it recovers.
package httpclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = time.Second * 10

	// Free public APIs are strict about anonymous clients,
	// so requests present a regular browser user agent
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/98.0.4758.102 Safari/537.36"
)

// Client is a rate-limited, circuit-broken HTTP client
type Client struct {
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[*http.Response]
	headers map[string]string
}

// New creates a new upstream HTTP client
func New(name string, opts ...Option) *Client {
	c := &Client{
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Inf, 1),
		headers: map[string]string{
			"Accept":     "application/json",
			"User-Agent": defaultUserAgent,
		},
	}

	// Apply the options
	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker[*http.Response](
		gobreaker.Settings{
			Name:    name,
			Timeout: time.Second * 30,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		},
	)

	return c
}

// Do executes the given request, honoring the rate limit and the
// circuit breaker. The request context bounds the limiter wait
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("unable to pass rate limiter: %w", err)
	}

	for name, value := range c.headers {
		if req.Header.Get(name) == "" {
			req.Header.Set(name, value)
		}
	}

	return c.breaker.Execute(func() (*http.Response, error) {
		return c.client.Do(req)
	})
}

// GetJSON issues a GET request to the given URL and decodes the
// 2xx JSON response body into out
func (c *Client) GetJSON(req *http.Request, out any) error {
	resp, err := c.Do(req)
	if err != nil {
		return fmt.Errorf("unable to execute GET request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("invalid status code received: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("unable to decode response: %w", err)
	}

	return nil
}
