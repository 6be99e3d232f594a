package httpclient

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

type Option func(c *Client)

// WithTimeout specifies the per-request timeout
func WithTimeout(t time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = t
	}
}

// WithRateLimit caps outbound requests per second, with the given burst
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if burst < 1 {
			burst = 1
		}

		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithHeaders sets the default headers applied to every request
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		c.headers = headers
	}
}

// WithTransport specifies a custom transport (used in tests)
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.client.Transport = rt
	}
}
