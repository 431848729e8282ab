package sheets

import (
	"net/http"
	"time"

	"github.com/okian/painel/pkg/logger"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. Its Timeout is kept.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithCache enables payload caching per (url, token).
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithExcerptRunes sets how much of a non-JSON body is kept.
func WithExcerptRunes(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.excerpt = n
		}
	}
}
