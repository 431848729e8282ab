// Package sheets fetches the KPI payload from the spreadsheet web endpoint.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/singleflight"

	"github.com/okian/painel/internal/domain/model"
	"github.com/okian/painel/pkg/logger"
	"github.com/okian/painel/pkg/metrics"
)

const (
	defaultTimeout      = 25 * time.Second
	defaultExcerptRunes = 400
	maxBodyBytes        = 16 << 20
)

// Key identifies a cached payload.
type Key struct {
	URL   string
	Token string
}

// Cache stores payloads per key. Implementations decide expiry.
type Cache interface {
	Get(key Key) (model.Payload, bool)
	Set(key Key, p model.Payload)
}

// Client performs authenticated GETs against the sheet endpoint.
type Client struct {
	http    *http.Client
	cache   Cache
	log     logger.Logger
	timeout time.Duration
	excerpt int
	group   singleflight.Group
}

// New creates a client. Without WithCache every call hits the endpoint.
func New(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{},
		log:     logger.Named("sheets"),
		timeout: defaultTimeout,
		excerpt: defaultExcerptRunes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the payload for (rawURL, token). A body that is not JSON is
// not an error: the payload carries the parse failure, the status code and
// an excerpt of the body. Non-2xx responses fail with *HTTPError and network
// faults with ErrTransport. Successful results, soft failures included, are
// cached; errors are not. Concurrent calls for the same key share one request.
func (c *Client) Fetch(ctx context.Context, rawURL, token string) (model.Payload, error) {
	key := Key{URL: rawURL, Token: token}
	if c.cache != nil {
		if p, ok := c.cache.Get(key); ok {
			metrics.RecordCacheHit()
			return p, nil
		}
		metrics.RecordCacheMiss()
	}

	v, err, shared := c.group.Do(rawURL+"\x00"+token, func() (any, error) {
		p, err := c.get(ctx, rawURL, token)
		if err != nil {
			return model.Payload{}, err
		}
		if c.cache != nil {
			c.cache.Set(key, p)
		}
		return p, nil
	})
	if shared {
		c.log.Debug(ctx, "shared in-flight sheet fetch")
	}
	if err != nil {
		return model.Payload{}, err
	}
	p, _ := v.(model.Payload)
	return p, nil
}

func (c *Client) get(ctx context.Context, rawURL, token string) (model.Payload, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return model.Payload{}, fmt.Errorf("%w: %w", ErrBuildRequest, err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return model.Payload{}, fmt.Errorf("%w: %w", ErrBuildRequest, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordFetch(metrics.FetchTransportError, sinceMs(start))
		// url.Error would print the token; report host and path only.
		return model.Payload{}, fmt.Errorf("%w: %s%s: %w", ErrTransport, u.Host, u.Path, unwrapURLError(err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.RecordFetch(metrics.FetchTransportError, sinceMs(start))
		return model.Payload{}, fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordFetch(metrics.FetchHTTPError, sinceMs(start))
		return model.Payload{}, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       excerpt(body, c.excerpt),
		}
	}

	var p model.Payload
	if err := json.Unmarshal(body, &p); err != nil {
		metrics.RecordFetch(metrics.FetchSoftFail, sinceMs(start))
		c.log.Warn(ctx, "sheet endpoint returned a non-JSON body",
			logger.Int("status_code", resp.StatusCode),
			logger.Int("bytes", len(body)),
		)
		return model.SoftFailure(model.SoftFailMessage, resp.StatusCode, excerpt(body, c.excerpt)), nil
	}

	metrics.RecordFetch(metrics.FetchOK, sinceMs(start))
	c.log.Debug(ctx, "sheet fetched",
		logger.Int("rows", len(p.Rows)),
		logger.Duration("latency", time.Since(start)),
	)
	return p, nil
}

func unwrapURLError(err error) error {
	if ue, ok := err.(*url.Error); ok { //nolint:errorlint // only the outer wrapper carries the URL
		return ue.Err
	}
	return err
}

// excerpt returns at most n runes of body.
func excerpt(body []byte, n int) string {
	i := 0
	for count := 0; i < len(body) && count < n; count++ {
		_, size := utf8.DecodeRune(body[i:])
		i += size
	}
	return string(body[:i])
}

func sinceMs(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
