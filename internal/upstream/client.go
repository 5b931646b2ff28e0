package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

const (
	defaultUserAgent = "spacecount/1.0"
	maxBodyBytes     = 1 << 20
)

// Fetcher performs a single bounded GET against an upstream
type Fetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration) Result
}

// Client is the HTTP implementation of Fetcher. It never retries.
type Client struct {
	http      *http.Client
	userAgent string
	breakers  *breakerSet
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithUserAgent sets the User-Agent header sent upstream
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithCircuitBreaker guards every upstream URL with its own breaker
func WithCircuitBreaker(cfg BreakerConfig) Option {
	return func(c *Client) {
		c.breakers = newBreakerSet(cfg)
	}
}

// NewClient creates a new upstream client
func NewClient(opts ...Option) *Client {
	c := &Client{
		http: &http.Client{
			Transport: DefaultTransport(),
		},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultTransport caps per-host connections so a hanging upstream cannot pile up sockets
func DefaultTransport() *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxConnsPerHost:     32,
		MaxIdleConnsPerHost: 4,
		MaxIdleConns:        32,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// Close closes the HTTP client's connection pool
func (c *Client) Close() {
	if c.http != nil {
		c.http.CloseIdleConnections()
	}
}

// Fetch issues exactly one GET. A positive timeout bounds the whole call,
// including reading the body; zero leaves the transport defaults in charge.
func (c *Client) Fetch(ctx context.Context, url string, timeout time.Duration) Result {
	result := Result{URL: url}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		result.Kind = KindNetworkError
		result.Err = fmt.Errorf("failed to create request: %w", err)
		return result
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.do(ctx, req)
	result.Elapsed = time.Since(start)

	if resp == nil {
		result.Kind, result.Err = classify(ctx, err, timeout)
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		result.Kind, result.Err = classify(ctx, fmt.Errorf("failed to read response body: %w", err), timeout)
		return result
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		result.Kind = KindHTTPError
		result.Err = fmt.Errorf("HTTP %d", resp.StatusCode)
		return result
	}

	if !gjson.ValidBytes(body) {
		result.Kind = KindMalformed
		result.Err = errors.New("response body is not valid JSON")
		return result
	}

	result.Kind = KindSuccess
	result.Body = body
	return result
}

func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.breakers == nil {
		return c.http.Do(req)
	}
	return c.breakers.execute(ctx, req.URL.String(), func() (*http.Response, error) {
		return c.http.Do(req)
	})
}

// classify maps a transport error onto a Kind
func classify(ctx context.Context, err error, timeout time.Duration) (Kind, error) {
	if err == nil {
		err = errors.New("no response")
	}
	if errors.Is(err, ErrCircuitOpen) {
		return KindNetworkError, err
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		if timeout > 0 {
			return KindTimeout, fmt.Errorf("timeout after %s", timeout)
		}
		return KindTimeout, errors.New("timeout")
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout, err
	}
	return KindNetworkError, err
}
