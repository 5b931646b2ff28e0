package monitor

import (
	"context"
	"time"

	"github.com/juststeveking/spacecount/internal/config"
	"github.com/juststeveking/spacecount/internal/upstream"
)

// Checker defines the interface for health checking
type Checker interface {
	Check(ctx context.Context, probe config.Probe) Result
}

// HTTPChecker probes an upstream with a single GET
type HTTPChecker struct {
	client        upstream.Fetcher
	timeout       time.Duration
	slowThreshold time.Duration
	now           func() time.Time
}

// NewHTTPChecker creates a new HTTP checker
func NewHTTPChecker(client upstream.Fetcher, timeout, slowThreshold time.Duration) *HTTPChecker {
	return &HTTPChecker{
		client:        client,
		timeout:       timeout,
		slowThreshold: slowThreshold,
		now:           time.Now,
	}
}

// Check performs an HTTP health check. Any 2xx counts as reachable, even if
// the body is not JSON.
func (h *HTTPChecker) Check(ctx context.Context, probe config.Probe) Result {
	res := h.client.Fetch(ctx, probe.URL, h.timeout)

	result := Result{
		Name:         probe.Name,
		URL:          probe.URL,
		ResponseTime: res.Elapsed,
		CheckedAt:    h.now(),
	}

	switch {
	case !res.Reachable():
		result.Status = StatusOffline
		result.Error = res.Message()
	case res.Elapsed > h.slowThreshold:
		result.Status = StatusSlow
	default:
		result.Status = StatusOnline
	}

	return result
}
