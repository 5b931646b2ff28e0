package upstream

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/circuitbreaker"
)

// ErrCircuitOpen is returned without contacting the upstream while its breaker is open
var ErrCircuitOpen = errors.New("circuit breaker open")

// BreakerConfig configures the per-URL circuit breakers.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the breaker. Default: 5
	FailureThreshold uint

	// Delay is how long the breaker stays open before letting a probe through. Default: 30s
	Delay time.Duration

	// OnStateChange is invoked with the upstream URL when a breaker changes state
	OnStateChange func(url, from, to string)
}

type breakerSet struct {
	cfg      BreakerConfig
	mu       sync.Mutex
	breakers map[string]circuitbreaker.CircuitBreaker[*http.Response]
}

func newBreakerSet(cfg BreakerConfig) *breakerSet {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Delay <= 0 {
		cfg.Delay = 30 * time.Second
	}
	return &breakerSet{
		cfg:      cfg,
		breakers: make(map[string]circuitbreaker.CircuitBreaker[*http.Response]),
	}
}

func (b *breakerSet) get(url string) circuitbreaker.CircuitBreaker[*http.Response] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if cb, ok := b.breakers[url]; ok {
		return cb
	}

	builder := circuitbreaker.NewBuilder[*http.Response]().
		WithFailureThreshold(b.cfg.FailureThreshold).
		WithDelay(b.cfg.Delay).
		HandleIf(func(resp *http.Response, err error) bool {
			if err != nil {
				return true
			}
			return resp != nil && resp.StatusCode >= 500
		})

	if b.cfg.OnStateChange != nil {
		notify := b.cfg.OnStateChange
		builder = builder.OnStateChanged(func(event circuitbreaker.StateChangedEvent) {
			notify(url, stateName(event.OldState), stateName(event.NewState))
		})
	}

	cb := builder.Build()
	b.breakers[url] = cb
	return cb
}

func (b *breakerSet) execute(ctx context.Context, url string, fn func() (*http.Response, error)) (*http.Response, error) {
	resp, err := failsafe.With(b.get(url)).WithContext(ctx).Get(fn)
	if errors.Is(err, circuitbreaker.ErrOpen) {
		return nil, ErrCircuitOpen
	}
	return resp, err
}

func stateName(state circuitbreaker.State) string {
	switch state {
	case circuitbreaker.ClosedState:
		return "closed"
	case circuitbreaker.HalfOpenState:
		return "half-open"
	case circuitbreaker.OpenState:
		return "open"
	default:
		return "unknown"
	}
}
