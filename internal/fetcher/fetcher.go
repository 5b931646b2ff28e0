package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/juststeveking/spacecount/internal/cache"
	"github.com/juststeveking/spacecount/internal/logging"
	"github.com/juststeveking/spacecount/internal/upstream"
)

// Source tells where an Outcome's value came from
type Source string

const (
	SourceLive     Source = "live"
	SourceCache    Source = "cache"
	SourceStale    Source = "stale"
	SourceFallback Source = "fallback"
)

// Outcome is what a caller gets for one request. Err carries the upstream or
// normalization failure that caused a stale or fallback answer.
type Outcome[T any] struct {
	Value      T
	Source     Source
	StatusCode int
	Err        error
	FetchedAt  time.Time
}

// Degraded reports whether the value is not a fresh upstream answer
func (o Outcome[T]) Degraded() bool {
	return o.Source == SourceStale || o.Source == SourceFallback
}

// NormalizeFunc turns a raw upstream body into a validated record
type NormalizeFunc[T any] func(raw []byte, fetchedAt time.Time) (T, error)

// FallbackFunc produces synthetic data when nothing real is available
type FallbackFunc[T any] func(now time.Time) T

// StaleFunc marks a cached value that is served after an upstream failure
type StaleFunc[T any] func(value T) T

// Options describes one proxied resource
type Options[T any] struct {
	Name      string
	URL       string
	TTL       time.Duration
	Timeout   time.Duration
	Normalize NormalizeFunc[T]
	Fallback  FallbackFunc[T]
	Stale     StaleFunc[T]

	// DegradeSilently answers fallback data with 200 instead of 503
	DegradeSilently bool
}

// Recorder receives one observation per Get
type Recorder interface {
	ObserveFetch(resource, source, kind string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveFetch(string, string, string, time.Duration) {}

// Option configures a CachedFetcher
type Option func(*settings)

type settings struct {
	logger   logging.Logger
	recorder Recorder
	now      func() time.Time
}

// WithLogger sets the logger
func WithLogger(logger logging.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithRecorder sets the metrics recorder
func WithRecorder(r Recorder) Option {
	return func(s *settings) {
		s.recorder = r
	}
}

// WithClock overrides the time source for both the fetcher and its cache
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		s.now = now
	}
}

// CachedFetcher serves one upstream resource through a TTL cache, falling
// back to the last good value and then to synthetic data.
type CachedFetcher[T any] struct {
	opts     Options[T]
	client   upstream.Fetcher
	slot     *cache.Slot[T]
	group    singleflight.Group
	logger   logging.Logger
	recorder Recorder
	now      func() time.Time
}

// New creates a fetcher that owns its cache slot for the life of the process
func New[T any](opts Options[T], client upstream.Fetcher, options ...Option) *CachedFetcher[T] {
	s := settings{
		logger:   logging.NewDiscardLogger(),
		recorder: nopRecorder{},
		now:      time.Now,
	}
	for _, opt := range options {
		opt(&s)
	}
	if opts.Fallback == nil {
		opts.Fallback = func(time.Time) T {
			var zero T
			return zero
		}
	}

	return &CachedFetcher[T]{
		opts:     opts,
		client:   client,
		slot:     cache.NewSlot[T](opts.TTL, cache.WithClock(s.now)),
		logger:   s.logger,
		recorder: s.recorder,
		now:      s.now,
	}
}

// Name returns the resource name
func (f *CachedFetcher[T]) Name() string {
	return f.opts.Name
}

// TTL returns the cache freshness window
func (f *CachedFetcher[T]) TTL() time.Duration {
	return f.slot.TTL()
}

// Get never fails: a fresh cache hit, a live fetch, a stale value or the
// fallback, in that order of preference.
func (f *CachedFetcher[T]) Get(ctx context.Context) Outcome[T] {
	if e, ok := f.slot.Fresh(); ok {
		f.recorder.ObserveFetch(f.opts.Name, string(SourceCache), "hit", 0)
		return Outcome[T]{
			Value:      e.Value,
			Source:     SourceCache,
			StatusCode: http.StatusOK,
			FetchedAt:  e.FetchedAt,
		}
	}

	v, _, _ := f.group.Do(f.opts.Name, func() (interface{}, error) {
		return f.load(ctx), nil
	})
	return v.(Outcome[T])
}

func (f *CachedFetcher[T]) load(ctx context.Context) Outcome[T] {
	fetchedAt := f.now()
	res := f.client.Fetch(ctx, f.opts.URL, f.opts.Timeout)

	log := f.logger.WithFields(logging.Fields{
		"resource":   f.opts.Name,
		"url":        f.opts.URL,
		"elapsed_ms": res.Elapsed.Milliseconds(),
	})

	kind := res.Kind.String()
	var cause error
	if res.OK() {
		value, err := f.opts.Normalize(res.Body, fetchedAt)
		if err == nil {
			f.slot.Set(value)
			f.recorder.ObserveFetch(f.opts.Name, string(SourceLive), kind, res.Elapsed)
			log.Debug("Fetched upstream")
			return Outcome[T]{
				Value:      value,
				Source:     SourceLive,
				StatusCode: http.StatusOK,
				FetchedAt:  fetchedAt,
			}
		}
		kind = "normalize_error"
		cause = fmt.Errorf("normalize %s: %w", f.opts.Name, err)
	} else {
		cause = res.Err
		if cause == nil {
			cause = errors.New(res.Message())
		}
	}

	return f.degrade(log, kind, cause, res.Elapsed)
}

func (f *CachedFetcher[T]) degrade(log *logrus.Entry, kind string, cause error, elapsed time.Duration) Outcome[T] {
	log = log.WithError(cause).WithField("kind", kind)

	if e, ok := f.slot.Peek(); ok {
		f.recorder.ObserveFetch(f.opts.Name, string(SourceStale), kind, elapsed)
		log.WithField("age", f.now().Sub(e.FetchedAt).String()).Warn("Upstream failed, serving stale value")
		value := e.Value
		if f.opts.Stale != nil {
			value = f.opts.Stale(value)
		}
		return Outcome[T]{
			Value:      value,
			Source:     SourceStale,
			StatusCode: http.StatusOK,
			Err:        cause,
			FetchedAt:  e.FetchedAt,
		}
	}

	status := http.StatusServiceUnavailable
	if f.opts.DegradeSilently {
		status = http.StatusOK
	}

	now := f.now()
	f.recorder.ObserveFetch(f.opts.Name, string(SourceFallback), kind, elapsed)
	log.WithField("status", status).Warn("Upstream failed, serving fallback data")
	return Outcome[T]{
		Value:      f.opts.Fallback(now),
		Source:     SourceFallback,
		StatusCode: status,
		Err:        cause,
		FetchedAt:  now,
	}
}
