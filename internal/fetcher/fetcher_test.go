package fetcher

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juststeveking/spacecount/internal/space"
	"github.com/juststeveking/spacecount/internal/upstream"
)

type stubFetcher struct {
	mu     sync.Mutex
	result upstream.Result
	delay  time.Duration
	calls  atomic.Int32
}

func (s *stubFetcher) Fetch(ctx context.Context, url string, timeout time.Duration) upstream.Result {
	s.calls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.result
	r.URL = url
	return r
}

func (s *stubFetcher) set(r upstream.Result) {
	s.mu.Lock()
	s.result = r
	s.mu.Unlock()
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type countingRecorder struct {
	mu      sync.Mutex
	sources map[string]int
}

func (r *countingRecorder) ObserveFetch(resource, source, kind string, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sources == nil {
		r.sources = map[string]int{}
	}
	r.sources[source]++
}

const astros = `{"message":"success","number":2,"people":[{"name":"A","craft":"ISS"},{"name":"B","craft":"Tiangong"}]}`

func success(body string) upstream.Result {
	return upstream.Result{Kind: upstream.KindSuccess, StatusCode: http.StatusOK, Body: []byte(body)}
}

func peopleFetcher(client upstream.Fetcher, c *clock, opts ...Option) *CachedFetcher[space.Roster] {
	opts = append(opts, WithClock(c.Now))
	return New(Options[space.Roster]{
		Name:      "people",
		URL:       "http://upstream/astros.json",
		TTL:       5 * time.Minute,
		Timeout:   time.Second,
		Normalize: space.NormalizeRoster,
		Fallback:  space.FallbackRoster,
		Stale:     space.StaleRoster,
	}, client, opts...)
}

func TestGetServesCacheWithinTTL(t *testing.T) {
	stub := &stubFetcher{result: success(astros)}
	c := &clock{now: time.Unix(1700000000, 0)}
	rec := &countingRecorder{}
	f := peopleFetcher(stub, c, WithRecorder(rec))

	first := f.Get(context.Background())
	require.Equal(t, SourceLive, first.Source)
	assert.Equal(t, http.StatusOK, first.StatusCode)
	assert.Equal(t, 2, first.Value.Number)

	c.Advance(time.Minute)
	second := f.Get(context.Background())
	assert.Equal(t, SourceCache, second.Source)
	assert.Equal(t, first.Value, second.Value)
	assert.Equal(t, first.FetchedAt, second.FetchedAt)
	assert.Equal(t, int32(1), stub.calls.Load(), "cache hit must not touch the network")

	c.Advance(5 * time.Minute)
	third := f.Get(context.Background())
	assert.Equal(t, SourceLive, third.Source)
	assert.Equal(t, int32(2), stub.calls.Load())

	assert.Equal(t, 2, rec.sources["live"])
	assert.Equal(t, 1, rec.sources["cache"])
}

func TestGetFallsBackWhenUpstreamFailsWithEmptyCache(t *testing.T) {
	stub := &stubFetcher{result: upstream.Result{
		Kind:       upstream.KindHTTPError,
		StatusCode: http.StatusInternalServerError,
		Err:        errors.New("HTTP 500"),
	}}
	f := peopleFetcher(stub, &clock{now: time.Now()})

	out := f.Get(context.Background())
	assert.Equal(t, SourceFallback, out.Source)
	assert.Equal(t, http.StatusServiceUnavailable, out.StatusCode)
	assert.Equal(t, 12, out.Value.Number)
	assert.Len(t, out.Value.People, 12)
	assert.Contains(t, out.Value.Message, "fallback")
	assert.Error(t, out.Err)
	assert.True(t, out.Degraded())

	// fallback data is never cached
	f.Get(context.Background())
	assert.Equal(t, int32(2), stub.calls.Load())
}

func TestGetDegradesSilentlyForPosition(t *testing.T) {
	stub := &stubFetcher{result: upstream.Result{
		Kind: upstream.KindTimeout,
		Err:  errors.New("timeout after 10s"),
	}}
	c := &clock{now: time.Unix(1700000000, 0)}
	f := New(Options[space.Position]{
		Name:            "iss",
		URL:             "http://upstream/iss",
		TTL:             5 * time.Second,
		Timeout:         10 * time.Second,
		Normalize:       space.NormalizePosition,
		Fallback:        space.FallbackPosition,
		DegradeSilently: true,
	}, stub, WithClock(c.Now))

	out := f.Get(context.Background())
	assert.Equal(t, SourceFallback, out.Source)
	assert.Equal(t, http.StatusOK, out.StatusCode)
	assert.Equal(t, space.SimulatedMessage, out.Value.Message)
	require.NotNil(t, out.Value.Altitude)
	require.NotNil(t, out.Value.Velocity)
	assert.Equal(t, 408.0, *out.Value.Altitude)
	assert.Equal(t, 27600.0, *out.Value.Velocity)
	assert.NotEmpty(t, out.Value.ISSPosition.Latitude)
}

func TestGetPrefersStaleValueOverFallback(t *testing.T) {
	stub := &stubFetcher{result: success(astros)}
	c := &clock{now: time.Unix(1700000000, 0)}
	f := peopleFetcher(stub, c)

	live := f.Get(context.Background())
	require.Equal(t, SourceLive, live.Source)

	c.Advance(10 * time.Minute)
	stub.set(upstream.Result{Kind: upstream.KindNetworkError, Err: errors.New("connection refused")})

	out := f.Get(context.Background())
	assert.Equal(t, SourceStale, out.Source)
	assert.Equal(t, http.StatusOK, out.StatusCode)
	assert.Equal(t, live.Value.People, out.Value.People)
	assert.Equal(t, live.Value.Number, out.Value.Number)
	assert.Equal(t, "success (cached)", out.Value.Message)
	assert.Equal(t, live.FetchedAt, out.FetchedAt)
	assert.EqualError(t, out.Err, "connection refused")

	// The cached entry keeps the upstream message
	e, ok := f.slot.Peek()
	require.True(t, ok)
	assert.Equal(t, "success", e.Value.Message)

	again := f.Get(context.Background())
	assert.Equal(t, "success (cached)", again.Value.Message)
}

func TestGetTreatsNormalizeFailureLikeUpstreamFailure(t *testing.T) {
	stub := &stubFetcher{result: success(`{"message":"success","number":0,"people":[]}`)}
	f := peopleFetcher(stub, &clock{now: time.Now()})

	out := f.Get(context.Background())
	assert.Equal(t, SourceFallback, out.Source)
	assert.ErrorIs(t, out.Err, space.ErrEmptyRoster)

	_, cached := f.slot.Peek()
	assert.False(t, cached)
}

func TestGetCollapsesConcurrentMisses(t *testing.T) {
	stub := &stubFetcher{result: success(astros), delay: 50 * time.Millisecond}
	f := peopleFetcher(stub, &clock{now: time.Now()})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out := f.Get(context.Background())
			assert.Equal(t, 2, out.Value.Number)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), stub.calls.Load())
}
