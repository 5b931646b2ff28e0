package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestClientFetchClassification(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			if r.Header.Get("Accept") != "application/json" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(`{"message":"success"}`))
		case "/broken":
			w.WriteHeader(http.StatusInternalServerError)
		case "/html":
			_, _ = w.Write([]byte("<html>maintenance</html>"))
		case "/slow":
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	client := NewClient()
	defer client.Close()
	ctx := context.Background()

	result := client.Fetch(ctx, ts.URL+"/ok", time.Second)
	if result.Kind != KindSuccess || !result.OK() {
		t.Fatalf("expected success, got %v (%v)", result.Kind, result.Err)
	}
	if string(result.Body) != `{"message":"success"}` {
		t.Errorf("unexpected body %q", result.Body)
	}

	result = client.Fetch(ctx, ts.URL+"/broken", time.Second)
	if result.Kind != KindHTTPError || result.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected http error 500, got %v %d", result.Kind, result.StatusCode)
	}
	if result.Message() != "HTTP 500" {
		t.Errorf("unexpected message %q", result.Message())
	}

	result = client.Fetch(ctx, ts.URL+"/html", time.Second)
	if result.Kind != KindMalformed {
		t.Fatalf("expected malformed, got %v", result.Kind)
	}
	if !result.Reachable() {
		t.Error("malformed 2xx should still count as reachable")
	}

	result = client.Fetch(ctx, ts.URL+"/slow", 50*time.Millisecond)
	if result.Kind != KindTimeout {
		t.Fatalf("expected timeout, got %v (%v)", result.Kind, result.Err)
	}
	if result.Message() != "timeout after 50ms" {
		t.Errorf("unexpected timeout message %q", result.Message())
	}
}

func TestClientNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	client := NewClient()
	result := client.Fetch(context.Background(), url, time.Second)
	if result.Kind != KindNetworkError {
		t.Fatalf("expected network error, got %v", result.Kind)
	}
	if result.Err == nil {
		t.Error("expected error message for network failure")
	}
}

func TestClientCircuitBreakerOpens(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	var transitions atomic.Int32
	client := NewClient(WithCircuitBreaker(BreakerConfig{
		FailureThreshold: 2,
		Delay:            time.Minute,
		OnStateChange: func(url, from, to string) {
			transitions.Add(1)
		},
	}))

	for i := 0; i < 2; i++ {
		result := client.Fetch(context.Background(), ts.URL, time.Second)
		if result.Kind != KindHTTPError {
			t.Fatalf("call %d: expected http error, got %v", i, result.Kind)
		}
	}

	result := client.Fetch(context.Background(), ts.URL, time.Second)
	if result.Kind != KindNetworkError || !errors.Is(result.Err, ErrCircuitOpen) {
		t.Fatalf("expected open breaker, got %v (%v)", result.Kind, result.Err)
	}
	if hits.Load() != 2 {
		t.Errorf("expected upstream to be hit twice, got %d", hits.Load())
	}
	if transitions.Load() == 0 {
		t.Error("expected a state change notification")
	}
}
