package index

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/warwick-one-metre/pkgmeta/internal/core"
)

func TestGetJSONRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(500)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true}`))
	})

	client := NewClient(WithMaxRetries(5), WithBaseDelay(time.Millisecond))

	var out map[string]bool
	if err := client.GetJSON(context.Background(), server.URL, &out); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("expected 3 calls, got %d", got)
	}
	if !out["ok"] {
		t.Error("response not decoded")
	}
}

func TestGetJSONDoesNotRetryNotFound(t *testing.T) {
	var calls atomic.Int32
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(404)
	})

	client := NewClient(WithMaxRetries(5), WithBaseDelay(time.Millisecond))

	var out map[string]any
	err := client.GetJSON(context.Background(), server.URL, &out)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var httpErr *core.HTTPError
	if !errors.As(err, &httpErr) || !httpErr.IsNotFound() {
		t.Fatalf("expected 404 HTTPError, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 call, got %d", got)
	}
}

func TestGetJSONExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(503)
	})

	client := NewClient(WithMaxRetries(2), WithBaseDelay(time.Millisecond))

	var out map[string]any
	err := client.GetJSON(context.Background(), server.URL, &out)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var httpErr *core.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 503 {
		t.Fatalf("expected 503 HTTPError, got %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("expected 3 calls (1 + 2 retries), got %d", got)
	}
}

func TestGetJSONHonoursContext(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(503)
	})

	client := NewClient(WithMaxRetries(10), WithBaseDelay(time.Minute))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var out map[string]any
	err := client.GetJSON(ctx, server.URL, &out)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline error, got %v", err)
	}
}

func TestGetJSONInvalidBody(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	client := NewClient(WithMaxRetries(0))

	var out map[string]any
	if err := client.GetJSON(context.Background(), server.URL, &out); err == nil {
		t.Fatal("expected decode error, got nil")
	}
}
