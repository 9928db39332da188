package statsfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tryline/fantasy-rugby/internal/platform/resilience"
)

func newTestClient(t *testing.T, baseURL string, maxRetries int) *Client {
	t.Helper()
	return NewClient(ClientConfig{
		BaseURL:    baseURL,
		APIKey:     "test-key",
		Timeout:    2 * time.Second,
		MaxRetries: maxRetries,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled: false,
		},
	})
}

func TestFetchGameweekStats_MapsRows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rounds/4/player-stats" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("X-Api-Key"); got != "test-key" {
			t.Errorf("expected api key header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"playerId":"p1","played":true,"tries":2,"tackles":31,"metres":144},
			{"playerId":"","played":true,"tries":9},
			{"playerId":"p2","played":false}
		]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)
	rows, err := client.FetchGameweekStats(context.Background(), 4)
	if err != nil {
		t.Fatalf("fetch stats: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows after dropping the blank player id, got %d", len(rows))
	}
	if rows[0].PlayerID != "p1" || rows[0].Tries != 2 || rows[0].Tackles != 31 || rows[0].Metres != 144 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if !rows[0].Played {
		t.Fatalf("expected first row played")
	}
	if rows[1].PlayerID != "p2" || rows[1].Played {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
}

func TestFetchGameweekStats_RetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"playerId":"p1","played":true}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 2)
	rows, err := client.FetchGameweekStats(context.Background(), 1)
	if err != nil {
		t.Fatalf("fetch stats: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", got)
	}
}

func TestFetchGameweekStats_DoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 3)
	if _, err := client.FetchGameweekStats(context.Background(), 7); err == nil {
		t.Fatalf("expected error for 404 response")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single upstream call, got %d", got)
	}
}

func TestFetchGameweekStats_RejectsNegativeRound(t *testing.T) {
	client := newTestClient(t, "http://localhost:1", 0)
	if _, err := client.FetchGameweekStats(context.Background(), -1); err == nil {
		t.Fatalf("expected error for negative round")
	}
}

func TestFetchGameweekStats_CircuitOpenRejects(t *testing.T) {
	client := NewClient(ClientConfig{
		BaseURL:    "http://localhost:1",
		Timeout:    time.Second,
		MaxRetries: 0,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	// First call fails against a closed port and trips the breaker.
	if _, err := client.FetchGameweekStats(context.Background(), 1); err == nil {
		t.Fatalf("expected transport error")
	}
	if _, err := client.FetchGameweekStats(context.Background(), 1); err == nil {
		t.Fatalf("expected circuit breaker rejection")
	}
}
