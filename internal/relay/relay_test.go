package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/blgtrack/vlrsync/internal/match"
	"github.com/blgtrack/vlrsync/internal/scraper"
	"github.com/blgtrack/vlrsync/internal/sync"
)

type fakeSyncer struct {
	outcome *match.Outcome
	err     error
	calls   int
}

func (f *fakeSyncer) Run(ctx context.Context, opts sync.Options) (*match.Outcome, error) {
	f.calls++
	return f.outcome, f.err
}

func newTestServer(syncer Syncer) *Server {
	return New("127.0.0.1:0", syncer, "test-key", zerolog.Nop())
}

func TestHostAllowed(t *testing.T) {
	tests := []struct {
		hostname string
		expected bool
	}{
		{"vlr.orlandomm.net", true},
		{"api.bilibili.com", true},
		{"liquipedia.net", true},
		{"www.liquipedia.net", true},
		{"evil.example.com", false},
		{"liquipedia.net.evil.com", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.hostname, func(t *testing.T) {
			if got := HostAllowed(tt.hostname); got != tt.expected {
				t.Errorf("HostAllowed(%q) = %v, expected %v", tt.hostname, got, tt.expected)
			}
		})
	}
}

func TestProxyMissingURL(t *testing.T) {
	server := newTestServer(&fakeSyncer{})
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/proxy", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing url, got %d", rec.Code)
	}
}

func TestProxyDisallowedDomain(t *testing.T) {
	server := newTestServer(&fakeSyncer{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/proxy?url=https%3A%2F%2Fevil.example.com%2Fx", nil)
	server.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for disallowed domain, got %d", rec.Code)
	}
}

func TestProxyInvalidURL(t *testing.T) {
	server := newTestServer(&fakeSyncer{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/proxy?url=%3A%2F%2Fbroken", nil)
	server.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid url, got %d", rec.Code)
	}
}

func TestSyncEndpoint(t *testing.T) {
	outcome := match.NewOutcome()
	outcome.Add("2026-03-01", "EDG", "1", match.Match{Maps: []match.MapStat{{Name: "Ascent"}}})
	outcome.Finish(time.Now())

	syncer := &fakeSyncer{outcome: outcome}
	server := newTestServer(syncer)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sync?limit=5", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var decoded match.Outcome
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if !decoded.OK || decoded.Count != 1 {
		t.Errorf("unexpected outcome %+v", decoded)
	}
	if _, ok := decoded.Data["2026-03-01_EDG"]; !ok {
		t.Error("expected result key in response data")
	}
}

func TestSyncEndpointCaches(t *testing.T) {
	outcome := match.NewOutcome()
	syncer := &fakeSyncer{outcome: outcome}
	server := newTestServer(syncer)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sync", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}

	if syncer.calls != 1 {
		t.Errorf("expected repeated requests to hit the cache, runner ran %d times", syncer.calls)
	}
}

func TestSyncEndpointUpstreamFailure(t *testing.T) {
	syncer := &fakeSyncer{err: &scraper.UpstreamError{Status: 503}}
	server := newTestServer(syncer)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sync", nil))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("error body is not valid JSON: %v", err)
	}
	if payload["status"] != float64(503) {
		t.Errorf("expected upstream status 503 in body, got %v", payload["status"])
	}
}

func TestHealthz(t *testing.T) {
	server := newTestServer(&fakeSyncer{})
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 from healthz, got %d", rec.Code)
	}
}
