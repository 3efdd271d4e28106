package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akolanti/DocIngest/internal/config"
	"github.com/akolanti/DocIngest/internal/handlers"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

func traceEcho(w http.ResponseWriter, r *http.Request) {
	traceId, _ := r.Context().Value(config.TRACE_ID_KEY).(string)
	w.Header().Set("X-Seen-Trace", traceId)
	w.WriteHeader(http.StatusNoContent)
}

func serve(t *testing.T, remote string, authHeader string, traceHeader string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/echo", Wrap(traceEcho))

	req := httptest.NewRequest(http.MethodGet, "/echo", nil)
	req.RemoteAddr = remote
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	if traceHeader != "" {
		req.Header.Set("X-Trace-Id", traceHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestMain(m *testing.M) {
	handlers.InitJobHandler(nil, config.IngestConfig{})
	Configure(config.ServerConfig{AuthToken: "secret"})
	m.Run()
}

func TestAuthentication(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"Missing_Header", "", http.StatusUnauthorized},
		{"Not_Bearer", "Basic secret", http.StatusUnauthorized},
		{"Wrong_Token", "Bearer nope", http.StatusUnauthorized},
		{"Valid_Token", "Bearer secret", http.StatusNoContent},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, "198.51.100."+string(rune('1'+i))+":4000", tt.header, "")
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestAuthBypass(t *testing.T) {
	Configure(config.ServerConfig{NoAuth: true})
	defer Configure(config.ServerConfig{AuthToken: "secret"})

	rec := serve(t, "198.51.100.20:4000", "", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}

func TestEmptyConfiguredTokenRejects(t *testing.T) {
	Configure(config.ServerConfig{})
	defer Configure(config.ServerConfig{AuthToken: "secret"})

	rec := serve(t, "198.51.100.21:4000", "Bearer ", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestTraceInjection(t *testing.T) {
	rec := serve(t, "198.51.100.30:4000", "Bearer secret", "trace-from-client")
	if got := rec.Header().Get("X-Seen-Trace"); got != "trace-from-client" {
		t.Errorf("handler saw trace %q", got)
	}
	if got := rec.Header().Get("X-Trace-Id"); got != "trace-from-client" {
		t.Errorf("response trace header %q", got)
	}

	rec = serve(t, "198.51.100.30:4000", "Bearer secret", "")
	if rec.Header().Get("X-Seen-Trace") == "" {
		t.Error("expected a generated trace id")
	}
}

func TestRateLimiter(t *testing.T) {
	previous := limiterInstance
	limiterInstance = NewIPRateLimiter(rate.Limit(0.001), 2)
	defer func() { limiterInstance = previous }()

	remote := "203.0.113.7:5000"
	for i := 0; i < 2; i++ {
		if rec := serve(t, remote, "Bearer secret", ""); rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}
	if rec := serve(t, remote, "Bearer secret", ""); rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if rec := serve(t, "203.0.113.8:5000", "Bearer secret", ""); rec.Code != http.StatusNoContent {
		t.Errorf("other ip should not be limited, status = %d", rec.Code)
	}
}

func TestIPRateLimiter_EvictsIdleClients(t *testing.T) {
	clock := time.Unix(1_700_000_000, 0)
	limiter := NewIPRateLimiter(rate.Limit(1), 1)
	limiter.idleTTL = time.Minute
	limiter.now = func() time.Time { return clock }

	first := limiter.GetLimiter("198.51.100.1")
	limiter.GetLimiter("198.51.100.2")
	if got := limiter.tracked(); got != 2 {
		t.Fatalf("tracked = %d, want 2", got)
	}

	clock = clock.Add(30 * time.Second)
	if limiter.GetLimiter("198.51.100.1") != first {
		t.Error("an active client should keep its limiter")
	}

	clock = clock.Add(45 * time.Second)
	limiter.GetLimiter("198.51.100.3")
	if got := limiter.tracked(); got != 2 {
		t.Errorf("tracked = %d, want 2 after the idle client is evicted", got)
	}
}

func TestIPRateLimiter_CapsTrackedClients(t *testing.T) {
	clock := time.Unix(1_700_000_000, 0)
	limiter := NewIPRateLimiter(rate.Limit(1), 1)
	limiter.maxClients = 3
	limiter.now = func() time.Time { return clock }

	for i := 0; i < 10; i++ {
		clock = clock.Add(time.Millisecond)
		limiter.GetLimiter(fmt.Sprintf("192.0.2.%d", i))
	}

	if got := limiter.tracked(); got != 3 {
		t.Errorf("tracked = %d, want 3", got)
	}
}
