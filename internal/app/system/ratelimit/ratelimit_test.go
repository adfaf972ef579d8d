package ratelimit_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anvarov/qmshub/internal/app/system/ratelimit"
)

func TestLimiter_Allow(t *testing.T) {
	l := ratelimit.New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Error("fourth request should be blocked")
	}

	// Other keys have their own windows.
	if !l.Allow("5.6.7.8") {
		t.Error("different key should be allowed")
	}
}

func TestLimiter_Remaining(t *testing.T) {
	l := ratelimit.New(5, time.Minute)

	if got := l.Remaining("k"); got != 5 {
		t.Errorf("Remaining before any request: got %d, want 5", got)
	}
	l.Allow("k")
	l.Allow("k")
	if got := l.Remaining("k"); got != 3 {
		t.Errorf("Remaining after two requests: got %d, want 3", got)
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := ratelimit.New(1, time.Minute)
	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("second request should be blocked")
	}
	l.Reset("k")
	if !l.Allow("k") {
		t.Error("request after Reset should be allowed")
	}
}

func TestMiddleware_TooManyRequests(t *testing.T) {
	l := ratelimit.New(1, time.Minute)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/v1/risks", nil)
	req.RemoteAddr = "10.0.0.1:4321"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: got %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request: got %d, want 429", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.10:5555"
	if got := ratelimit.ClientIP(r); got != "192.0.2.10" {
		t.Errorf("RemoteAddr: got %q, want 192.0.2.10", got)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := ratelimit.ClientIP(r); got != "203.0.113.7" {
		t.Errorf("X-Forwarded-For: got %q, want 203.0.113.7", got)
	}
}
