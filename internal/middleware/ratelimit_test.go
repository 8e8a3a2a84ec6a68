// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, time.Second)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d within limit was denied", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Error("request over the limit was allowed")
	}

	// The limit is tracked per client.
	if !rl.allow("10.0.0.2") {
		t.Error("fresh client was denied")
	}
}

func TestRateLimiterSlidingWindow(t *testing.T) {
	rl := NewRateLimiter(2, 80*time.Millisecond)
	defer rl.Stop()

	rl.allow("10.0.0.1")
	rl.allow("10.0.0.1")
	if rl.allow("10.0.0.1") {
		t.Fatal("third request in window was allowed")
	}

	time.Sleep(120 * time.Millisecond)

	if !rl.allow("10.0.0.1") {
		t.Error("request after window expiry was denied")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := NewRateLimiter(2, time.Second)
	defer rl.Stop()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
		req.RemoteAddr = "203.0.113.7:40000"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	if got := send(); got != http.StatusOK {
		t.Fatalf("first request: got %d, want 200", got)
	}
	if got := send(); got != http.StatusOK {
		t.Fatalf("second request: got %d, want 200", got)
	}
	if got := send(); got != http.StatusTooManyRequests {
		t.Errorf("third request: got %d, want 429", got)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		want       string
	}{
		{"forwarded-for single", "198.51.100.4", "", "10.0.0.1:555", "198.51.100.4"},
		{"forwarded-for chain takes first", "198.51.100.4, 10.0.0.2, 10.0.0.3", "", "10.0.0.1:555", "198.51.100.4"},
		{"real-ip", "", "198.51.100.9", "10.0.0.1:555", "198.51.100.9"},
		{"remote addr with port", "", "", "198.51.100.12:3999", "198.51.100.12"},
		{"remote addr bare", "", "", "198.51.100.12", "198.51.100.12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(5, 40*time.Millisecond)
	defer rl.Stop()

	rl.allow("stale")
	rl.allow("fresh")

	time.Sleep(60 * time.Millisecond)
	rl.allow("fresh")

	rl.cleanup()

	rl.mu.RLock()
	_, staleKept := rl.clients["stale"]
	_, freshKept := rl.clients["fresh"]
	rl.mu.RUnlock()

	if staleKept {
		t.Error("stale client survived cleanup")
	}
	if !freshKept {
		t.Error("active client was evicted")
	}
}
