package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestRateLimiter_BurstThen429(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{PerMinute: 1, Burst: 2}, zerolog.Nop())
	t.Cleanup(rl.Stop)

	e := echo.New()
	e.POST("/login", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, rl.Middleware())

	do := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := do("10.0.0.1"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
	rec := do("10.0.0.1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Fatalf("expected Retry-After 60, got %q", rec.Header().Get("Retry-After"))
	}

	if rec := do("10.0.0.2"); rec.Code != http.StatusOK {
		t.Fatalf("other clients are limited separately, got %d", rec.Code)
	}
	if rl.Len() != 2 {
		t.Fatalf("expected 2 tracked clients, got %d", rl.Len())
	}
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{PerMinute: 60, Burst: 1, CleanupInterval: time.Minute}, zerolog.Nop())
	t.Cleanup(rl.Stop)

	rl.get("a")
	rl.evictIdle(time.Now())
	if rl.Len() != 1 {
		t.Fatal("fresh entries must survive")
	}
	rl.evictIdle(time.Now().Add(2 * time.Minute))
	if rl.Len() != 0 {
		t.Fatal("idle entries must be evicted")
	}
	rl.Stop()
}
