package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/optica-api/internal/config"
)

func TestRateLimiterConfigFrom(t *testing.T) {
	got := RateLimiterConfigFrom(&config.RateLimitConfig{Requests: 120, Duration: 60})
	if got.RequestsPerSecond != 2 || got.BurstSize != 120 {
		t.Fatalf("config = %+v", got)
	}

	got = RateLimiterConfigFrom(&config.RateLimitConfig{})
	if got != DefaultRateLimiterConfig() {
		t.Fatalf("zero config should keep defaults, got %+v", got)
	}
}

func TestClientRateLimiterPerClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewClientRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 0.001,
		BurstSize:         1,
		CleanupInterval:   time.Hour,
		EntryTTL:          time.Hour,
	})
	defer rl.Stop()

	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/suggestions", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/suggestions", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := get("10.0.0.1"); code != http.StatusOK {
		t.Fatalf("first = %d", code)
	}
	if code := get("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("second = %d", code)
	}
	if code := get("10.0.0.2"); code != http.StatusOK {
		t.Fatalf("other client = %d", code)
	}
}

func TestClientRateLimiterCleanup(t *testing.T) {
	rl := NewClientRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 1, CleanupInterval: time.Hour, EntryTTL: time.Millisecond})
	defer rl.Stop()

	rl.getLimiter("10.0.0.1")
	time.Sleep(5 * time.Millisecond)
	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if len(rl.limiters) != 0 {
		t.Fatalf("stale entries kept: %d", len(rl.limiters))
	}
}
