package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestKeyByIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = net.JoinHostPort("203.0.113.9", "12345")
	c.Request = req
	if got := KeyByIP()(c); got != "ip:203.0.113.9" {
		t.Fatalf("key=%q", got)
	}
}

func TestNewRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiter(2, 0, nil)
	if rl.burst != 1 || rl.keyFn == nil {
		t.Fatalf("defaults not applied: burst=%d", rl.burst)
	}
	if rl.limiter("a") != rl.limiter("a") {
		t.Fatal("limiter not reused")
	}
	if rl.retryAfter() != "1" {
		t.Fatalf("retryAfter=%s", rl.retryAfter())
	}
	if NewRateLimiter(0.1, 1, nil).retryAfter() != "10" {
		t.Fatal("retryAfter for slow rate")
	}
}

func TestRateLimiter_SweepsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)
	now := time.Unix(0, 0)
	rl.now = func() time.Time { return now }
	rl.limiter("old")
	now = now.Add(time.Hour)
	rl.sweepN = 999
	rl.limiter("new")
	if rl.Len() != 1 {
		t.Fatalf("buckets=%d", rl.Len())
	}
}

func TestRateLimiter_Handler429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewRateLimiter(1, 1, KeyByIP()).Handler())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		return w
	}
	if w := do(); w.Code != http.StatusOK {
		t.Fatalf("first=%d", w.Code)
	}
	w := do()
	if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") == "" {
		t.Fatalf("second=%d retry=%q", w.Code, w.Header().Get("Retry-After"))
	}
}
