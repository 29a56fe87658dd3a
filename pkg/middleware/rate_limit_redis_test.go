package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisLimitedRouter(t *testing.T, rps float64, burst int, window time.Duration) (*gin.Engine, *mr.Miniredis) {
	t.Helper()
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	r := gin.New()
	r.Use(RedisRateLimitMiddleware(client, rps, burst, window))
	r.GET("/r", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	return r, m
}

func TestRedisRateLimitMiddleware_WindowExpiry(t *testing.T) {
	r, m := newRedisLimitedRouter(t, 1, 0, 1*time.Second) // 1 req/sec, no burst

	// first request allowed
	rq1 := httptest.NewRequest("GET", "/r", nil)
	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, rq1)
	require.Equal(t, http.StatusOK, w1.Code)

	// immediate second request -> blocked, envelope body with Retry-After
	rq2 := httptest.NewRequest("GET", "/r", nil)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, rq2)
	require.Equal(t, http.StatusTooManyRequests, w2.Code)
	require.Equal(t, "1", w2.Header().Get("Retry-After"))

	var body struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &body))
	require.Equal(t, http.StatusTooManyRequests, body.Status)
	require.Equal(t, "Rate limit exceeded", body.Message)

	// advance miniredis clock past window and request should be allowed
	m.FastForward(2 * time.Second)
	rq3 := httptest.NewRequest("GET", "/r", nil)
	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, rq3)
	require.Equal(t, http.StatusOK, w3.Code)
}

func TestRedisRateLimitMiddleware_BucketsPerAdminSubject(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})

	// two routers sharing one Redis, each injecting a different verified
	// admin subject; both hit from the same (test) client IP
	buildRouter := func(subject string) *gin.Engine {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			c.Set("adminSubject", subject)
			c.Next()
		})
		r.Use(RedisRateLimitMiddleware(client, 1, 0, 1*time.Second))
		r.GET("/u", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
		return r
	}
	rAlice := buildRouter("alice")
	rBob := buildRouter("bob")

	// alice uses up her window
	w1 := httptest.NewRecorder()
	rAlice.ServeHTTP(w1, httptest.NewRequest("GET", "/u", nil))
	require.Equal(t, http.StatusOK, w1.Code)

	w2 := httptest.NewRecorder()
	rAlice.ServeHTTP(w2, httptest.NewRequest("GET", "/u", nil))
	require.Equal(t, http.StatusTooManyRequests, w2.Code)

	// bob is keyed separately and still gets through
	w3 := httptest.NewRecorder()
	rBob.ServeHTTP(w3, httptest.NewRequest("GET", "/u", nil))
	require.Equal(t, http.StatusOK, w3.Code)
}
