package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(handlers...)
	engine.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})
	engine.GET("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func get(engine *gin.Engine, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestRequestID(t *testing.T) {
	engine := newEngine(RequestID())

	rec := get(engine, "/ping", nil)
	id := rec.Header().Get(RequestIDHeader)
	require.NotEmpty(t, id)
	assert.Equal(t, id, rec.Body.String())

	rec = get(engine, "/ping", map[string]string{RequestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", rec.Body.String())
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             2,
		SkipPaths:         []string{"/healthz"},
	})
	engine := newEngine(limiter.Middleware())

	assert.Equal(t, http.StatusOK, get(engine, "/ping", nil).Code)
	assert.Equal(t, http.StatusOK, get(engine, "/ping", nil).Code)

	rec := get(engine, "/ping", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"success":false,"errors":["rate limit exceeded, try again later"]}`, rec.Body.String())

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, get(engine, "/healthz", nil).Code)
	}
}

func TestRateLimiter_Cleanup(t *testing.T) {
	limiter := NewRateLimiter(DefaultRateLimitConfig())
	limiter.get("10.0.0.1")
	limiter.get("10.0.0.2")

	assert.Equal(t, 0, limiter.Cleanup(time.Hour))
	assert.Equal(t, 2, limiter.Cleanup(0))
	assert.Empty(t, limiter.visitors)
}

func TestAccessLog(t *testing.T) {
	engine := newEngine(RequestID(), AccessLog())
	assert.Equal(t, http.StatusOK, get(engine, "/ping", nil).Code)
	assert.Equal(t, http.StatusNotFound, get(engine, "/missing", nil).Code)
	assert.Equal(t, "4xx", statusClass(http.StatusNotFound))
	assert.Equal(t, "2xx", statusClass(http.StatusNoContent))
}
