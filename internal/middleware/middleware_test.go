package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newRouter(t *testing.T, mws ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mws...)
	router.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": c.GetString(RequestIDKey)})
	})
	router.GET("/panic", func(*gin.Context) {
		panic("boom")
	})
	return router
}

func serve(router *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	router := newRouter(t, RequestID())

	w := serve(router, http.MethodGet, "/ok", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, err := uuid.Parse(w.Header().Get("X-Request-ID"))
	assert.NoError(t, err)

	w = serve(router, http.MethodGet, "/ok", map[string]string{"X-Request-ID": "abc"})
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
	assert.Contains(t, w.Body.String(), `"request_id":"abc"`)
}

func TestRecovery(t *testing.T) {
	logger := zaptest.NewLogger(t)
	router := newRouter(t, Recovery(logger), Logger(logger))

	w := serve(router, http.MethodGet, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "UNKNOWN_ERROR")
}

func TestCORS(t *testing.T) {
	router := newRouter(t, CORS())

	w := serve(router, http.MethodOptions, "/ok", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func serveFrom(router *gin.Engine, remoteAddr string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	router := newRouter(t, RateLimiter(0.001, 2))

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/ok", nil).Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/ok", nil).Code)

	w := serve(router, http.MethodGet, "/ok", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	other := serveFrom(router, "198.51.100.7:4000", nil)
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestRateLimiter_IgnoresForwardedHeadersFromUntrustedPeers(t *testing.T) {
	router := newRouter(t, RateLimiter(0.001, 1))
	require.NoError(t, router.SetTrustedProxies(nil))

	first := serveFrom(router, "203.0.113.5:1234", map[string]string{"X-Forwarded-For": "10.0.0.1"})
	assert.Equal(t, http.StatusOK, first.Code)

	for _, forwarded := range []string{"10.0.0.2", "10.0.0.3", "10.0.0.4"} {
		w := serveFrom(router, "203.0.113.5:1234", map[string]string{
			"X-Forwarded-For": forwarded,
			"X-Real-IP":       forwarded,
		})
		assert.Equal(t, http.StatusTooManyRequests, w.Code, forwarded)
	}
}

func TestRateLimiter_HonorsForwardedHeadersFromTrustedProxy(t *testing.T) {
	router := newRouter(t, RateLimiter(0.001, 1))
	require.NoError(t, router.SetTrustedProxies([]string{"192.0.2.10"}))

	a := serveFrom(router, "192.0.2.10:8080", map[string]string{"X-Forwarded-For": "10.0.0.1"})
	b := serveFrom(router, "192.0.2.10:8080", map[string]string{"X-Forwarded-For": "10.0.0.2"})
	again := serveFrom(router, "192.0.2.10:8080", map[string]string{"X-Forwarded-For": "10.0.0.1"})

	assert.Equal(t, http.StatusOK, a.Code)
	assert.Equal(t, http.StatusOK, b.Code)
	assert.Equal(t, http.StatusTooManyRequests, again.Code)
}

func TestIPLimiters_EvictsIdleClients(t *testing.T) {
	clk := clock.NewMock()
	limiters := newIPLimiters(0.001, 1, time.Minute, clk)

	assert.True(t, limiters.allow("10.0.0.1"))
	assert.True(t, limiters.allow("10.0.0.2"))
	assert.False(t, limiters.allow("10.0.0.1"))
	assert.Equal(t, 2, limiters.size())

	clk.Add(30 * time.Second)
	assert.True(t, limiters.allow("10.0.0.3"))
	assert.Equal(t, 3, limiters.size())

	clk.Add(45 * time.Second)
	assert.False(t, limiters.allow("10.0.0.3"))
	assert.Equal(t, 1, limiters.size(), "clients idle past the window are dropped")

	// An evicted client starts with a fresh bucket.
	assert.True(t, limiters.allow("10.0.0.1"))
}

func TestRateLimiter_Disabled(t *testing.T) {
	router := newRouter(t, RateLimiter(0, 0))
	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/ok", nil).Code)
	}
}
