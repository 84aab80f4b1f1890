package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestCORSAllowList(t *testing.T) {
	r := newRouter(CORS([]string{"https://app.example.com"}))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	r := newRouter(CORS(nil))
	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSecureHeaders(t *testing.T) {
	r := newRouter(Secure())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestSensitiveResponsesNotCached(t *testing.T) {
	r := newRouter(Secure())
	r.POST("/api/payments/verify", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, "no-store", serve(r, http.MethodPost, "/api/payments/verify").Header().Get("Cache-Control"))
	assert.Empty(t, serve(r, http.MethodGet, "/ping").Header().Get("Cache-Control"))
}

func TestRateLimiterGeneralBudget(t *testing.T) {
	r := newRouter(RateLimiter(Limits{General: Budget{Max: 2, Window: time.Hour}}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, serve(r, http.MethodGet, "/ping").Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiterSensitiveBudget(t *testing.T) {
	r := newRouter(RateLimiter(Limits{
		General:        Budget{Max: 100, Window: time.Hour},
		Sensitive:      Budget{Max: 2, Window: time.Hour},
		SensitivePaths: DefaultSensitivePaths,
	}))
	r.POST("/api/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/api/payments/orders", func(c *gin.Context) { c.Status(http.StatusCreated) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/api/login").Code)
	assert.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/api/payments/orders").Code)

	w := serve(r, http.MethodPost, "/api/login")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1800", w.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodPost, "/api/payments/orders").Code)

	// the general bucket is untouched by the login burst
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ping").Code)
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	r := newRouter(RateLimiter(Limits{SensitivePaths: DefaultSensitivePaths}))
	r.POST("/api/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ping").Code)
		assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/api/login").Code)
	}
}

func TestIsSensitive(t *testing.T) {
	assert.True(t, isSensitive("/api/login", DefaultSensitivePaths))
	assert.True(t, isSensitive("/api/payments/fail", DefaultSensitivePaths))
	assert.False(t, isSensitive("/api/payments", DefaultSensitivePaths))
	assert.False(t, isSensitive("/api/login/extra", DefaultSensitivePaths))
	assert.False(t, isSensitive("/api/courses", DefaultSensitivePaths))
}
