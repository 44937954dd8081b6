package middleware

import (
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-portfolio-backend/internal/domain"
	"go-portfolio-backend/pkg/apperror"
	"go-portfolio-backend/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
	security.SetDefault(security.NewSecurityLogger(zap.NewNop(), "portfolio-backend", "test"))
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	var seenCtx, seenGin string
	r.GET("/", func(c *gin.Context) {
		seenGin = GetRequestID(c)
		seenCtx, _ = c.Request.Context().Value(domain.KeyRequestID).(string)
		c.Status(http.StatusOK)
	})

	t.Run("generates", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
		id := w.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, seenGin)
		assert.Equal(t, id, seenCtx)
	})

	t.Run("reuses incoming", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := serve(r, req)
		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	})

	t.Run("replaces oversized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", 200))
		w := serve(r, req)
		assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	})
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/bad", func(c *gin.Context) { c.Error(apperror.BadRequest(domain.MsgMissingFields)) })
	r.GET("/internal", func(c *gin.Context) {
		c.Error(apperror.Internal(domain.MsgDeliveryFailed, errors.New("dial tcp: refused")))
	})
	r.GET("/raw", func(c *gin.Context) { c.Error(errors.New("secret detail")) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/bad", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"All fields are required"}`, w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodGet, "/internal", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Failed to send message. Please try again later."}`, w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodGet, "/raw", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("nil map") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Failed to send message. Please try again later."}`, w.Body.String())
}

func TestCORSMiddleware(t *testing.T) {
	newEngine := func(production bool) *gin.Engine {
		r := gin.New()
		r.Use(CORSMiddleware([]string{"https://portfolio.example.com/"}, production))
		r.POST("/contact", func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	request := func(method, origin string) *http.Request {
		req := httptest.NewRequest(method, "/contact", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		return req
	}

	prod := newEngine(true)

	w := serve(prod, request(http.MethodOptions, "https://portfolio.example.com"))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://portfolio.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(prod, request(http.MethodOptions, "http://localhost:3000"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(prod, request(http.MethodPost, "https://evil.example.com"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(prod, request(http.MethodPost, ""))
	assert.Equal(t, http.StatusOK, w.Code)

	dev := newEngine(false)
	w = serve(dev, request(http.MethodOptions, "http://localhost:3000"))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeadersMiddleware())
	r.POST("/contact", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodPost, "/contact", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestRateLimitMiddleware_InMemory(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler())
	r.POST("/contact", RateLimitMiddleware(ContactRateLimitConfig(3, time.Minute)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	post := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/contact", nil)
		req.RemoteAddr = ip + ":40000"
		return serve(r, req)
	}

	for i := 0; i < 3; i++ {
		w := post("10.0.0.1")
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
	}

	w := post("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"message":"Too many messages. Please try again later."}`, w.Body.String())
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// Budgets are per client
	assert.Equal(t, http.StatusOK, post("10.0.0.2").Code)
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	r := gin.New()
	r.POST("/contact", RateLimitMiddleware(ContactRateLimitConfig(0, time.Minute)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 10; i++ {
		w := serve(r, httptest.NewRequest(http.MethodPost, "/contact", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestMemoryStore_WindowReset(t *testing.T) {
	store := &memoryStore{}
	cfg := RateLimitConfig{Limit: 1, Window: time.Minute}
	now := time.Now()

	count, _ := store.check("k", cfg, now)
	assert.Equal(t, 1, count)
	count, _ = store.check("k", cfg, now.Add(time.Second))
	assert.Equal(t, 2, count)

	count, _ = store.check("k", cfg, now.Add(2*time.Minute))
	assert.Equal(t, 1, count)

	store.sweep(now.Add(10 * time.Minute))
	_, found := store.entries.Load("k")
	assert.False(t, found)
}

// observeSecurity swaps the default security logger for an observed one.
func observeSecurity(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	previous := security.DefaultLogger()
	core, logs := observer.New(zapcore.DebugLevel)
	security.SetDefault(security.NewSecurityLogger(zap.New(core), "portfolio-backend", "test"))
	t.Cleanup(func() { security.SetDefault(previous) })
	return logs
}

// unreachableRedis returns a client pointed at a closed local port.
func unreachableRedis(t *testing.T) *goredis.Client {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	client := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRateLimitMiddleware_RedisErrorFallsBackToMemory(t *testing.T) {
	logs := observeSecurity(t)
	client := unreachableRedis(t)

	cfg := ContactRateLimitConfig(1, time.Minute)
	cfg.Redis = func() *goredis.Client { return client }

	r := gin.New()
	r.Use(ErrorHandler())
	r.POST("/contact", RateLimitMiddleware(cfg), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodPost, "/contact", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// The in-memory budget still applies
	w = serve(r, httptest.NewRequest(http.MethodPost, "/contact", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	storeErrors := logs.FilterMessage(string(security.EventRateLimitStoreError)).All()
	require.Len(t, storeErrors, 2)
	assert.Contains(t, storeErrors[0].ContextMap()["details"], "redis_error_fallback")
}

func TestRateLimitMiddleware_FailClosed(t *testing.T) {
	logs := observeSecurity(t)
	client := unreachableRedis(t)

	cfg := ContactRateLimitConfig(5, time.Minute)
	cfg.FailClosed = true
	cfg.Redis = func() *goredis.Client { return client }

	r := gin.New()
	r.Use(ErrorHandler())
	r.POST("/contact", RateLimitMiddleware(cfg), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodPost, "/contact", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "dial")

	storeErrors := logs.FilterMessage(string(security.EventRateLimitStoreError)).All()
	require.Len(t, storeErrors, 1)
	assert.Contains(t, storeErrors[0].ContextMap()["details"], `"redis_error"`)
}

func TestMemoryStore_SweepsInline(t *testing.T) {
	store := &memoryStore{}
	cfg := RateLimitConfig{Limit: 1, Window: time.Minute}
	start := time.Now()

	store.check("stale", cfg, start)

	// Not yet due: the stale entry survives
	store.check("other", cfg, start.Add(30*time.Second))
	_, found := store.entries.Load("stale")
	assert.True(t, found)

	// Past the sweep interval and the entry's window
	store.check("other", cfg, start.Add(2*time.Minute))
	_, found = store.entries.Load("stale")
	assert.False(t, found)
}
