package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"taxfiling/internal/middleware"
)

func observedEngine(level zapcore.Level) (*gin.Engine, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	log := zap.New(core)

	r := gin.New()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { panic("boom") })
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r, logs
}

func TestRequestID_PropagatesHeader(t *testing.T) {
	r, _ := observedEngine(zapcore.InfoLevel)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ok", http.NoBody)
	req.Header.Set("X-Request-ID", "req-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestRequestID_Generated(t *testing.T) {
	r, _ := observedEngine(zapcore.InfoLevel)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ok", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}

func TestLogger_HealthProbesBelowInfo(t *testing.T) {
	r, logs := observedEngine(zapcore.InfoLevel)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, 0, logs.FilterMessage("http_request").Len())
}

func TestLogger_RecordsRoute(t *testing.T) {
	r, logs := observedEngine(zapcore.InfoLevel)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ok", http.NoBody)
	r.ServeHTTP(w, req)

	entries := logs.FilterMessage("http_request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/ok", entries[0].ContextMap()["route"])
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
}

func TestRecovery_Returns500(t *testing.T) {
	r, logs := observedEngine(zapcore.InfoLevel)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/boom", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}
