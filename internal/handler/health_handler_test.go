package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"taxfiling/internal/handler"
)

func TestHealthHandler_Readiness(t *testing.T) {
	ok := handler.PingFunc(func(context.Context) error { return nil })
	down := handler.PingFunc(func(context.Context) error { return errors.New("refused") })

	cases := []struct {
		name   string
		deps   map[string]handler.Pinger
		status int
	}{
		{"all up", map[string]handler.Pinger{"database": ok, "redis": ok}, http.StatusOK},
		{"database down", map[string]handler.Pinger{"database": down}, http.StatusServiceUnavailable},
		{"no deps", nil, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := handler.NewHealthHandler(tc.deps)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody)

			h.Readiness(c)

			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestHealthHandler_Liveness(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)

	handler.NewHealthHandler(nil).Liveness(c)

	assert.Equal(t, http.StatusOK, w.Code)
}
