package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"taxfiling/internal/handler"
	"taxfiling/internal/middleware"
)

const testActor = "user:00000000-0000-0000-0000-000000000001"

func init() {
	gin.SetMode(gin.TestMode)
}

// newAuthedContext builds a test context carrying tenant and actor, as
// AuthMiddleware would leave it.
func newAuthedContext(method, target string, body interface{}, params ...gin.Param) (*gin.Context, *httptest.ResponseRecorder, uuid.UUID) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request, _ = http.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params

	tenantID := uuid.New()
	c.Set(middleware.ContextKeyTenantID, tenantID)
	c.Set(middleware.ContextKeyActor, testActor)
	return c, w, tenantID
}

func decode(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func param(key, value string) gin.Param {
	return gin.Param{Key: key, Value: value}
}
