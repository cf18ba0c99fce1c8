package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"taxfiling/internal/auth"
	"taxfiling/internal/domain"
	"taxfiling/internal/middleware"
)

type stubValidator struct {
	claims *auth.Claims
	err    error
}

func (s stubValidator) Validate(string) (*auth.Claims, error) {
	return s.claims, s.err
}

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedEngine(v auth.TokenValidator, roles ...domain.UserRole) *gin.Engine {
	r := gin.New()
	r.Use(middleware.AuthMiddleware(v))
	if len(roles) > 0 {
		r.Use(middleware.RequireRole(roles...))
	}
	r.GET("/test", func(c *gin.Context) {
		tenantID, _ := middleware.GetTenantID(c)
		c.JSON(http.StatusOK, gin.H{"tenant_id": tenantID.String(), "actor": middleware.GetActor(c)})
	})
	return r
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	claims := &auth.Claims{TenantID: uuid.New(), UserID: uuid.New(), Role: domain.RoleMember}
	r := protectedEngine(stubValidator{claims: claims})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer good")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), claims.TenantID.String())
	assert.Contains(t, w.Body.String(), "user:"+claims.UserID.String())
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	r := protectedEngine(stubValidator{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	r := protectedEngine(stubValidator{err: domain.ErrUnauthorized})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer bad")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestRequireRole_Forbidden(t *testing.T) {
	claims := &auth.Claims{TenantID: uuid.New(), UserID: uuid.New(), Role: domain.RoleMember}
	r := protectedEngine(stubValidator{claims: claims}, domain.RoleAdmin)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer good")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole_Allowed(t *testing.T) {
	claims := &auth.Claims{TenantID: uuid.New(), UserID: uuid.New(), Role: domain.RoleAdmin}
	r := protectedEngine(stubValidator{claims: claims}, domain.RoleAdmin)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer good")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetTenantID_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := middleware.GetTenantID(c)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Empty(t, middleware.GetActor(c))
}
