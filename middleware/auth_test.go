package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func authTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": TokenEmail(c)})
	})
	return r
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	r := authTestRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	r := authTestRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic abc123")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareBadSignature(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "x@example.com"})
	signed, err := token.SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	r := authTestRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareMissingEmailClaim(t *testing.T) {
	r := authTestRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, jwt.MapClaims{"sub": "123"}))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	r := authTestRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, jwt.MapClaims{"email": "buyer@example.com"}))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "buyer@example.com")
}

type staticRoles struct {
	role string
	err  error
}

func (s staticRoles) Role(ctx context.Context, email string) (string, error) {
	return s.role, s.err
}

func roleTestRouter(roles RoleResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/seller-only",
		AuthMiddleware(testSecret),
		RequireRole(roles, "seller"),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	return r
}

func TestRequireRoleAllows(t *testing.T) {
	r := roleTestRouter(staticRoles{role: "seller"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/seller-only", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, jwt.MapClaims{"email": "s@example.com"}))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleRejectsWrongRole(t *testing.T) {
	r := roleTestRouter(staticRoles{role: "customer"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/seller-only", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, jwt.MapClaims{"email": "c@example.com"}))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRoleRejectsLookupFailure(t *testing.T) {
	r := roleTestRouter(staticRoles{err: errors.New("store down")})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/seller-only", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, jwt.MapClaims{"email": "s@example.com"}))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
