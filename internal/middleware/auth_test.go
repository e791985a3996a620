package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims LedgerClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims() LedgerClaims {
	return LedgerClaims{
		CompanyID: "comp-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func authTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(testSecret), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doAuthRequest(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var gotUser, gotCompany string
	r.GET("/protected", AuthMiddleware(testSecret), func(c *gin.Context) {
		gotUser, _ = GetUserIDFromContext(c)
		gotCompany, _ = GetCompanyIDFromContext(c)
		c.Status(http.StatusOK)
	})

	token := signToken(t, validClaims(), testSecret)
	w := doAuthRequest(r, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", gotUser)
	assert.Equal(t, "comp-1", gotCompany)
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	r := authTestRouter()
	w := doAuthRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization header required")
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	r := authTestRouter()
	w := doAuthRequest(r, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Bearer")
}

func TestAuthMiddlewareWrongSecret(t *testing.T) {
	r := authTestRouter()
	token := signToken(t, validClaims(), "wrong-secret")
	w := doAuthRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	r := authTestRouter()
	claims := validClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	token := signToken(t, claims, testSecret)
	w := doAuthRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestAuthMiddlewareMissingScopeClaims(t *testing.T) {
	r := authTestRouter()

	claims := validClaims()
	claims.CompanyID = ""
	w := doAuthRequest(r, "Bearer "+signToken(t, claims, testSecret))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	claims = validClaims()
	claims.Subject = ""
	w = doAuthRequest(r, "Bearer "+signToken(t, claims, testSecret))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
