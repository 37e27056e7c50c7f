package middleware_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	"github.com/SscSPs/invoicing_app/internal/middleware"
)

const testSecret = "test-secret"

func newRouter(cfg middleware.AuthConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(slog.Default()), middleware.AuthMiddleware(cfg))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.ActorID(c))
	})
	return r
}

func signToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	r := newRouter(middleware.AuthConfig{JWTSecret: testSecret, Issuer: "books"})
	token := signToken(t, jwt.RegisteredClaims{
		Subject:   "user-42",
		Issuer:    "books",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	w := doRequest(r, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-42", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestAuthMiddlewareRejects(t *testing.T) {
	r := newRouter(middleware.AuthConfig{JWTSecret: testSecret, Issuer: "books"})

	expired := signToken(t, jwt.RegisteredClaims{
		Subject:   "user-42",
		Issuer:    "books",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	wrongIssuer := signToken(t, jwt.RegisteredClaims{
		Subject:   "user-42",
		Issuer:    "elsewhere",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	noSubject := signToken(t, jwt.RegisteredClaims{
		Issuer:    "books",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	cases := map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc",
		"expired":        "Bearer " + expired,
		"wrong issuer":   "Bearer " + wrongIssuer,
		"no subject":     "Bearer " + noSubject,
		"garbage":        "Bearer not-a-token",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			w := doRequest(r, header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthMiddlewareDisabledUsesSystemUser(t *testing.T) {
	r := newRouter(middleware.AuthConfig{Disabled: true})

	w := doRequest(r, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.SystemUser, w.Body.String())
}

func TestStructuredLoggingKeepsIncomingRequestID(t *testing.T) {
	r := newRouter(middleware.AuthConfig{Disabled: true})
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(middleware.RequestIDHeader))
}
