package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paydown/finance-tracker/internal/config"
	"github.com/paydown/finance-tracker/internal/middleware"
)

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}

	var gotUserID int64
	var nextCalled bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		gotUserID, _ = middleware.UserIDFromContext(r.Context())
	})
	protected := middleware.AuthMiddleware(cfg)(next)

	serve := func(authHeader string) *httptest.ResponseRecorder {
		nextCalled = false
		gotUserID = 0
		req := httptest.NewRequest(http.MethodGet, "/projection", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing header", func(t *testing.T) {
		rec := serve("")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, nextCalled)
	})

	t.Run("malformed token", func(t *testing.T) {
		rec := serve("Bearer not-a-token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, nextCalled)
	})

	t.Run("wrong secret", func(t *testing.T) {
		rec := serve("Bearer " + signToken(t, "other-secret", "7"))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, nextCalled)
	})

	t.Run("non-numeric subject", func(t *testing.T) {
		rec := serve("Bearer " + signToken(t, cfg.JWTSecret, "alice"))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, nextCalled)
	})

	t.Run("valid token reaches handler with user id", func(t *testing.T) {
		rec := serve("Bearer " + signToken(t, cfg.JWTSecret, "7"))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, nextCalled)
		assert.Equal(t, int64(7), gotUserID)
	})
}

func TestUserIDFromContextWithoutAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := middleware.UserIDFromContext(req.Context())
	assert.False(t, ok)
}
