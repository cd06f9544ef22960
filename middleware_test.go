package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORSMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(corsMiddleware())
	e.GET("/videos", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/videos", nil)
	req.Header.Set(echo.HeaderOrigin, "https://app.example.net")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	// preflight
	req = httptest.NewRequest(http.MethodOptions, "/videos", nil)
	req.Header.Set(echo.HeaderOrigin, "https://app.example.net")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPut)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods), http.MethodPut)
}

func TestAuthMiddleware(t *testing.T) {
	const secret = "test-secret"

	e := echo.New()
	var seenUser string
	e.GET("/protected", func(c echo.Context) error {
		seenUser, _ = c.Get("user_id").(string)
		return c.NoContent(http.StatusOK)
	}, authMiddleware(secret))

	call := func(authorization string) int {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if authorization != "" {
			req.Header.Set(echo.HeaderAuthorization, authorization)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, call(""))
	assert.Equal(t, http.StatusUnauthorized, call("Bearer not-a-token"))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, call("Bearer "+signed))
	assert.Equal(t, "user-42", seenUser)

	// wrong key
	other, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "user-42",
	}).SignedString([]byte("different-secret"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, call("Bearer "+other))
}
