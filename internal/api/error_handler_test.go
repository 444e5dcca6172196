package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"

	"github.com/creatorhub/marketplace/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"validation", domain.NewValidationError("email is required"), http.StatusBadRequest, "email is required"},
		{"token missing", domain.ErrTokenMissing, http.StatusUnauthorized, "No token provided"},
		{"token invalid", domain.ErrTokenInvalid, http.StatusUnauthorized, "Invalid token"},
		{"token expired", domain.ErrTokenExpired, http.StatusUnauthorized, "Invalid token"},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"not found", domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{"wrapped conflict", fmt.Errorf("insert: %w", domain.ErrUserExists), http.StatusConflict, "User already exists"},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{"unexpected", errors.New("dial tcp: refused"), http.StatusInternalServerError, "Server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/profile", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			assert.Equal(t, tc.code, rec.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tc.msg), rec.Body.String())
		})
	}
}

func TestHTTPErrorHandler_LogsOopsCode(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/register", nil), rec)

	err := oops.Code("ACCOUNT_INSERT_FAILED").With("email", "a@x.com").Wrap(errors.New("connection reset"))
	NewHTTPErrorHandler(log)(err, c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "ACCOUNT_INSERT_FAILED")
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusTeapot, "done")

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
}
