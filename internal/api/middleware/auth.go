package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/creatorhub/marketplace/internal/api/metrics"
	"github.com/creatorhub/marketplace/internal/core/domain"
	"github.com/creatorhub/marketplace/internal/core/ports"
)

// ClaimsKey is the echo context key holding the verified domain.Claims.
const ClaimsKey = "claims"

// Auth verifies the bearer token and injects its claims into the context.
// Failures are returned as domain token errors; the HTTP error handler
// collapses invalid and expired into one response.
func Auth(verifier ports.TokenVerifier, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err == nil {
				var claims *domain.Claims
				claims, err = verifier.Verify(token)
				if err == nil {
					metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()
					c.Set(ClaimsKey, *claims)
					return next(c)
				}
			}

			reason := tokenFailure(err)
			metrics.TokenVerificationsTotal.WithLabelValues(reason).Inc()
			log.Debug().
				Str("reason", reason).
				Str("path", c.Path()).
				Msg("rejected session token")
			return err
		}
	}
}

// bearerToken returns the substring after the first space of the
// Authorization header. Schemes other than Bearer are rejected.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", domain.ErrTokenMissing
	}
	scheme, token, found := strings.Cut(header, " ")
	if !strings.EqualFold(scheme, "bearer") {
		return "", domain.ErrTokenInvalid
	}
	token = strings.TrimSpace(token)
	if !found || token == "" {
		return "", domain.ErrTokenMissing
	}
	return token, nil
}

func tokenFailure(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenMissing):
		return "missing"
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	default:
		return "invalid"
	}
}
