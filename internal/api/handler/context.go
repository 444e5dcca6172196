package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/creatorhub/marketplace/internal/api/middleware"
	"github.com/creatorhub/marketplace/internal/core/domain"
)

// ctxClaims extracts the claims injected by the Auth middleware. A missing
// value means the route was mounted without the middleware.
func ctxClaims(c echo.Context) (domain.Claims, error) {
	claims, ok := c.Get(middleware.ClaimsKey).(domain.Claims)
	if !ok || claims.Email == "" {
		return domain.Claims{}, domain.ErrTokenMissing
	}
	return claims, nil
}
