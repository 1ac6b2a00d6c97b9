package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/hastakala/hastakala-api/internal/core/domain"
)

// RequireRole lets the request through only when the authenticated caller
// holds one of roles. It must run after Auth.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			who, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrMissingToken
			}
			if _, ok := allowed[who.Role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
