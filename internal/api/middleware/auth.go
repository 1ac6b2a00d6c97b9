package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/core/ports"
)

const identityKey = "identity"

// Auth validates the access token and injects the caller's identity into
// the echo context. Both "Bearer <token>" and a bare "<token>" are accepted.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := tokenFromHeader(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}

			who, err := verifier.Verify(c.Request().Context(), raw)
			if err != nil {
				return err
			}

			c.Set(identityKey, who)
			return next(c)
		}
	}
}

func tokenFromHeader(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", domain.ErrMissingToken
	}

	parts := strings.Fields(header)
	switch {
	case len(parts) == 1:
		return parts[0], nil
	case len(parts) == 2 && strings.EqualFold(parts[0], "bearer"):
		return parts[1], nil
	default:
		return "", domain.ErrInvalidToken
	}
}

// IdentityFrom returns the identity stored by Auth.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	who, ok := c.Get(identityKey).(domain.Identity)
	return who, ok && who.SubjectID != ""
}

// SetIdentity stores who as the authenticated caller.
func SetIdentity(c echo.Context, who domain.Identity) {
	c.Set(identityKey, who)
}
