package ports

import (
	"context"
	"time"

	"github.com/hastakala/hastakala-api/internal/core/domain"
)

// RegisterInput carries the fields of a sign-up request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Logout(ctx context.Context, who domain.Identity) error
}

// TokenVerifier decodes a bearer token into the caller's identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (domain.Identity, error)
}

// RevocationList remembers token ids that were logged out before expiry.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
