package ports

import (
	"context"

	"github.com/hastakala/hastakala-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	// Create inserts user and returns it with its id. A duplicate email
	// yields domain.ErrEmailTaken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Update applies the non-nil fields of patch and returns the stored user.
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	// ListIDs returns every user id except exclude.
	ListIDs(ctx context.Context, exclude string) ([]string, error)
}
