package ports

import (
	"context"

	"github.com/hastakala/hastakala-api/internal/core/domain"
)

type ProfileService interface {
	Me(ctx context.Context, who domain.Identity) (*domain.User, error)
	Public(ctx context.Context, id string) (*domain.PublicProfile, error)
	Update(ctx context.Context, who domain.Identity, patch domain.UserPatch) (*domain.User, error)
	UploadImage(ctx context.Context, who domain.Identity, image *domain.Upload) (*domain.User, error)
	DeleteImage(ctx context.Context, who domain.Identity) (*domain.User, error)
}
