package ports

import (
	"context"

	"github.com/hastakala/hastakala-api/internal/core/domain"
)

// ArtworkRepository defines persistence for artwork listings.
type ArtworkRepository interface {
	Create(ctx context.Context, a *domain.Artwork) error
	FindByID(ctx context.Context, id string) (*domain.Artwork, error)
	// List returns a page of artworks matching filter and the total count.
	List(ctx context.Context, filter domain.ArtworkFilter) ([]*domain.Artwork, int64, error)
	Update(ctx context.Context, id string, patch domain.ArtworkPatch) (*domain.Artwork, error)
	Delete(ctx context.Context, id string) error
	// DecrementStock removes n units only if at least n are available,
	// otherwise it returns domain.ErrInsufficientStock.
	DecrementStock(ctx context.Context, id string, n int) error
	IncrementStock(ctx context.Context, id string, n int) error
}

type ArtworkService interface {
	Create(ctx context.Context, who domain.Identity, draft domain.ArtworkDraft, image *domain.Upload) (*domain.Artwork, error)
	Get(ctx context.Context, id string) (*domain.Artwork, error)
	List(ctx context.Context, filter domain.ArtworkFilter) ([]*domain.Artwork, int64, error)
	Update(ctx context.Context, who domain.Identity, id string, patch domain.ArtworkPatch, image *domain.Upload) (*domain.Artwork, error)
	Delete(ctx context.Context, who domain.Identity, id string) error
}
