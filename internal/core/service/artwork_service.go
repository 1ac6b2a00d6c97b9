package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/core/ports"
)

// ArtworkService manages artwork listings and their images.
type ArtworkService struct {
	repo  ports.ArtworkRepository
	files uploader
	owned ownedStore[*domain.Artwork, domain.ArtworkPatch]
	log   zerolog.Logger
	now   func() time.Time
}

func NewArtworkService(repo ports.ArtworkRepository, files ports.ContentStore, log zerolog.Logger) *ArtworkService {
	up := newUploader(files, log)
	return &ArtworkService{
		repo:  repo,
		files: up,
		owned: newOwnedStore[*domain.Artwork, domain.ArtworkPatch]("artwork", repo, up, log),
		log:   log,
		now:   time.Now,
	}
}

// Create stores image and then the listing. If anything after the image
// write fails, the image is deleted before the error is returned.
func (s *ArtworkService) Create(ctx context.Context, who domain.Identity, draft domain.ArtworkDraft, image *domain.Upload) (*domain.Artwork, error) {
	if !who.Role.Can(domain.CapSellArtwork) {
		return nil, domain.ErrForbidden
	}

	var created *domain.Artwork
	err := s.files.create(ctx, "artwork.create", artworkImages, image, false, draft.Validate,
		func(ctx context.Context, path string) error {
			now := s.now().UTC()
			a := &domain.Artwork{
				ArtistID:    who.SubjectID,
				Title:       strings.TrimSpace(draft.Title),
				Description: strings.TrimSpace(draft.Description),
				Price:       strings.TrimSpace(draft.Price),
				Category:    strings.TrimSpace(draft.Category),
				Quantity:    draft.Quantity,
				ImageURL:    path,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := s.repo.Create(ctx, a); err != nil {
				return domain.StorageFailure("create artwork", err)
			}
			created = a
			return nil
		})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("artwork_id", created.ID).Str("artist_id", who.SubjectID).Msg("artwork created")
	return created, nil
}

func (s *ArtworkService) Get(ctx context.Context, id string) (*domain.Artwork, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.StorageFailure("find artwork", err)
	}
	return a, nil
}

func (s *ArtworkService) List(ctx context.Context, filter domain.ArtworkFilter) ([]*domain.Artwork, int64, error) {
	pg := domain.Page{Page: filter.Page, Limit: filter.Limit}.Clamp()
	filter.Page, filter.Limit = pg.Page, pg.Limit
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Category = strings.TrimSpace(filter.Category)

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, domain.StorageFailure("list artworks", err)
	}
	return items, total, nil
}

// Update applies patch and, when image is set, swaps the listing's image.
// The old image is deleted only after the record points at the new one.
func (s *ArtworkService) Update(ctx context.Context, who domain.Identity, id string, patch domain.ArtworkPatch, image *domain.Upload) (*domain.Artwork, error) {
	patch = patch.Normalize()
	patch.ImageURL = nil

	cur, err := s.owned.load(ctx, id, who)
	if err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if image == nil {
		return s.owned.update(ctx, id, who, patch)
	}

	var updated *domain.Artwork
	err = s.files.replace(ctx, "artwork.update", artworkImages, image, cur.ImageURL,
		func(ctx context.Context, path string) error {
			patch.ImageURL = &path
			a, err := s.repo.Update(ctx, id, patch)
			if err != nil {
				return domain.StorageFailure("update artwork", err)
			}
			updated = a
			return nil
		})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *ArtworkService) Delete(ctx context.Context, who domain.Identity, id string) error {
	return s.owned.delete(ctx, id, who)
}
