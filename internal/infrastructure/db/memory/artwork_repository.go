package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/core/ports"
)

type ArtworkRepository struct {
	mu       sync.RWMutex
	artworks map[string]*domain.Artwork
}

func NewArtworkRepository() *ArtworkRepository {
	return &ArtworkRepository{artworks: make(map[string]*domain.Artwork)}
}

var _ ports.ArtworkRepository = (*ArtworkRepository)(nil)

func (r *ArtworkRepository) Create(_ context.Context, a *domain.Artwork) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a.ID = newID()
	stored := *a
	r.artworks[a.ID] = &stored
	return nil
}

func (r *ArtworkRepository) FindByID(_ context.Context, id string) (*domain.Artwork, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.artworks[id]
	if !ok {
		return nil, domain.ErrArtworkNotFound
	}
	out := *a
	return &out, nil
}

func (r *ArtworkRepository) List(_ context.Context, f domain.ArtworkFilter) ([]*domain.Artwork, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.Artwork
	for _, a := range r.artworks {
		if f.ArtistID != "" && a.ArtistID != f.ArtistID {
			continue
		}
		if f.Category != "" && !containsFold(a.Category, f.Category) {
			continue
		}
		if f.Search != "" && !containsFold(a.Title, f.Search) &&
			!containsFold(a.Description, f.Search) && !containsFold(a.Category, f.Search) {
			continue
		}
		out := *a
		matched = append(matched, &out)
	}
	newestFirst(matched,
		func(a *domain.Artwork) time.Time { return a.CreatedAt },
		func(a *domain.Artwork) string { return a.ID })

	pg := domain.Page{Page: f.Page, Limit: f.Limit}.Clamp()
	return page(matched, pg.Skip(), pg.Limit), int64(len(matched)), nil
}

func (r *ArtworkRepository) Update(_ context.Context, id string, p domain.ArtworkPatch) (*domain.Artwork, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.artworks[id]
	if !ok {
		return nil, domain.ErrArtworkNotFound
	}
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Price != nil {
		a.Price = *p.Price
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.Quantity != nil {
		a.Quantity = *p.Quantity
	}
	if p.ImageURL != nil {
		a.ImageURL = *p.ImageURL
	}
	a.UpdatedAt = now()

	out := *a
	return &out, nil
}

func (r *ArtworkRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.artworks[id]; !ok {
		return domain.ErrArtworkNotFound
	}
	delete(r.artworks, id)
	return nil
}

func (r *ArtworkRepository) DecrementStock(_ context.Context, id string, n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.artworks[id]
	if !ok {
		return domain.ErrArtworkNotFound
	}
	if !a.InStock(n) {
		return domain.ErrInsufficientStock
	}
	a.Quantity -= n
	a.UpdatedAt = now()
	return nil
}

func (r *ArtworkRepository) IncrementStock(_ context.Context, id string, n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.artworks[id]
	if !ok {
		return domain.ErrArtworkNotFound
	}
	a.Quantity += n
	a.UpdatedAt = now()
	return nil
}
