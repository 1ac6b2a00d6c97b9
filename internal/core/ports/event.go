package ports

import (
	"context"

	"github.com/hastakala/hastakala-api/internal/core/domain"
)

type EventRepository interface {
	Create(ctx context.Context, e *domain.Event) error
	FindByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, int64, error)
	Update(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error)
	Delete(ctx context.Context, id string) error
}

type EventService interface {
	Create(ctx context.Context, who domain.Identity, draft domain.EventDraft, image *domain.Upload) (*domain.Event, error)
	Get(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, int64, error)
	Update(ctx context.Context, who domain.Identity, id string, patch domain.EventPatch, image *domain.Upload) (*domain.Event, error)
	Delete(ctx context.Context, who domain.Identity, id string) error
}
