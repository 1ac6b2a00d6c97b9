package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/core/ports"
)

// EventService manages events. Creating one notifies every other user.
type EventService struct {
	repo     ports.EventRepository
	files    uploader
	owned    ownedStore[*domain.Event, domain.EventPatch]
	notifier ports.Notifier
	log      zerolog.Logger
	now      func() time.Time
}

func NewEventService(repo ports.EventRepository, files ports.ContentStore, notifier ports.Notifier, log zerolog.Logger) *EventService {
	up := newUploader(files, log)
	return &EventService{
		repo:     repo,
		files:    up,
		owned:    newOwnedStore[*domain.Event, domain.EventPatch]("event", repo, up, log),
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Create stores the optional image and the event, then broadcasts it.
func (s *EventService) Create(ctx context.Context, who domain.Identity, draft domain.EventDraft, image *domain.Upload) (*domain.Event, error) {
	if !who.Role.Can(domain.CapHostEvent) {
		return nil, domain.ErrForbidden
	}

	var created *domain.Event
	err := s.files.create(ctx, "event.create", eventImages, image, true, draft.Validate,
		func(ctx context.Context, path string) error {
			now := s.now().UTC()
			e := &domain.Event{
				OrganizerID: who.SubjectID,
				Title:       strings.TrimSpace(draft.Title),
				Description: strings.TrimSpace(draft.Description),
				Location:    strings.TrimSpace(draft.Location),
				StartsAt:    draft.StartsAt.UTC(),
				ImageURL:    path,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := s.repo.Create(ctx, e); err != nil {
				return domain.StorageFailure("create event", err)
			}
			created = e
			return nil
		})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("event_id", created.ID).Str("organizer_id", who.SubjectID).Msg("event created")
	s.notifier.Broadcast(ctx, domain.Notice{
		Kind:            domain.NotifyEvent,
		SenderID:        who.SubjectID,
		Message:         fmt.Sprintf("New event: %s", created.Title),
		Link:            "/events/" + created.ID,
		RelatedItemID:   created.ID,
		RelatedItemKind: "event",
	})
	return created, nil
}

func (s *EventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.StorageFailure("find event", err)
	}
	return e, nil
}

func (s *EventService) List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, int64, error) {
	pg := domain.Page{Page: filter.Page, Limit: filter.Limit}.Clamp()
	filter.Page, filter.Limit = pg.Page, pg.Limit
	filter.Search = strings.TrimSpace(filter.Search)

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, domain.StorageFailure("list events", err)
	}
	return items, total, nil
}

func (s *EventService) Update(ctx context.Context, who domain.Identity, id string, patch domain.EventPatch, image *domain.Upload) (*domain.Event, error) {
	patch = patch.Normalize()
	patch.ImageURL = nil
	if patch.StartsAt != nil {
		t := patch.StartsAt.UTC()
		patch.StartsAt = &t
	}
	if image == nil {
		return s.owned.update(ctx, id, who, patch)
	}

	cur, err := s.owned.load(ctx, id, who)
	if err != nil {
		return nil, err
	}

	var updated *domain.Event
	err = s.files.replace(ctx, "event.update", eventImages, image, cur.ImageURL,
		func(ctx context.Context, path string) error {
			patch.ImageURL = &path
			e, err := s.repo.Update(ctx, id, patch)
			if err != nil {
				return domain.StorageFailure("update event", err)
			}
			updated = e
			return nil
		})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *EventService) Delete(ctx context.Context, who domain.Identity, id string) error {
	return s.owned.delete(ctx, id, who)
}
