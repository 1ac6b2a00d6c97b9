package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/core/ports"
)

type EventRepository struct {
	mu     sync.RWMutex
	events map[string]*domain.Event
}

func NewEventRepository() *EventRepository {
	return &EventRepository{events: make(map[string]*domain.Event)}
}

var _ ports.EventRepository = (*EventRepository)(nil)

func (r *EventRepository) Create(_ context.Context, e *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.ID = newID()
	stored := *e
	r.events[e.ID] = &stored
	return nil
}

func (r *EventRepository) FindByID(_ context.Context, id string) (*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	out := *e
	return &out, nil
}

// List orders events by start time, soonest first.
func (r *EventRepository) List(_ context.Context, f domain.EventFilter) ([]*domain.Event, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.Event
	for _, e := range r.events {
		if !f.After.IsZero() && e.StartsAt.Before(f.After) {
			continue
		}
		if f.Search != "" && !containsFold(e.Title, f.Search) &&
			!containsFold(e.Description, f.Search) && !containsFold(e.Location, f.Search) {
			continue
		}
		out := *e
		matched = append(matched, &out)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].StartsAt.Equal(matched[j].StartsAt) {
			return matched[i].StartsAt.Before(matched[j].StartsAt)
		}
		return matched[i].ID < matched[j].ID
	})

	pg := domain.Page{Page: f.Page, Limit: f.Limit}.Clamp()
	return page(matched, pg.Skip(), pg.Limit), int64(len(matched)), nil
}

func (r *EventRepository) Update(_ context.Context, id string, p domain.EventPatch) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.StartsAt != nil {
		e.StartsAt = *p.StartsAt
	}
	if p.ImageURL != nil {
		e.ImageURL = *p.ImageURL
	}
	e.UpdatedAt = now()

	out := *e
	return &out, nil
}

func (r *EventRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.events[id]; !ok {
		return domain.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}
