package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/core/ports"
)

type NotificationRepository struct {
	mu    sync.RWMutex
	items map[string]*domain.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{items: make(map[string]*domain.Notification)}
}

var _ ports.NotificationRepository = (*NotificationRepository)(nil)

func (r *NotificationRepository) Insert(_ context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.insert(n)
	return nil
}

func (r *NotificationRepository) InsertMany(_ context.Context, ns []*domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range ns {
		r.insert(n)
	}
	return nil
}

func (r *NotificationRepository) insert(n *domain.Notification) {
	n.ID = newID()
	stored := *n
	r.items[n.ID] = &stored
}

func (r *NotificationRepository) FindByID(_ context.Context, id string) (*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotificationNotFound
	}
	out := *n
	return &out, nil
}

func (r *NotificationRepository) ListByRecipient(_ context.Context, recipientID string, pg domain.Page) ([]*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var mine []*domain.Notification
	for _, n := range r.items {
		if n.RecipientID == recipientID {
			out := *n
			mine = append(mine, &out)
		}
	}
	newestFirst(mine,
		func(n *domain.Notification) time.Time { return n.CreatedAt },
		func(n *domain.Notification) string { return n.ID })

	pg = pg.Clamp()
	return page(mine, pg.Skip(), pg.Limit), nil
}

func (r *NotificationRepository) CountUnread(_ context.Context, recipientID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, it := range r.items {
		if it.RecipientID == recipientID && !it.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, id string) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotificationNotFound
	}
	n.IsRead = true
	out := *n
	return &out, nil
}

func (r *NotificationRepository) MarkAllRead(_ context.Context, recipientID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var changed int64
	for _, n := range r.items {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			changed++
		}
	}
	return changed, nil
}

func (r *NotificationRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrNotificationNotFound
	}
	delete(r.items, id)
	return nil
}
