package ports

import (
	"context"

	"github.com/hastakala/hastakala-api/internal/core/domain"
)

// Notifier delivers notices. It never fails the caller; delivery problems
// are logged where they happen.
type Notifier interface {
	Notify(ctx context.Context, notice domain.Notice)
	// Broadcast addresses every user except notice.SenderID.
	Broadcast(ctx context.Context, notice domain.Notice)
}

type NotificationRepository interface {
	Insert(ctx context.Context, n *domain.Notification) error
	InsertMany(ctx context.Context, ns []*domain.Notification) error
	FindByID(ctx context.Context, id string) (*domain.Notification, error)
	ListByRecipient(ctx context.Context, recipientID string, page domain.Page) ([]*domain.Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)
	MarkRead(ctx context.Context, id string) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type NotificationService interface {
	List(ctx context.Context, who domain.Identity, page domain.Page) ([]*domain.Notification, error)
	UnreadCount(ctx context.Context, who domain.Identity) (int64, error)
	MarkRead(ctx context.Context, who domain.Identity, id string) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, who domain.Identity) (int64, error)
	Delete(ctx context.Context, who domain.Identity, id string) error
}
