package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/core/ports"
)

// NotificationService serves a user's inbox. Only the recipient may read,
// mark or delete a notification; admins get no exemption here.
type NotificationService struct {
	repo ports.NotificationRepository
	log  zerolog.Logger
}

func NewNotificationService(repo ports.NotificationRepository, log zerolog.Logger) *NotificationService {
	return &NotificationService{repo: repo, log: log}
}

func (s *NotificationService) List(ctx context.Context, who domain.Identity, page domain.Page) ([]*domain.Notification, error) {
	items, err := s.repo.ListByRecipient(ctx, who.SubjectID, page.Clamp())
	if err != nil {
		return nil, domain.StorageFailure("list notifications", err)
	}
	return items, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, who domain.Identity) (int64, error) {
	n, err := s.repo.CountUnread(ctx, who.SubjectID)
	if err != nil {
		return 0, domain.StorageFailure("count notifications", err)
	}
	return n, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, who domain.Identity, id string) (*domain.Notification, error) {
	if _, err := s.own(ctx, who, id); err != nil {
		return nil, err
	}
	n, err := s.repo.MarkRead(ctx, id)
	if err != nil {
		return nil, domain.StorageFailure("mark notification read", err)
	}
	return n, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, who domain.Identity) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, who.SubjectID)
	if err != nil {
		return 0, domain.StorageFailure("mark notifications read", err)
	}
	return n, nil
}

func (s *NotificationService) Delete(ctx context.Context, who domain.Identity, id string) error {
	if _, err := s.own(ctx, who, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return domain.StorageFailure("delete notification", err)
	}
	return nil
}

func (s *NotificationService) own(ctx context.Context, who domain.Identity, id string) (*domain.Notification, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.StorageFailure("find notification", err)
	}
	if who.SubjectID == "" || n.RecipientID != who.SubjectID {
		s.log.Warn().Str("notification_id", id).Str("subject_id", who.SubjectID).Msg("notification access denied")
		return nil, domain.ErrForbidden
	}
	return n, nil
}
