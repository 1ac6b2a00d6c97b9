package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hastakala/hastakala-api/internal/api/metrics"
	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/core/ports"
)

// Notifier writes notices straight to the notification store. Failures are
// logged and counted; they never reach the operation that raised the notice.
type Notifier struct {
	repo  ports.NotificationRepository
	users ports.UserRepository
	log   zerolog.Logger
	now   func() time.Time
}

func NewNotifier(repo ports.NotificationRepository, users ports.UserRepository, log zerolog.Logger) *Notifier {
	return &Notifier{repo: repo, users: users, log: log, now: time.Now}
}

// Notify writes one notification. Users are never notified of their own actions.
func (n *Notifier) Notify(ctx context.Context, notice domain.Notice) {
	if notice.RecipientID == "" || notice.RecipientID == notice.SenderID {
		return
	}
	if err := n.repo.Insert(ctx, notice.For(notice.RecipientID, n.now().UTC())); err != nil {
		metrics.NotificationsFailedTotal.WithLabelValues(string(notice.Kind)).Inc()
		n.log.Warn().Err(err).
			Str("kind", string(notice.Kind)).
			Str("recipient_id", notice.RecipientID).
			Msg("failed to write notification")
		return
	}
	metrics.NotificationsWrittenTotal.WithLabelValues(string(notice.Kind)).Inc()
}

// Broadcast writes the notice to every user except its sender in one batch.
func (n *Notifier) Broadcast(ctx context.Context, notice domain.Notice) {
	kind := string(notice.Kind)
	ids, err := n.users.ListIDs(ctx, notice.SenderID)
	if err != nil {
		metrics.NotificationsFailedTotal.WithLabelValues(kind).Inc()
		n.log.Warn().Err(err).Str("kind", kind).Msg("failed to list broadcast recipients")
		return
	}

	at := n.now().UTC()
	batch := make([]*domain.Notification, 0, len(ids))
	for _, id := range ids {
		if id == notice.SenderID {
			continue
		}
		batch = append(batch, notice.For(id, at))
	}
	if len(batch) == 0 {
		return
	}

	if err := n.repo.InsertMany(ctx, batch); err != nil {
		metrics.NotificationsFailedTotal.WithLabelValues(kind).Add(float64(len(batch)))
		n.log.Warn().Err(err).Str("kind", kind).Int("recipients", len(batch)).Msg("failed to write broadcast")
		return
	}
	metrics.NotificationsWrittenTotal.WithLabelValues(kind).Add(float64(len(batch)))
	n.log.Debug().Str("kind", kind).Int("recipients", len(batch)).Msg("broadcast written")
}
