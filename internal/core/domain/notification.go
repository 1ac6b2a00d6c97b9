package domain

import "time"

type NotificationKind string

const (
	NotifyComment NotificationKind = "comment"
	NotifyLike    NotificationKind = "like"
	NotifyEvent   NotificationKind = "event"
	NotifySale    NotificationKind = "sale"
)

// Notification is an inbox entry. Only IsRead changes after creation.
type Notification struct {
	ID              string           `json:"id" bson:"-"`
	RecipientID     string           `json:"recipientId" bson:"recipient_id"`
	SenderID        string           `json:"senderId,omitempty" bson:"sender_id,omitempty"`
	Kind            NotificationKind `json:"kind" bson:"kind"`
	Message         string           `json:"message" bson:"message"`
	Link            string           `json:"link" bson:"link"`
	RelatedItemID   string           `json:"relatedItemId,omitempty" bson:"related_item_id,omitempty"`
	RelatedItemKind string           `json:"relatedItemKind,omitempty" bson:"related_item_kind,omitempty"`
	IsRead          bool             `json:"isRead" bson:"is_read"`
	CreatedAt       time.Time        `json:"createdAt" bson:"created_at"`
}

// Notice describes something worth telling users about. The notifier turns
// it into one Notification per recipient.
type Notice struct {
	Kind            NotificationKind
	RecipientID     string // ignored by broadcasts
	SenderID        string // empty for system notices
	Message         string
	Link            string
	RelatedItemID   string
	RelatedItemKind string
}

// For builds the notification record addressed to recipient.
func (n Notice) For(recipient string, at time.Time) *Notification {
	return &Notification{
		RecipientID:     recipient,
		SenderID:        n.SenderID,
		Kind:            n.Kind,
		Message:         n.Message,
		Link:            n.Link,
		RelatedItemID:   n.RelatedItemID,
		RelatedItemKind: n.RelatedItemKind,
		CreatedAt:       at,
	}
}
