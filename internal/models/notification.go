package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationRecipient is one embedded read marker. Read-state mutations only
// ever touch the element whose (recipientId, model) matches the caller.
type NotificationRecipient struct {
	RecipientID primitive.ObjectID `bson:"recipientId" json:"recipientId"`
	Model       string             `bson:"model" json:"model"`
	IsRead      bool               `bson:"isRead" json:"isRead"`
	ReadAt      *time.Time         `bson:"readAt,omitempty" json:"readAt,omitempty"`
}

// Notification is one message fanned out to N recipients. The document is
// immutable after creation except for the per-recipient read flags.
type Notification struct {
	ID         primitive.ObjectID      `bson:"_id,omitempty" json:"id"`
	EventID    string                  `bson:"eventId" json:"eventId"`
	Type       string                  `bson:"type" json:"type"`
	Title      string                  `bson:"title" json:"title"`
	Message    string                  `bson:"message" json:"message"`
	Recipients []NotificationRecipient `bson:"recipients" json:"recipients"`
	CreatedAt  time.Time               `bson:"createdAt" json:"createdAt"`
}
