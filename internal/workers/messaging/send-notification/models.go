// internal/workers/messaging/send-notification/models.go
package sendnotification

import "roommate-finder/internal/models"

type Input struct {
	MessageID   string  `json:"messageId"`
	SenderID    string  `json:"senderId"`
	RecipientID string  `json:"recipientId"`
	ListingID   *string `json:"listingId,omitempty"`
}

type Output struct {
	NotificationID string   `json:"notificationId"`
	Status         string   `json:"status"` // "sent", "failed", "disabled"
	SentAt         string   `json:"sentAt"` // ISO 8601
	Channels       []string `json:"channels"`
}

// MessageEvent is the body published to the message topic.
type MessageEvent struct {
	NotificationID string  `json:"notificationId"`
	MessageID      string  `json:"messageId"`
	SenderID       string  `json:"senderId"`
	RecipientID    string  `json:"recipientId"`
	ListingID      *string `json:"listingId,omitempty"`
	SentAt         string  `json:"sentAt"`
}

const (
	StatusSent     = models.NotificationStatusSent
	StatusFailed   = models.NotificationStatusFailed
	StatusDisabled = models.NotificationStatusDisabled

	ChannelEmail = "email"
	ChannelEvent = "event"
)
