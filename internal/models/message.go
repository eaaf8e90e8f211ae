// internal/models/message.go
package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const MaxMessageLen = 1000

type Message struct {
	ID          string      `json:"id"`
	SenderID    string      `json:"senderId"`
	Sender      *PublicUser `json:"sender,omitempty"`
	RecipientID string      `json:"recipientId"`
	Recipient   *PublicUser `json:"recipient,omitempty"`
	ListingID   *string     `json:"listingId,omitempty"`
	Content     string      `json:"content"`
	Read        bool        `json:"read"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// Conversation is one entry of the inbox: the other participant and the latest exchange.
type Conversation struct {
	User        PublicUser `json:"user"`
	LastMessage Message    `json:"lastMessage"`
	UnreadCount int        `json:"unreadCount"`
}

type MessageInput struct {
	RecipientID string  `json:"recipientId"`
	ListingID   *string `json:"listingId,omitempty"`
	Content     string  `json:"content"`
}

func (m MessageInput) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.RecipientID, validation.Required),
		validation.Field(&m.Content, validation.Required, validation.Length(1, MaxMessageLen)),
	)
}
