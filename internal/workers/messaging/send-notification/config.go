// internal/workers/messaging/send-notification/config.go
package sendnotification

import (
	"time"

	"roommate-finder/internal/common/config"
	"roommate-finder/internal/common/validation"
	"roommate-finder/internal/models"
)

const EventMessageCreated = "message.created"

type Config struct {
	EmailEnabled  bool
	FromEmail     string
	EventsEnabled bool
	TopicARN      string
	Timeout       time.Duration
	Templates     map[string]models.NotificationTemplate
	Schemas       *validation.Validator
}

func LoadConfig() *Config {
	return &Config{
		Timeout:   15 * time.Second,
		Templates: defaultTemplates(),
	}
}

// ConfigFrom maps the notifications section of the application config.
func ConfigFrom(n config.NotificationConfig) *Config {
	cfg := LoadConfig()
	cfg.EmailEnabled = n.Email.Enabled && n.Email.FromEmail != ""
	cfg.FromEmail = n.Email.FromEmail
	cfg.EventsEnabled = n.Events.Enabled && n.Events.TopicARN != ""
	cfg.TopicARN = n.Events.TopicARN
	return cfg
}

func defaultTemplates() map[string]models.NotificationTemplate {
	return map[string]models.NotificationTemplate{
		models.NotificationTypeNewMessage: {
			Type:    models.NotificationTypeNewMessage,
			Subject: "New message from {{senderName}}",
			Body: "Hi {{recipientName}},\n\n{{senderName}} sent you a message on Roommate Finder. " +
				"Sign in to read it and reply.\n\nReference: {{messageId}}",
			HTMLBody: "<p>Hi {{recipientName}},</p><p><strong>{{senderName}}</strong> sent you a message on Roommate Finder. " +
				"Sign in to read it and reply.</p><p>Reference: {{messageId}}</p>",
		},
	}
}
