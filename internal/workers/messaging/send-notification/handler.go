// internal/workers/messaging/send-notification/handler.go
package sendnotification

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	awsx "roommate-finder/internal/common/aws"
	"roommate-finder/internal/common/errors"
	"roommate-finder/internal/common/logger"
	"roommate-finder/internal/common/metrics"
	"roommate-finder/internal/models"
	"roommate-finder/internal/repository"
)

const (
	TaskType = "send-notification"
)

type UserSource interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type EmailSender interface {
	Send(ctx context.Context, email awsx.Email) (string, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, topicARN, eventType string, payload interface{}) (string, error)
}

type Handler struct {
	config *Config
	users  UserSource
	email  EmailSender
	events EventPublisher
	errors *errors.ErrorHandler
	logger logger.Logger
}

// NewHandler wires the delivery channels. A nil sender or publisher disables that channel.
func NewHandler(config *Config, users UserSource, email EmailSender, events EventPublisher, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		users:  users,
		email:  email,
		events: events,
		errors: errors.NewErrorHandler(l),
		logger: l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	result, err := h.config.Schemas.Validate(TaskType, []byte(job.Variables))
	if err == nil && !result.Valid {
		err = fmt.Errorf("input does not match schema: %s", result.Summary())
	}
	if err != nil {
		h.failJob(client, job, string(errors.ErrCodeValidationFailed), err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		stdErr := errors.Normalize(err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		h.errors.HandleJobError(context.Background(), client, job, stdErr)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.MessageID == "" || input.SenderID == "" || input.RecipientID == "" {
		return nil, errors.NewValidationError("messageId, senderId and recipientId are required")
	}

	output := &Output{
		NotificationID: uuid.New().String(),
		Status:         StatusDisabled,
		SentAt:         time.Now().UTC().Format(time.RFC3339),
		Channels:       []string{},
	}

	emailOn := h.config.EmailEnabled && h.email != nil
	eventsOn := h.config.EventsEnabled && h.events != nil
	if !emailOn && !eventsOn {
		h.logger.Info("notifications disabled", map[string]interface{}{
			"messageId": input.MessageID,
		})
		return output, nil
	}

	if emailOn {
		sent, err := h.sendEmail(ctx, input)
		if err != nil {
			return nil, err
		}
		if sent {
			output.Channels = append(output.Channels, ChannelEmail)
		}
	}

	if eventsOn {
		event := MessageEvent{
			NotificationID: output.NotificationID,
			MessageID:      input.MessageID,
			SenderID:       input.SenderID,
			RecipientID:    input.RecipientID,
			ListingID:      input.ListingID,
			SentAt:         output.SentAt,
		}
		// The email may already be out, so a failed publish is reported, not retried.
		if _, err := h.events.PublishEvent(ctx, h.config.TopicARN, EventMessageCreated, event); err != nil {
			h.logger.Error("event publish failed", map[string]interface{}{
				"error":     err,
				"messageId": input.MessageID,
			})
			if len(output.Channels) == 0 {
				output.Status = StatusFailed
				return output, nil
			}
		} else {
			output.Channels = append(output.Channels, ChannelEvent)
		}
	}

	if len(output.Channels) > 0 {
		output.Status = StatusSent
	}

	h.logger.Info("notification processed", map[string]interface{}{
		"notificationId": output.NotificationID,
		"status":         output.Status,
		"channels":       output.Channels,
	})
	return output, nil
}

// sendEmail reports false when the recipient has no address on file.
func (h *Handler) sendEmail(ctx context.Context, input *Input) (bool, error) {
	recipient, err := h.loadUser(ctx, input.RecipientID)
	if err != nil {
		return false, err
	}
	if recipient.Email == "" {
		h.logger.Warn("recipient has no email address", map[string]interface{}{
			"recipientId": input.RecipientID,
		})
		return false, nil
	}

	sender, err := h.loadUser(ctx, input.SenderID)
	if err != nil {
		return false, err
	}

	tmpl, ok := h.config.Templates[models.NotificationTypeNewMessage]
	if !ok {
		return false, errors.NewInternalError(fmt.Errorf("template not found for type: %s", models.NotificationTypeNewMessage))
	}

	data := map[string]interface{}{
		"recipientName": recipient.Name,
		"senderName":    sender.Name,
		"messageId":     input.MessageID,
	}
	if input.ListingID != nil {
		data["listingId"] = *input.ListingID
	}

	email := awsx.Email{
		From:    h.config.FromEmail,
		To:      recipient.Email,
		Subject: renderTemplate(tmpl.Subject, data),
		Text:    renderTemplate(tmpl.Body, data),
	}
	if tmpl.HTMLBody != "" {
		email.HTMLBody = renderTemplate(tmpl.HTMLBody, data)
	}

	messageID, err := h.email.Send(ctx, email)
	if err != nil {
		h.logger.Error("email send failed", map[string]interface{}{
			"error":       err,
			"recipientId": input.RecipientID,
		})
		return false, errors.NewNotificationSendFailedError(ChannelEmail, err)
	}

	h.logger.Debug("email sent", map[string]interface{}{
		"sesMessageId": messageID,
		"recipientId":  input.RecipientID,
	})
	return true, nil
}

func (h *Handler) loadUser(ctx context.Context, id string) (*models.User, error) {
	user, err := h.users.GetByID(ctx, id)
	switch {
	case err == nil:
		return user, nil
	case stderrors.Is(err, repository.ErrNotFound):
		return nil, errors.NewUserNotFoundError(id)
	default:
		return nil, errors.NewDatabaseConnectionFailedError(err)
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

// renderTemplate substitutes {{key}} placeholders and drops any left unfilled.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl
	for k, v := range data {
		value := ""
		if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, "{{"+k+"}}", value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		result = result[:start] + result[start+end+2:]
	}
	return result
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
