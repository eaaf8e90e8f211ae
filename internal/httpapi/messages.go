// internal/httpapi/messages.go
package httpapi

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"roommate-finder/internal/common/errors"
	"roommate-finder/internal/models"
	"roommate-finder/internal/repository"
)

const notifyTimeout = 10 * time.Second

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var in models.MessageInput
	if err := s.decodeBody(r, schemaMessage, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	senderID := userIDFrom(r.Context())
	sender, err := s.loadUser(r.Context(), senderID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	recipient, err := s.loadUser(r.Context(), in.RecipientID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if in.ListingID != nil {
		if _, err := s.loadListing(r.Context(), *in.ListingID); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	msg := &models.Message{
		SenderID:    senderID,
		RecipientID: recipient.ID,
		ListingID:   in.ListingID,
		Content:     in.Content,
	}
	if err := s.deps.Messages.Create(r.Context(), msg); err != nil {
		if stderrors.Is(err, repository.ErrMissingReference) && in.ListingID != nil {
			s.writeError(w, r, errors.NewListingNotFoundError(*in.ListingID))
			return
		}
		s.writeError(w, r, errors.NewDatabaseConnectionFailedError(err))
		return
	}

	senderPublic := sender.Public()
	recipientPublic := recipient.Public()
	senderPublic.Email, recipientPublic.Email = "", ""
	msg.Sender, msg.Recipient = &senderPublic, &recipientPublic

	s.notify(r.Context(), msg)
	writeData(w, http.StatusCreated, msg)
}

// notify hands the message to the notifier off the request path.
func (s *Server) notify(ctx context.Context, msg *models.Message) {
	if s.deps.Notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	sent := *msg
	go func() {
		defer cancel()
		if err := s.deps.Notifier.MessageSent(ctx, &sent); err != nil {
			s.logger.Warn("message notification failed", map[string]interface{}{
				"messageId":   sent.ID,
				"recipientId": sent.RecipientID,
				"error":       err.Error(),
			})
		}
	}()
}

func (s *Server) handleConversations(w http.ResponseWriter, r *http.Request) {
	conversations, err := s.deps.Messages.Conversations(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, errors.NewQueryExecutionFailedError("conversations", err))
		return
	}
	writeJSON(w, http.StatusOK, models.ListResponse(conversations, len(conversations)))
}

func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := s.deps.Messages.UnreadCount(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, errors.NewQueryExecutionFailedError("unread_count", err))
		return
	}
	writeJSON(w, http.StatusOK, models.ListResponse(nil, n))
}

// handleThread returns the exchange with another user, oldest first, and
// marks the caller's incoming messages as read.
func (s *Server) handleThread(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())
	other := r.PathValue("userId")

	messages, err := s.deps.Messages.Thread(r.Context(), userID, other)
	if err != nil {
		s.writeError(w, r, errors.NewQueryExecutionFailedError("thread", err))
		return
	}

	marked, err := s.deps.Messages.MarkThreadRead(r.Context(), userID, other)
	if err != nil {
		s.writeError(w, r, errors.NewQueryExecutionFailedError("mark_read", err))
		return
	}
	if marked > 0 {
		s.logger.Debug("marked messages read", map[string]interface{}{
			"userId": userID,
			"from":   other,
			"count":  marked,
		})
	}
	writeJSON(w, http.StatusOK, models.ListResponse(messages, len(messages)))
}
