// cmd/api/notifier.go
package main

import (
	"context"

	"roommate-finder/internal/models"
)

const newMessageProcess = "new-message-notification"

// ProcessStarter starts BPMN process instances.
type ProcessStarter interface {
	StartProcess(ctx context.Context, processID string, variables interface{}) (int64, error)
}

// workflowNotifier hands each stored message to the notification process,
// whose send-notification task does the delivery.
type workflowNotifier struct {
	engine    ProcessStarter
	processID string
}

func newWorkflowNotifier(engine ProcessStarter) *workflowNotifier {
	return &workflowNotifier{engine: engine, processID: newMessageProcess}
}

type newMessageVariables struct {
	MessageID   string  `json:"messageId"`
	SenderID    string  `json:"senderId"`
	RecipientID string  `json:"recipientId"`
	ListingID   *string `json:"listingId,omitempty"`
}

func (n *workflowNotifier) MessageSent(ctx context.Context, m *models.Message) error {
	_, err := n.engine.StartProcess(ctx, n.processID, newMessageVariables{
		MessageID:   m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		ListingID:   m.ListingID,
	})
	return err
}
