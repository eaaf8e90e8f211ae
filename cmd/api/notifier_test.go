// cmd/api/notifier_test.go
package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roommate-finder/internal/models"
)

type recordingEngine struct {
	processID string
	variables interface{}
	err       error
}

func (r *recordingEngine) StartProcess(_ context.Context, processID string, variables interface{}) (int64, error) {
	r.processID = processID
	r.variables = variables
	return 42, r.err
}

func TestWorkflowNotifier_StartsProcess(t *testing.T) {
	engine := &recordingEngine{}
	listing := "l-1"

	err := newWorkflowNotifier(engine).MessageSent(context.Background(), &models.Message{
		ID: "m-1", SenderID: "u-1", RecipientID: "u-2", ListingID: &listing, Content: "hi",
	})
	require.NoError(t, err)

	assert.Equal(t, "new-message-notification", engine.processID)
	assert.Equal(t, newMessageVariables{MessageID: "m-1", SenderID: "u-1", RecipientID: "u-2", ListingID: &listing}, engine.variables)
}

func TestWorkflowNotifier_PropagatesError(t *testing.T) {
	engine := &recordingEngine{err: errors.New("unavailable")}

	err := newWorkflowNotifier(engine).MessageSent(context.Background(), &models.Message{ID: "m-1"})
	assert.EqualError(t, err, "unavailable")
}
