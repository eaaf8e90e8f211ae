package aws

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSES struct {
	input *ses.SendEmailInput
	err   error
}

func (m *mockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.input = params
	if m.err != nil {
		return nil, m.err
	}
	return &ses.SendEmailOutput{MessageId: awssdk.String("ses-1")}, nil
}

type mockSNS struct {
	input *sns.PublishInput
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.input = params
	return &sns.PublishOutput{MessageId: awssdk.String("sns-1")}, nil
}

func TestSESClient_Send(t *testing.T) {
	api := &mockSES{}
	client := NewSESClientWithAPI(api)

	id, err := client.Send(context.Background(), Email{
		From:    "noreply@roommates.test",
		To:      "jane@example.com",
		Subject: "New message",
		Text:    "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "ses-1", id)
	assert.Equal(t, []string{"jane@example.com"}, api.input.Destination.ToAddresses)
	assert.Equal(t, "New message", *api.input.Message.Subject.Data)
	assert.Nil(t, api.input.Message.Body.Html)
}

func TestSESClient_SendError(t *testing.T) {
	client := NewSESClientWithAPI(&mockSES{err: errors.New("throttled")})
	_, err := client.Send(context.Background(), Email{To: "a@b.c"})
	assert.EqualError(t, err, "throttled")
}

func TestSNSClient_PublishEvent(t *testing.T) {
	api := &mockSNS{}
	client := NewSNSClientWithAPI(api)

	id, err := client.PublishEvent(context.Background(), "arn:aws:sns:us-east-1:1:messages", "new_message", map[string]string{"messageId": "m-1"})
	require.NoError(t, err)
	assert.Equal(t, "sns-1", id)
	assert.Equal(t, "new_message", *api.input.MessageAttributes["eventType"].StringValue)

	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(*api.input.Message), &body))
	assert.Equal(t, "m-1", body["messageId"])
}
