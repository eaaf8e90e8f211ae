// internal/common/aws/ses.go
package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESAPI is the subset of the SES client used for notification email.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESClient struct {
	client SESAPI
}

func NewSESClient(cfg awssdk.Config) *SESClient {
	return &SESClient{client: ses.NewFromConfig(cfg)}
}

// NewSESClientWithAPI wraps an existing implementation, typically a test double.
func NewSESClientWithAPI(api SESAPI) *SESClient {
	return &SESClient{client: api}
}

func (s *SESClient) SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	return s.client.SendEmail(ctx, input)
}

// Email is a single-recipient message with text and optional HTML bodies.
type Email struct {
	From     string
	To       string
	Subject  string
	Text     string
	HTMLBody string
}

// Input builds the SES request for e.
func (e Email) Input() *ses.SendEmailInput {
	body := &types.Body{
		Text: &types.Content{Data: awssdk.String(e.Text), Charset: awssdk.String("UTF-8")},
	}
	if e.HTMLBody != "" {
		body.Html = &types.Content{Data: awssdk.String(e.HTMLBody), Charset: awssdk.String("UTF-8")}
	}

	return &ses.SendEmailInput{
		Destination: &types.Destination{ToAddresses: []string{e.To}},
		Message: &types.Message{
			Subject: &types.Content{Data: awssdk.String(e.Subject), Charset: awssdk.String("UTF-8")},
			Body:    body,
		},
		Source: awssdk.String(e.From),
	}
}

// Send delivers e and returns the SES message id.
func (s *SESClient) Send(ctx context.Context, e Email) (string, error) {
	out, err := s.client.SendEmail(ctx, e.Input())
	if err != nil {
		return "", err
	}
	return awssdk.ToString(out.MessageId), nil
}
