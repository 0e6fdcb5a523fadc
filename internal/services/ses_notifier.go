package services

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESNotifier delivers reminder emails through Amazon SES
type SESNotifier struct {
	client sesAPI
	source string
}

// NewSESNotifier loads AWS credentials from the default chain
func NewSESNotifier(ctx context.Context, region, fromEmail, fromName string) (*SESNotifier, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return newSESNotifier(ses.NewFromConfig(cfg), fromEmail, fromName), nil
}

func newSESNotifier(client sesAPI, fromEmail, fromName string) *SESNotifier {
	source := (&mail.Address{Name: fromName, Address: fromEmail}).String()
	return &SESNotifier{client: client, source: source}
}

func (s *SESNotifier) Send(ctx context.Context, recipients []string, subject, text, html string) error {
	if len(recipients) == 0 {
		return ErrNoRecipients
	}

	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(s.source),
		Destination: &types.Destination{ToAddresses: recipients},
		Message: &types.Message{
			Subject: utf8Content(subject),
			Body: &types.Body{
				Text: utf8Content(text),
				Html: utf8Content(html),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses delivery failed: %w", err)
	}
	return nil
}

func utf8Content(data string) *types.Content {
	return &types.Content{Data: aws.String(data), Charset: aws.String("UTF-8")}
}
