package services

import (
	"context"
	"errors"
	"fmt"

	"swagplan/internal/config"
	"swagplan/internal/reminders"
)

// ErrNoRecipients is returned when a send is attempted with an empty address list
var ErrNoRecipients = errors.New("no recipients")

// NewNotifier builds the email backend selected by EMAIL_PROVIDER
func NewNotifier(ctx context.Context, cfg config.Config) (reminders.Notifier, error) {
	switch cfg.EmailProvider {
	case "sendgrid":
		if cfg.SendGridAPIKey == "" {
			return nil, errors.New("SENDGRID_API_KEY is required for the sendgrid provider")
		}
		return NewSendGridNotifier(cfg.SendGridAPIKey, cfg.FromAddress, cfg.FromName), nil
	case "smtp":
		return NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.FromAddress, cfg.FromName), nil
	case "ses":
		return NewSESNotifier(ctx, cfg.AWSRegion, cfg.FromAddress, cfg.FromName)
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.EmailProvider)
	}
}
