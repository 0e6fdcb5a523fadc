package services

import (
	"context"
	"fmt"
	"time"

	"swagplan/internal/reminders"
)

// SendDiagnostic mails a short message that confirms the configured backend works
func SendDiagnostic(ctx context.Context, n reminders.Notifier, to string, now time.Time) error {
	sentAt := now.UTC().Format(time.RFC3339)
	subject := "🧪 SwagPlan Email Test"
	text := fmt.Sprintf("Hello!\n\nThis is a test email from SwagPlan to verify that the email configuration is working correctly.\n\nSent at: %s\n\nBest regards,\nSwagPlan", sentAt)
	html := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #2c3e50; text-align: center;">🧪 SwagPlan Email Test</h2>
  <p><strong>✅ Success!</strong> This test email was sent at %s.</p>
  <p style="color: #999; font-size: 12px; text-align: center;">SwagPlan</p>
</div>`, sentAt)
	return n.Send(ctx, []string{to}, subject, text, html)
}
