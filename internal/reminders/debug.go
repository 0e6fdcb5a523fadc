package reminders

import (
	"fmt"
	"html/template"
	"strings"
)

// Redirect rewrites a rendered reminder so it goes only to debugAddress.
// The subject is tagged and both bodies disclose the intended recipients.
func Redirect(content Content, recipients []string, debugAddress string) (Content, []string) {
	original := strings.Join(recipients, ", ")

	content.Subject = "[DEBUG] " + content.Subject
	content.Text += fmt.Sprintf("\n\n--- DEBUG MODE ---\nOriginal recipients would have been: %s\nThis email was redirected to: %s\n--- END DEBUG ---",
		original, debugAddress)
	content.HTML += fmt.Sprintf(`<div style="background: #fff3cd; border: 1px solid #ffeaa7; border-radius: 8px; padding: 15px; margin: 20px 0; font-family: monospace; font-size: 12px;">
  <strong>🐛 DEBUG MODE</strong><br>
  Original recipients: %s<br>
  Redirected to: %s
</div>`, template.HTMLEscapeString(original), template.HTMLEscapeString(debugAddress))

	return content, []string{debugAddress}
}
