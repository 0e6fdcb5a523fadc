package reminders

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"swagplan/internal/models"
)

// FullDateLayout renders dates like "January 15, 2024"
const FullDateLayout = "January 2, 2006"

// Content is a rendered reminder email
type Content struct {
	Subject string
	Text    string
	HTML    string
}

type contentData struct {
	Title          string
	Date           string
	Notes          string
	Period         string
	HasResponsible bool
}

var textTemplate = texttemplate.Must(texttemplate.New("reminder.txt").Parse(`Hi there!

This is your {{.Period}} reminder for the upcoming activity:

📅 Activity: {{.Title}}
📆 Date: {{.Date}}
{{if .Notes}}📝 Notes: {{.Notes}}{{end}}

{{if .HasResponsible}}👤 Remember you are responsible for this activity.{{else}}⚠️  No one is currently responsible for organizing this activity. Please assign someone soon!{{end}}

Remember to plan it! 📅

Best regards,
SwagPlan Activity Reminder System`))

var htmlTemplate = htmltemplate.Must(htmltemplate.New("reminder.html").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #2c3e50; text-align: center;">⏰ Activity Reminder</h2>
  <div style="background: #f8f9fa; border-radius: 8px; padding: 20px; margin: 20px 0; border-left: 4px solid #3498db;">
    <h3 style="color: #2c3e50; margin-top: 0;">{{.Title}}</h3>
    <p style="font-size: 16px; margin: 10px 0;"><strong>📆 Date:</strong> {{.Date}}</p>
    {{- if .Notes}}
    <p style="font-size: 14px; color: #666; margin: 10px 0;"><strong>📝 Notes:</strong> {{.Notes}}</p>
    {{- end}}
  </div>
  {{- if .HasResponsible}}
  <div style="background: #e8f5e8; border-radius: 8px; padding: 15px; margin: 20px 0;">
    <p style="margin: 0; color: #27ae60;">👤 <strong>Remember</strong> you are responsible for this activity.</p>
  </div>
  {{- else}}
  <div style="background: #fff3cd; border-radius: 8px; padding: 15px; margin: 20px 0;">
    <p style="margin: 0; color: #d68910;">⚠️ <strong>Heads up!</strong> No one is currently responsible for organizing this activity. Please assign someone soon!</p>
  </div>
  {{- end}}
  <p style="color: #666; font-size: 14px; text-align: center; margin-top: 30px;">
    This is your <strong>{{.Period}}</strong> reminder. Remember to plan it! 📅
  </p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">
  <p style="color: #999; font-size: 12px; text-align: center;">Sent by SwagPlan Activity Reminder System</p>
</div>
`))

// Render builds the reminder email for an activity at the given lead time.
// It has no side effects and is deterministic for identical inputs.
func Render(activity *models.Activity, lt models.LeadTime) Content {
	data := contentData{
		Title:          activity.Title,
		Date:           FormatFullDate(activity.Date),
		Notes:          strings.TrimSpace(activity.Notes),
		Period:         lt.Period,
		HasResponsible: activity.HasResponsible(),
	}

	var text, html bytes.Buffer
	// both templates only read plain string and bool fields
	_ = textTemplate.Execute(&text, data)
	_ = htmlTemplate.Execute(&html, data)

	return Content{
		Subject: fmt.Sprintf("⏰ Reminder: \"%s\" is in %s!", activity.Title, lt.Label),
		Text:    text.String(),
		HTML:    html.String(),
	}
}

// FormatFullDate renders a stored activity date for humans, falling back to
// the raw value when it cannot be parsed.
func FormatFullDate(value string) string {
	day, err := models.ParseDate(value)
	if err != nil {
		return value
	}
	return day.Format(FullDateLayout)
}
