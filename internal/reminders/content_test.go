package reminders

import (
	"strings"
	"testing"

	"swagplan/internal/models"

	"github.com/stretchr/testify/assert"
)

func twoWeeks(t *testing.T) models.LeadTime {
	lt, ok := models.LookupLeadTime(models.TwoWeeks)
	assert.True(t, ok)
	return lt
}

func TestRenderResponsibleBranch(t *testing.T) {
	activity := models.Activity{Title: "Sauna night", Date: "2024-01-15", Responsible: strPtr("u1"), Notes: "Bring towels"}

	content := Render(&activity, twoWeeks(t))

	assert.Equal(t, `⏰ Reminder: "Sauna night" is in 2 weeks!`, content.Subject)
	assert.Contains(t, content.Text, "This is your two weeks reminder")
	assert.Contains(t, content.Text, "📆 Date: January 15, 2024")
	assert.Contains(t, content.Text, "📝 Notes: Bring towels")
	assert.Contains(t, content.Text, "Remember you are responsible for this activity.")
	assert.NotContains(t, content.Text, "No one is currently responsible")
	assert.Contains(t, content.HTML, "January 15, 2024")
	assert.Contains(t, content.HTML, "Bring towels")
	assert.Contains(t, content.HTML, "#e8f5e8")
}

func TestRenderUnassignedBranch(t *testing.T) {
	activity := models.Activity{Title: "Quiz", Date: "2024-03-01"}
	lt, _ := models.LookupLeadTime(models.TwoMonths)

	content := Render(&activity, lt)

	assert.Equal(t, `⏰ Reminder: "Quiz" is in 2 months!`, content.Subject)
	assert.Contains(t, content.Text, "No one is currently responsible for organizing this activity. Please assign someone soon!")
	assert.NotContains(t, content.Text, "Notes:")
	assert.Contains(t, content.HTML, "Heads up!")
	assert.NotContains(t, content.HTML, "Notes:")
}

func TestRenderIsDeterministic(t *testing.T) {
	activity := models.Activity{Title: "Quiz", Date: "2024-03-01", Notes: "x"}
	assert.Equal(t, Render(&activity, twoWeeks(t)), Render(&activity, twoWeeks(t)))
}

func TestRenderEscapesHTML(t *testing.T) {
	activity := models.Activity{Title: "<script>alert(1)</script>", Date: "2024-01-15"}

	content := Render(&activity, twoWeeks(t))

	assert.False(t, strings.Contains(content.HTML, "<script>"))
	assert.Contains(t, content.HTML, "&lt;script&gt;")
}

func TestFormatFullDate(t *testing.T) {
	assert.Equal(t, "January 15, 2024", FormatFullDate("2024-01-15"))
	assert.Equal(t, "March 1, 2024", FormatFullDate("2024-03-01T10:00:00Z"))
	assert.Equal(t, "soon", FormatFullDate("soon"))
}

func TestRedirect(t *testing.T) {
	content := Content{Subject: "Hello", Text: "body", HTML: "<p>body</p>"}

	redirected, to := Redirect(content, []string{"a@x.com", "b@x.com"}, "debug@x.com")

	assert.Equal(t, []string{"debug@x.com"}, to)
	assert.Equal(t, "[DEBUG] Hello", redirected.Subject)
	assert.True(t, strings.HasPrefix(redirected.Text, "body\n\n--- DEBUG MODE ---"))
	assert.Contains(t, redirected.Text, "This email was redirected to: debug@x.com")
	assert.True(t, strings.HasPrefix(redirected.HTML, "<p>body</p>"))
	assert.Contains(t, redirected.HTML, "Original recipients: a@x.com, b@x.com")
	assert.Equal(t, "Hello", content.Subject)
}
