// Package email renders W-9 collection messages shared by every sender.
package email

import (
	"fmt"
	"html"
	"net/url"

	"taxfiling/internal/domain"
	"taxfiling/internal/port"
)

// Message is a rendered email.
type Message struct {
	Subject string
	HTML    string
	Text    string
}

var stageSubjects = map[domain.W9ReminderStage]string{
	domain.W9StageInitial:     "Action needed: submit your W-9 for %d",
	domain.W9StageReminder1:   "Reminder: your W-9 for %d is still outstanding",
	domain.W9StageReminder2:   "Second reminder: W-9 required for %d tax reporting",
	domain.W9StageFinalNotice: "Final notice: W-9 required for %d or backup withholding may apply",
}

// PortalLink returns the W-9 submission link for a payee type.
func PortalLink(portalURL string, payeeType domain.PayeeType) string {
	return fmt.Sprintf("%s/w9?payee_type=%s", portalURL, url.QueryEscape(string(payeeType)))
}

// BuildW9Reminder renders the message for one reminder stage.
func BuildW9Reminder(r port.W9Reminder, portalURL string) Message {
	subjectFmt, ok := stageSubjects[r.Stage]
	if !ok {
		subjectFmt = stageSubjects[domain.W9StageInitial]
	}
	name := r.ToName
	if name == "" {
		name = "there"
	}
	link := PortalLink(portalURL, r.PayeeType)

	text := fmt.Sprintf("Hi %s,\n\nWe need a completed Form W-9 on file to issue your %d Form 1099. "+
		"Please submit it here:\n%s\n\nTax Compliance Team", name, r.TaxYear, link)
	if r.Stage == domain.W9StageFinalNotice {
		text = fmt.Sprintf("Hi %s,\n\nThis is our final request for your Form W-9 for %d. Without it we may be "+
			"required to apply backup withholding to future payments.\n\nSubmit it here:\n%s\n\nTax Compliance Team",
			name, r.TaxYear, link)
	}

	return Message{
		Subject: fmt.Sprintf(subjectFmt, r.TaxYear),
		HTML:    buildReminderHTML(html.EscapeString(name), r.TaxYear, html.EscapeString(link), r.Stage == domain.W9StageFinalNotice),
		Text:    text,
	}
}

func buildReminderHTML(name string, year int, link string, final bool) string {
	warning := ""
	if final {
		warning = `<p style="color: #B91C1C;">Without a W-9 on file we may be required to apply backup withholding to future payments.</p>`
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Form W-9 needed</h2>
  <p>Hi %s,</p>
  <p>We need a completed Form W-9 on file to issue your %d Form 1099.</p>
  %s
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Submit W-9</a>
  </p>
  <p>Or copy and paste this link into your browser:</p>
  <p style="word-break: break-all; color: #666;">%s</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Tax Compliance Team</p>
</body>
</html>`, name, year, warning, link, link)
}
