package service

import (
	"context"
	"fmt"
	"strings"

	"auron-backend/internal/domain"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(_ context.Context, to, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", to)

	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

const disclaimerText = "Prototype platform for research and evaluation. Not medical advice. Not for emergency use."

func linkButton(href, label string) string {
	return fmt.Sprintf(
		`<p><a href="%s" style="display:inline-block;padding:12px 18px;border-radius:10px;background:#0a0a0a;color:#ffffff;text-decoration:none;font-weight:600;">%s</a></p>`,
		href, label)
}

func htmlBody(inner string) string {
	return `<div style="font-family: ui-sans-serif, system-ui; line-height: 1.5;">` + inner + `</div>`
}

func (s *emailService) SendApprovalNotification(ctx context.Context, to, startURL string) error {
	subject := "You are approved for the Auron prototype"
	html := htmlBody(
		`<h2>You are approved</h2>` +
			`<p>Your email has been added to the invite-only allowlist for the Auron prototype.</p>` +
			linkButton(startURL, "Start the demo walkthrough") +
			`<p style="color:#666; font-size: 13px;">` + disclaimerText + `</p>`)
	text := "You are approved for the Auron prototype.\n" +
		"Start the demo walkthrough: " + startURL + "\n\n" + disclaimerText
	return s.send(ctx, to, subject, text, html)
}

func (s *emailService) SendInviteNotification(ctx context.Context, to, startURL string) error {
	subject := "You are invited to the Auron prototype"
	html := htmlBody(
		`<h2>You are invited</h2>` +
			`<p>You have been added to the invite-only allowlist for the Auron prototype.</p>` +
			linkButton(startURL, "Start the demo walkthrough") +
			`<p style="color:#666; font-size: 13px;">` + disclaimerText + `</p>`)
	text := "You are invited to the Auron prototype.\n" +
		"Start the demo walkthrough: " + startURL + "\n\n" + disclaimerText
	return s.send(ctx, to, subject, text, html)
}

func (s *emailService) SendAccessUpdatedNotification(ctx context.Context, to string) error {
	subject := "Auron prototype access updated"
	html := htmlBody(
		`<h2>Access updated</h2>` +
			`<p>Your access to the Auron prototype has been updated. If you believe this is a mistake, reply to this email.</p>`)
	text := "Your access to the Auron prototype has been updated. If you believe this is a mistake, reply to this email."
	return s.send(ctx, to, subject, text, html)
}

func (s *emailService) SendSignInLink(ctx context.Context, to, linkURL string) error {
	subject := "Sign in to the Auron prototype"
	html := htmlBody(
		`<h2>Sign in</h2>` +
			`<p>Use the button below to sign in. The link works once and expires soon.</p>` +
			linkButton(linkURL, "Sign in") +
			`<p style="color:#666; font-size: 13px;">If you did not request this, you can ignore this email.</p>`)
	text := "Sign in to the Auron prototype: " + linkURL + "\n\n" +
		"The link works once and expires soon. If you did not request this, you can ignore this email."
	return s.send(ctx, to, subject, text, html)
}

func (s *emailService) SendPendingRequestDigest(ctx context.Context, to string, pending []domain.AccessRequest) error {
	subject := fmt.Sprintf("Auron demo access: %d pending request(s)", len(pending))

	var textLines, htmlRows strings.Builder
	for _, req := range pending {
		fmt.Fprintf(&textLines, "- %s <%s> (%s, %s) — %s\n",
			req.FullName, req.Email, req.Role, req.Institution, req.CreatedAt.Format("2006-01-02"))
		fmt.Fprintf(&htmlRows, "<li><strong>%s</strong> &lt;%s&gt; (%s, %s) — %s</li>",
			req.FullName, req.Email, req.Role, req.Institution, req.CreatedAt.Format("2006-01-02"))
	}

	html := htmlBody(
		`<h2>Pending demo access requests</h2><ul>` + htmlRows.String() + `</ul>` +
			`<p>Review them on the admin dashboard.</p>`)
	text := "Pending demo access requests:\n" + textLines.String() + "\nReview them on the admin dashboard."
	return s.send(ctx, to, subject, text, html)
}
