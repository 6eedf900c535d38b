package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// NotificationEmailData holds data for the email copy of a notification.
type NotificationEmailData struct {
	Email     string
	FirstName string
	Title     string
	Body      string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendNotification(ctx context.Context, data *NotificationEmailData) error
}
