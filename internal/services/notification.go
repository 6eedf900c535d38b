package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"teamhub/internal/domain"
)

// notificationTemplateText holds the title and body of each built-in template.
// Variables are looked up by name in the vars map; missing ones render empty.
var notificationTemplateText = map[string][2]string{
	domain.TemplateEventInvitation: {
		`You're invited: {{.event_title}}`,
		`{{with .inviter_name}}{{.}} invited you{{else}}You have been invited{{end}} to {{.event_title}}{{with .event_date}} on {{.}}{{end}}.`,
	},
	domain.TemplateEventUninvited: {
		`Invitation withdrawn: {{.event_title}}`,
		`You are no longer invited to {{.event_title}}{{with .event_date}} on {{.}}{{end}}.`,
	},
	domain.TemplateSquadSelected: {
		`Squad selected: {{.event_title}}`,
		`You have been selected for {{.event_title}}{{with .event_date}} on {{.}}{{end}}.{{with .message}} {{.}}{{end}}`,
	},
	domain.TemplateEventCancelled: {
		`Cancelled: {{.event_title}}`,
		`{{.event_title}}{{with .event_date}} on {{.}}{{end}} has been cancelled.{{with .reason}} Reason: {{.}}{{end}}`,
	},
}

type notificationTemplate struct {
	title *template.Template
	body  *template.Template
}

type notificationDispatcher struct {
	notificationRepo domain.NotificationRepository
	memberRepo       domain.MemberRepository
	emailService     domain.EmailService
	templates        map[string]notificationTemplate
	logger           *slog.Logger
	now              func() time.Time
}

// NewNotificationDispatcher returns a NotificationSender that stores in-app notifications.
// When memberRepo and emailService are both set, an email copy is sent as well.
func NewNotificationDispatcher(notificationRepo domain.NotificationRepository, memberRepo domain.MemberRepository, emailService domain.EmailService, logger *slog.Logger) domain.NotificationSender {
	if logger == nil {
		logger = slog.Default()
	}
	templates := make(map[string]notificationTemplate, len(notificationTemplateText))
	for key, text := range notificationTemplateText {
		templates[key] = notificationTemplate{
			title: template.Must(template.New(key + "_title").Option("missingkey=zero").Parse(text[0])),
			body:  template.Must(template.New(key + "_body").Option("missingkey=zero").Parse(text[1])),
		}
	}
	return &notificationDispatcher{
		notificationRepo: notificationRepo,
		memberRepo:       memberRepo,
		emailService:     emailService,
		templates:        templates,
		logger:           logger,
		now:              time.Now,
	}
}

// Send renders templateKey for userID and stores it. Unknown keys return (nil, nil).
// Email delivery failures are logged only.
func (d *notificationDispatcher) Send(ctx context.Context, userID, templateKey string, vars map[string]string, related domain.RelatedEntity) (*domain.Notification, error) {
	tmpl, ok := d.templates[templateKey]
	if !ok {
		d.logger.DebugContext(ctx, "unknown notification template", "template_key", templateKey)
		return nil, nil
	}
	title, err := render(tmpl.title, vars)
	if err != nil {
		return nil, fmt.Errorf("render %s title: %w", templateKey, err)
	}
	body, err := render(tmpl.body, vars)
	if err != nil {
		return nil, fmt.Errorf("render %s body: %w", templateKey, err)
	}

	n := &domain.Notification{
		UserID:            userID,
		TemplateKey:       templateKey,
		Title:             title,
		Body:              body,
		RelatedEntityType: related.Type,
		RelatedEntityID:   related.ID,
		CreatedAt:         d.now(),
	}
	if err := d.notificationRepo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	if d.memberRepo != nil && d.emailService != nil {
		d.email(ctx, n)
	}
	return n, nil
}

func (d *notificationDispatcher) email(ctx context.Context, n *domain.Notification) {
	member, err := d.memberRepo.GetByID(ctx, n.UserID)
	if err != nil {
		d.logger.WarnContext(ctx, "notification email skipped", "user_id", n.UserID, "error", err)
		return
	}
	if member.Email == "" {
		return
	}
	data := &domain.NotificationEmailData{
		Email:     member.Email,
		FirstName: member.Name,
		Title:     n.Title,
		Body:      n.Body,
	}
	if err := d.emailService.SendNotification(ctx, data); err != nil {
		d.logger.WarnContext(ctx, "notification email failed", "user_id", n.UserID, "template_key", n.TemplateKey, "error", err)
	}
}

func render(t *template.Template, vars map[string]string) (string, error) {
	if vars == nil {
		vars = map[string]string{}
	}
	var b strings.Builder
	if err := t.Execute(&b, vars); err != nil {
		return "", err
	}
	return b.String(), nil
}
