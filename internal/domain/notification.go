package domain

import (
	"context"
	"time"
)

// Notification template keys known to the dispatcher.
const (
	TemplateEventInvitation = "event_invitation"
	TemplateEventUninvited  = "event_uninvited"
	TemplateSquadSelected   = "squad_selected"
	TemplateEventCancelled  = "event_cancelled"
)

// RelatedEntity is a free-form reference stored on a notification (no foreign key).
type RelatedEntity struct {
	Type string
	ID   string
}

// Notification is an in-app notification row.
// swagger:model Notification
type Notification struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	TemplateKey       string    `json:"template_key"`
	Title             string    `json:"title"`
	Body              string    `json:"body"`
	RelatedEntityType string    `json:"related_entity_type"`
	RelatedEntityID   string    `json:"related_entity_id"`
	CreatedAt         time.Time `json:"created_at"`
}

// NotificationRepository persists notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
}

// NotificationSender renders and persists a notification for one user.
// It returns (nil, nil) when templateKey is unknown.
type NotificationSender interface {
	Send(ctx context.Context, userID, templateKey string, vars map[string]string, related RelatedEntity) (*Notification, error)
}
