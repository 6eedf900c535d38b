package domain

import (
	"context"
	"fmt"
	"time"
)

// InvitationStatus is the closed set allowed by event_invitations_status_check.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
	InvitationMaybe    InvitationStatus = "maybe"
	InvitationInvited  InvitationStatus = "invited"
)

// InvitationStatuses lists every allowed InvitationStatus.
var InvitationStatuses = []InvitationStatus{
	InvitationPending, InvitationAccepted, InvitationDeclined, InvitationMaybe, InvitationInvited,
}

// ParseInvitationStatus validates s against InvitationStatuses.
func ParseInvitationStatus(s string) (InvitationStatus, error) {
	for _, st := range InvitationStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown invitation status %q", ErrInvalidInput, s)
}

// IsResponse reports whether the status is one a member can answer with.
func (s InvitationStatus) IsResponse() bool {
	return s == InvitationAccepted || s == InvitationDeclined || s == InvitationMaybe
}

// EventInvitation is a member invited to an event. At most one per (EventID, UserID).
// swagger:model EventInvitation
type EventInvitation struct {
	EventID   string           `json:"event_id"`
	UserID    string           `json:"user_id"`
	InvitedBy string           `json:"invited_by"`
	InvitedAt time.Time        `json:"invited_at"`
	Status    InvitationStatus `json:"status"`
}

// EventInvitationRepository defines storage operations for event invitations.
type EventInvitationRepository interface {
	Create(ctx context.Context, inv *EventInvitation) error
	ListByEventID(ctx context.Context, eventID string) ([]*EventInvitation, error)
	ListUserIDs(ctx context.Context, eventID string) ([]string, error)
	// CreatePending inserts one pending invitation per user id. An empty invitedBy is stored as NULL.
	CreatePending(ctx context.Context, eventID string, userIDs []string, invitedBy string, at time.Time) error
	DeleteByUsers(ctx context.Context, eventID string, userIDs []string) ([]string, error)
	CountByEventID(ctx context.Context, eventID string) (int, error)
	UpdateStatus(ctx context.Context, eventID, userID string, status InvitationStatus) (*EventInvitation, error)
}

// InvitationService reconciles and answers event invitations.
type InvitationService interface {
	ReconcileInvitations(ctx context.Context, eventID, inviterID string, toAdd, toRemove []string) (*RosterChange, error)
	ListInvitations(ctx context.Context, eventID string) ([]*EventInvitation, error)
	Respond(ctx context.Context, eventID, userID string, status InvitationStatus) (*EventInvitation, error)
}
