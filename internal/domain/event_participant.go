package domain

import (
	"context"
	"fmt"
)

// ParticipantRole is the closed set of roster snapshot roles.
type ParticipantRole string

const (
	RolePlayer ParticipantRole = "player"
	RoleCoach  ParticipantRole = "coach"
)

// ParseParticipantRole validates s.
func ParseParticipantRole(s string) (ParticipantRole, error) {
	switch ParticipantRole(s) {
	case RolePlayer, RoleCoach:
		return ParticipantRole(s), nil
	}
	return "", fmt.Errorf("%w: unknown participant role %q", ErrInvalidInput, s)
}

// EventParticipant is the roster snapshot taken at event creation.
type EventParticipant struct {
	EventID string          `json:"event_id"`
	UserID  string          `json:"user_id"`
	Role    ParticipantRole `json:"role"`
}

// EventParticipantRepository defines storage operations for event participants.
type EventParticipantRepository interface {
	Add(ctx context.Context, p *EventParticipant) error
	ListByEventID(ctx context.Context, eventID string) ([]*EventParticipant, error)
}
