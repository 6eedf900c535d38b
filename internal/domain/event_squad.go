package domain

import (
	"context"
	"time"
)

// SquadMember is a member selected into the squad for an event. At most one per (EventID, UserID).
// swagger:model SquadMember
type SquadMember struct {
	EventID        string    `json:"event_id"`
	UserID         string    `json:"user_id"`
	Position       *string   `json:"position"`
	SquadRole      *string   `json:"squad_role"`
	SelectionNotes *string   `json:"selection_notes"`
	SelectedBy     string    `json:"selected_by"`
	SelectedAt     time.Time `json:"selected_at"`
}

// SquadSelection is one squad edit. PreMatchMessage is copied onto every newly added row.
type SquadSelection struct {
	EventID         string
	SelectedBy      string
	Add             []string
	Remove          []string
	PreMatchMessage string
}

// SquadRepository defines storage operations for event squads.
type SquadRepository interface {
	ListByEventID(ctx context.Context, eventID string) ([]*SquadMember, error)
	ListUserIDs(ctx context.Context, eventID string) ([]string, error)
	// CreateSelected inserts one row per user id with NULL position and role.
	// Empty selectedBy and notes are stored as NULL.
	CreateSelected(ctx context.Context, eventID string, userIDs []string, selectedBy, notes string, at time.Time) error
	DeleteByUsers(ctx context.Context, eventID string, userIDs []string) ([]string, error)
	CountByEventID(ctx context.Context, eventID string) (int, error)
}

// SquadService manages squad selection for an event.
type SquadService interface {
	UpdateSquad(ctx context.Context, sel SquadSelection) (*RosterChange, error)
	ListSquad(ctx context.Context, eventID string) ([]*SquadMember, error)
}
