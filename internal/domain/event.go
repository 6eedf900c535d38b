package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// EventType is the closed set of event kinds allowed by events_event_type_check.
type EventType string

const (
	EventTypeHomeMatch EventType = "home_match"
	EventTypeAwayMatch EventType = "away_match"
	EventTypeTraining  EventType = "training"
	EventTypeOther     EventType = "other"
	EventTypeMatch     EventType = "match"
	EventTypeSocial    EventType = "social"
	EventTypeMeeting   EventType = "meeting"
)

// EventTypes lists every allowed EventType in schema order.
var EventTypes = []EventType{
	EventTypeHomeMatch, EventTypeAwayMatch, EventTypeTraining, EventTypeOther,
	EventTypeMatch, EventTypeSocial, EventTypeMeeting,
}

// ParseEventType validates s against EventTypes.
func ParseEventType(s string) (EventType, error) {
	for _, t := range EventTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown event type %q", ErrInvalidInput, s)
}

// EventStatus is the closed set allowed by events_event_status_check.
type EventStatus string

const (
	EventStatusActive    EventStatus = "active"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

// EventStatuses lists every allowed EventStatus.
var EventStatuses = []EventStatus{EventStatusActive, EventStatusCancelled, EventStatusCompleted}

// ParseEventStatus validates s against EventStatuses.
func ParseEventStatus(s string) (EventStatus, error) {
	for _, st := range EventStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown event status %q", ErrInvalidInput, s)
}

// DefaultCancelReason is stored when a cancellation has no reason.
const DefaultCancelReason = "Cancel Event"

// Event represents a team event (match, training, social...).
// swagger:model Event
type Event struct {
	ID              string      `json:"id"`
	TeamID          string      `json:"team_id"`
	CreatedBy       string      `json:"created_by"`
	Title           string      `json:"title"`
	Type            EventType   `json:"event_type"`
	Status          EventStatus `json:"event_status"`
	Date            time.Time   `json:"date"`
	StartTime       string      `json:"start_time"`
	EndTime         *string     `json:"end_time"`
	LocationName    *string     `json:"location_name"`
	LocationAddress *string     `json:"location_address"`
	LocationLat     *float64    `json:"location_lat"`
	LocationLng     *float64    `json:"location_lng"`
	Description     string      `json:"description"`
	Opponent        string      `json:"opponent"`
	Notes           *string     `json:"notes"`
	CancelledReason *string     `json:"cancelled_reason"`
	CancelledAt     *time.Time  `json:"cancelled_at"`
	CancelledBy     *string     `json:"cancelled_by"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// IsCancelled reports whether the event went through the cancel transition.
func (e *Event) IsCancelled() bool {
	return e.Status == EventStatusCancelled
}

// EventNotes are the parts composed into Event.Notes.
type EventNotes struct {
	MeetTime string `json:"meet_time"`
	Kit      string `json:"kit"`
	Message  string `json:"message"`
}

// Compose joins the non-empty parts, one per line. It returns nil when every part is empty.
func (n EventNotes) Compose() *string {
	var lines []string
	if s := strings.TrimSpace(n.MeetTime); s != "" {
		lines = append(lines, "Meet: "+s)
	}
	if s := strings.TrimSpace(n.Kit); s != "" {
		lines = append(lines, "Kit: "+s)
	}
	if s := strings.TrimSpace(n.Message); s != "" {
		lines = append(lines, s)
	}
	if len(lines) == 0 {
		return nil
	}
	out := strings.Join(lines, "\n")
	return &out
}

// EventDraft is the input for creating or editing an event.
// Members and Leaders are only read on create.
type EventDraft struct {
	TeamID          string
	Type            EventType
	Title           string
	HomeTeamName    string
	AwayTeamName    string
	Date            time.Time
	StartTime       string
	EndTime         *string
	LocationName    *string
	LocationAddress *string
	LocationLat     *float64
	LocationLng     *float64
	Description     string
	Opponent        string
	Notes           EventNotes
	Members         []string
	Leaders         []string
}

// DeriveTitle builds the display title from the event type and the names supplied.
func (d EventDraft) DeriveTitle() string {
	home := strings.TrimSpace(d.HomeTeamName)
	away := strings.TrimSpace(d.AwayTeamName)
	title := strings.TrimSpace(d.Title)
	switch d.Type {
	case EventTypeHomeMatch, EventTypeAwayMatch:
		switch {
		case home != "" && away != "":
			return home + " vs " + away
		case home != "":
			return home
		case away != "":
			return away
		}
		return "Match"
	case EventTypeTraining:
		return "Training"
	case EventTypeMatch:
		return orDefault(title, "Match")
	case EventTypeSocial:
		return orDefault(title, "Social")
	case EventTypeMeeting:
		return orDefault(title, "Meeting")
	default:
		return orDefault(title, "Event")
	}
}

// ApplyTo copies the editable fields onto e and regenerates its title.
func (d EventDraft) ApplyTo(e *Event) {
	e.Type = d.Type
	e.Title = d.DeriveTitle()
	e.Date = d.Date
	e.StartTime = d.StartTime
	e.EndTime = d.EndTime
	e.LocationName = d.LocationName
	e.LocationAddress = d.LocationAddress
	e.LocationLat = d.LocationLat
	e.LocationLng = d.LocationLng
	e.Description = d.Description
	e.Opponent = d.Opponent
	e.Notes = d.Notes.Compose()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, event *Event) (*Event, error)
	// Cancel sets the cancellation bundle in one statement. An empty actorID is stored as NULL.
	Cancel(ctx context.Context, eventID, actorID, reason string, at time.Time) (*Event, error)
}

// EventService defines the event record manager.
type EventService interface {
	CreateEvent(ctx context.Context, draft EventDraft, actorID string) (*Event, error)
	GetEvent(ctx context.Context, eventID string) (*Event, error)
	UpdateEvent(ctx context.Context, eventID string, form EventDraft, actorID string, addIDs, removeIDs []string) (*Event, *RosterChange, error)
	CancelEvent(ctx context.Context, eventID, actorID, reason string) (*Event, error)
}
