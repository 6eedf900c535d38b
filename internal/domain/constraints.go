package domain

import (
	"errors"
	"fmt"
	"time"
)

// Table names of the roster-related schema.
const (
	TableEvents            = "events"
	TableEventInvitations  = "event_invitations"
	TableEventSquads       = "event_squads"
	TableEventParticipants = "event_participants"
	TableNotifications     = "notifications"
)

// Constraint names as declared in schema.sql. StoreError.Constraint carries one of these
// when the store reports it.
const (
	ConstraintEventEndAfterStart    = "events_end_after_start"
	ConstraintEventType             = "events_event_type_check"
	ConstraintEventStatus           = "events_event_status_check"
	ConstraintEventCancellation     = "events_cancellation_check"
	ConstraintEventCancelledBy      = "events_cancelled_by_required"
	ConstraintEventTeam             = "events_team_id_fkey"
	ConstraintInvitationUnique      = "event_invitations_event_id_user_id_key"
	ConstraintSquadUnique           = "event_squads_event_id_user_id_key"
	ConstraintParticipantUnique     = "event_participants_event_id_user_id_role_key"
	ConstraintInvitationStatusCheck = "event_invitations_status_check"
)

// ErrorKind classifies a backing-store failure.
type ErrorKind string

const (
	KindNotNull      ErrorKind = "not_null"
	KindForeignKey   ErrorKind = "foreign_key"
	KindUnique       ErrorKind = "unique"
	KindCheck        ErrorKind = "check"
	KindInvalidInput ErrorKind = "invalid_input"
	KindUnknown      ErrorKind = "unknown"
)

// sqlStateKinds maps PostgreSQL SQLSTATE codes to error kinds.
var sqlStateKinds = map[string]ErrorKind{
	"23502": KindNotNull,
	"23503": KindForeignKey,
	"23505": KindUnique,
	"23514": KindCheck,
	"22P02": KindInvalidInput, // invalid_text_representation (malformed uuid)
	"22001": KindInvalidInput, // string_data_right_truncation
	"22007": KindInvalidInput, // invalid_datetime_format
	"22008": KindInvalidInput, // datetime_field_overflow
}

// KindForSQLState returns the kind for a SQLSTATE code, or KindUnknown.
func KindForSQLState(code string) ErrorKind {
	if k, ok := sqlStateKinds[code]; ok {
		return k
	}
	return KindUnknown
}

// StoreError is a constraint or input failure reported by the backing store.
// Err holds the driver error unchanged.
type StoreError struct {
	Kind       ErrorKind
	Code       string
	Table      string
	Constraint string
	Detail     string
	Err        error
}

func (e *StoreError) Error() string {
	msg := fmt.Sprintf("%s violation", e.Kind)
	if e.Constraint != "" {
		msg += " (" + e.Constraint + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is matches another StoreError by kind, and by constraint when the target names one.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Constraint == "" || t.Constraint == e.Constraint
}

// Kind sentinels for errors.Is.
var (
	ErrNotNullViolation          = &StoreError{Kind: KindNotNull}
	ErrForeignKeyViolation       = &StoreError{Kind: KindForeignKey}
	ErrUniqueViolation           = &StoreError{Kind: KindUnique}
	ErrCheckViolation            = &StoreError{Kind: KindCheck}
	ErrInvalidTextRepresentation = &StoreError{Kind: KindInvalidInput}
)

// KindOf returns the store error kind carried by err, or KindUnknown.
func KindOf(err error) ErrorKind {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

// CheckEventTimes enforces events_end_after_start: end must be strictly after start when present.
// Unparseable clock values are left for the store to reject.
func CheckEventTimes(start string, end *string) error {
	if end == nil || *end == "" {
		return nil
	}
	s, err := ParseClock(start)
	if err != nil {
		return nil
	}
	e, err := ParseClock(*end)
	if err != nil {
		return nil
	}
	if !e.After(s) {
		return &StoreError{
			Kind:       KindCheck,
			Code:       "23514",
			Table:      TableEvents,
			Constraint: ConstraintEventEndAfterStart,
			Detail:     fmt.Sprintf("end_time %s is not after start_time %s", *end, start),
		}
	}
	return nil
}

// ParseClock parses a time-of-day in HH:MM or HH:MM:SS form.
func ParseClock(s string) (time.Time, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid time of day %q", ErrInvalidInput, s)
}
