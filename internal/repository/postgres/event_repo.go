package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"teamhub/internal/domain"
)

const eventColumns = `id, team_id, created_by, title, event_type, event_status, date, start_time, end_time,
		location_name, location_address, location_lat, location_lng, description, opponent, notes,
		cancelled_reason, cancelled_at, cancelled_by, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

const clockLayout = "15:04:05"

// clockTime scans a TIME column. lib/pq decodes TIME as a time.Time on 0000-01-01,
// which is rendered back as a time of day.
type clockTime struct {
	Value string
	Valid bool
}

func (c *clockTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		c.Value, c.Valid = "", false
	case time.Time:
		c.Value, c.Valid = v.Format(clockLayout), true
	case []byte:
		c.Value, c.Valid = string(v), true
	case string:
		c.Value, c.Valid = v, true
	default:
		return fmt.Errorf("scan time of day: unsupported type %T", src)
	}
	return nil
}

func (c clockTime) ptr() *string {
	if !c.Valid {
		return nil
	}
	s := c.Value
	return &s
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var (
		eventType, status            string
		startTime, endTime           clockTime
		locName, locAddress, notes   sql.NullString
		cancelledReason, cancelledBy sql.NullString
		description, opponent        sql.NullString
		lat, lng                     sql.NullFloat64
		cancelledAt                  sql.NullTime
	)
	err := row.Scan(
		&e.ID, &e.TeamID, &e.CreatedBy, &e.Title, &eventType, &status, &e.Date, &startTime, &endTime,
		&locName, &locAddress, &lat, &lng, &description, &opponent, &notes,
		&cancelledReason, &cancelledAt, &cancelledBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Type = domain.EventType(eventType)
	e.Status = domain.EventStatus(status)
	e.StartTime = startTime.Value
	e.EndTime = endTime.ptr()
	e.LocationName = stringPtr(locName)
	e.LocationAddress = stringPtr(locAddress)
	e.Notes = stringPtr(notes)
	e.CancelledReason = stringPtr(cancelledReason)
	e.CancelledBy = stringPtr(cancelledBy)
	e.Description = description.String
	e.Opponent = opponent.String
	if lat.Valid {
		e.LocationLat = &lat.Float64
	}
	if lng.Valid {
		e.LocationLng = &lng.Float64
	}
	if cancelledAt.Valid {
		e.CancelledAt = &cancelledAt.Time
	}
	return e, nil
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (team_id, created_by, title, event_type, event_status, date, start_time, end_time,
			location_name, location_address, location_lat, location_lng, description, opponent, notes,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id
	`
	err := conn(ctx, r.DB).QueryRowContext(ctx, query,
		nullString(e.TeamID), nullString(e.CreatedBy), e.Title, string(e.Type), string(e.Status), e.Date, e.StartTime, e.EndTime,
		e.LocationName, e.LocationAddress, e.LocationLat, e.LocationLng, e.Description, e.Opponent, e.Notes,
		e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	return mapError(err)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(conn(ctx, r.DB).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapError(err)
	}
	return e, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	query := `
		UPDATE events SET title = $2, event_type = $3, date = $4, start_time = $5, end_time = $6,
			location_name = $7, location_address = $8, location_lat = $9, location_lng = $10,
			description = $11, opponent = $12, notes = $13, updated_at = $14
		WHERE id = $1
		RETURNING ` + eventColumns
	updated, err := scanEvent(conn(ctx, r.DB).QueryRowContext(ctx, query,
		e.ID, e.Title, string(e.Type), e.Date, e.StartTime, e.EndTime,
		e.LocationName, e.LocationAddress, e.LocationLat, e.LocationLng,
		e.Description, e.Opponent, e.Notes, e.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapError(err)
	}
	return updated, nil
}

func (r *eventRepository) Cancel(ctx context.Context, eventID, actorID, reason string, at time.Time) (*domain.Event, error) {
	query := `
		UPDATE events SET event_status = $2, cancelled_reason = $3, cancelled_at = $4, cancelled_by = $5, updated_at = $4
		WHERE id = $1
		RETURNING ` + eventColumns
	e, err := scanEvent(conn(ctx, r.DB).QueryRowContext(ctx, query,
		eventID, string(domain.EventStatusCancelled), reason, at, nullString(actorID),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapError(err)
	}
	return e, nil
}
