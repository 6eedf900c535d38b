package postgres

import (
	"context"
	"database/sql"

	"teamhub/internal/domain"
)

type eventParticipantRepository struct {
	DB *sql.DB
}

func NewEventParticipantRepository(db *sql.DB) domain.EventParticipantRepository {
	return &eventParticipantRepository{
		DB: db,
	}
}

func (r *eventParticipantRepository) Add(ctx context.Context, p *domain.EventParticipant) error {
	query := `
		INSERT INTO event_participants (event_id, user_id, role)
		VALUES ($1, $2, $3)
	`
	_, err := conn(ctx, r.DB).ExecContext(ctx, query, p.EventID, p.UserID, string(p.Role))
	return mapError(err)
}

func (r *eventParticipantRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.EventParticipant, error) {
	query := `
		SELECT event_id, user_id, role
		FROM event_participants
		WHERE event_id = $1
		ORDER BY role, user_id
	`
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	participants := make([]*domain.EventParticipant, 0)
	for rows.Next() {
		p := &domain.EventParticipant{}
		var role string
		if err := rows.Scan(&p.EventID, &p.UserID, &role); err != nil {
			return nil, err
		}
		p.Role = domain.ParticipantRole(role)
		participants = append(participants, p)
	}
	return participants, mapError(rows.Err())
}
