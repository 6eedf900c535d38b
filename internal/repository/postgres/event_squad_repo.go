package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"teamhub/internal/domain"
)

type squadRepository struct {
	DB *sql.DB
}

func NewSquadRepository(db *sql.DB) domain.SquadRepository {
	return &squadRepository{
		DB: db,
	}
}

func (r *squadRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.SquadMember, error) {
	query := `
		SELECT event_id, user_id, position, squad_role, selection_notes, selected_by, selected_at
		FROM event_squads
		WHERE event_id = $1
		ORDER BY selected_at, user_id
	`
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	members := make([]*domain.SquadMember, 0)
	for rows.Next() {
		m := &domain.SquadMember{}
		var position, role, notes, selectedBy sql.NullString
		if err := rows.Scan(&m.EventID, &m.UserID, &position, &role, &notes, &selectedBy, &m.SelectedAt); err != nil {
			return nil, err
		}
		m.Position = stringPtr(position)
		m.SquadRole = stringPtr(role)
		m.SelectionNotes = stringPtr(notes)
		m.SelectedBy = selectedBy.String
		members = append(members, m)
	}
	return members, mapError(rows.Err())
}

func (r *squadRepository) ListUserIDs(ctx context.Context, eventID string) ([]string, error) {
	return listUserIDs(ctx, conn(ctx, r.DB), `SELECT user_id FROM event_squads WHERE event_id = $1 ORDER BY user_id`, eventID)
}

func (r *squadRepository) CreateSelected(ctx context.Context, eventID string, userIDs []string, selectedBy, notes string, at time.Time) error {
	query := `
		INSERT INTO event_squads (event_id, user_id, position, squad_role, selection_notes, selected_by, selected_at)
		SELECT $1, u, NULL, NULL, $3, $4, $5 FROM unnest($2::uuid[]) AS u
	`
	_, err := conn(ctx, r.DB).ExecContext(ctx, query,
		eventID, pq.Array(userIDs), nullString(notes), nullString(selectedBy), at)
	return mapError(err)
}

func (r *squadRepository) DeleteByUsers(ctx context.Context, eventID string, userIDs []string) ([]string, error) {
	return listUserIDs(ctx, conn(ctx, r.DB),
		`DELETE FROM event_squads WHERE event_id = $1 AND user_id = ANY($2::uuid[]) RETURNING user_id`,
		eventID, pq.Array(userIDs))
}

func (r *squadRepository) CountByEventID(ctx context.Context, eventID string) (int, error) {
	var n int
	err := conn(ctx, r.DB).QueryRowContext(ctx, `SELECT COUNT(*) FROM event_squads WHERE event_id = $1`, eventID).Scan(&n)
	return n, mapError(err)
}
