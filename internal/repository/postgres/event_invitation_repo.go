package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"teamhub/internal/domain"
)

type eventInvitationRepository struct {
	DB *sql.DB
}

func NewEventInvitationRepository(db *sql.DB) domain.EventInvitationRepository {
	return &eventInvitationRepository{
		DB: db,
	}
}

func (r *eventInvitationRepository) Create(ctx context.Context, inv *domain.EventInvitation) error {
	query := `
		INSERT INTO event_invitations (event_id, user_id, invited_by, invited_at, status)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := conn(ctx, r.DB).ExecContext(ctx, query,
		inv.EventID, inv.UserID, nullString(inv.InvitedBy), inv.InvitedAt, string(inv.Status))
	return mapError(err)
}

func (r *eventInvitationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.EventInvitation, error) {
	query := `
		SELECT event_id, user_id, invited_by, invited_at, status
		FROM event_invitations
		WHERE event_id = $1
		ORDER BY invited_at, user_id
	`
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	invs := make([]*domain.EventInvitation, 0)
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	return invs, mapError(rows.Err())
}

func scanInvitation(row rowScanner) (*domain.EventInvitation, error) {
	inv := &domain.EventInvitation{}
	var invitedBy sql.NullString
	var status string
	if err := row.Scan(&inv.EventID, &inv.UserID, &invitedBy, &inv.InvitedAt, &status); err != nil {
		return nil, err
	}
	inv.InvitedBy = invitedBy.String
	inv.Status = domain.InvitationStatus(status)
	return inv, nil
}

func (r *eventInvitationRepository) ListUserIDs(ctx context.Context, eventID string) ([]string, error) {
	return listUserIDs(ctx, conn(ctx, r.DB), `SELECT user_id FROM event_invitations WHERE event_id = $1 ORDER BY user_id`, eventID)
}

func (r *eventInvitationRepository) CreatePending(ctx context.Context, eventID string, userIDs []string, invitedBy string, at time.Time) error {
	query := `
		INSERT INTO event_invitations (event_id, user_id, invited_by, invited_at, status)
		SELECT $1, u, $3, $4, $5 FROM unnest($2::uuid[]) AS u
	`
	_, err := conn(ctx, r.DB).ExecContext(ctx, query,
		eventID, pq.Array(userIDs), nullString(invitedBy), at, string(domain.InvitationPending))
	return mapError(err)
}

func (r *eventInvitationRepository) DeleteByUsers(ctx context.Context, eventID string, userIDs []string) ([]string, error) {
	return listUserIDs(ctx, conn(ctx, r.DB),
		`DELETE FROM event_invitations WHERE event_id = $1 AND user_id = ANY($2::uuid[]) RETURNING user_id`,
		eventID, pq.Array(userIDs))
}

func (r *eventInvitationRepository) CountByEventID(ctx context.Context, eventID string) (int, error) {
	var n int
	err := conn(ctx, r.DB).QueryRowContext(ctx, `SELECT COUNT(*) FROM event_invitations WHERE event_id = $1`, eventID).Scan(&n)
	return n, mapError(err)
}

func (r *eventInvitationRepository) UpdateStatus(ctx context.Context, eventID, userID string, status domain.InvitationStatus) (*domain.EventInvitation, error) {
	query := `
		UPDATE event_invitations SET status = $3
		WHERE event_id = $1 AND user_id = $2
		RETURNING event_id, user_id, invited_by, invited_at, status
	`
	inv, err := scanInvitation(conn(ctx, r.DB).QueryRowContext(ctx, query, eventID, userID, string(status)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapError(err)
	}
	return inv, nil
}

// listUserIDs runs a query returning a single user_id column.
func listUserIDs(ctx context.Context, q querier, query string, args ...any) ([]string, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, mapError(rows.Err())
}
