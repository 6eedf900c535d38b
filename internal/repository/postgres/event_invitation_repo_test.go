package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"teamhub/internal/domain"
)

func TestEventInvitationRepository_CreatePending(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		invitedBy string
		mock      func(mock sqlmock.Sqlmock)
		wantErr   error
	}{
		{
			name:      "bulk insert",
			invitedBy: "coach-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO event_invitations .* FROM unnest\(\$2::uuid\[\]\)`).
					WithArgs("ev-1", pq.Array([]string{"u1", "u2"}), "coach-1", at, "pending").
					WillReturnResult(sqlmock.NewResult(0, 2))
			},
		},
		{
			name:      "missing inviter is sent as NULL",
			invitedBy: "",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO event_invitations`).
					WithArgs("ev-1", pq.Array([]string{"u1", "u2"}), nil, at, "pending").
					WillReturnError(&pq.Error{Code: "23502", Column: "invited_by"})
			},
			wantErr: domain.ErrNotNullViolation,
		},
		{
			name:      "concurrent insert hits unique constraint",
			invitedBy: "coach-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO event_invitations`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: domain.ConstraintInvitationUnique})
			},
			wantErr: &domain.StoreError{Kind: domain.KindUnique, Constraint: domain.ConstraintInvitationUnique},
		},
		{
			name:      "unknown member",
			invitedBy: "coach-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO event_invitations`).
					WillReturnError(&pq.Error{Code: "23503"})
			},
			wantErr: domain.ErrForeignKeyViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventInvitationRepository(db)
			err = repo.CreatePending(ctx, "ev-1", []string{"u1", "u2"}, tt.invitedBy, at)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventInvitationRepository_DeleteByUsers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// u9 was never invited so only u1 comes back.
	mock.ExpectQuery(`DELETE FROM event_invitations WHERE event_id = \$1 AND user_id = ANY\(\$2::uuid\[\]\) RETURNING user_id`).
		WithArgs("ev-1", pq.Array([]string{"u1", "u9"})).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("u1"))

	removed, err := NewEventInvitationRepository(db).DeleteByUsers(context.Background(), "ev-1", []string{"u1", "u9"})
	require.NoError(t, err)
	require.Equal(t, []string{"u1"}, removed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventInvitationRepository_ListUserIDsAndCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT user_id FROM event_invitations WHERE event_id = \$1`).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("u1").AddRow("u2"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM event_invitations`).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	repo := NewEventInvitationRepository(db)
	ids, err := repo.ListUserIDs(context.Background(), "ev-1")
	require.NoError(t, err)
	require.Equal(t, []string{"u1", "u2"}, ids)

	n, err := repo.CountByEventID(context.Background(), "ev-1")
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventInvitationRepository_ListByEventID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT event_id, user_id, invited_by, invited_at, status FROM event_invitations`).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "user_id", "invited_by", "invited_at", "status"}).
			AddRow("ev-1", "u1", "coach-1", at, "pending").
			AddRow("ev-1", "u2", nil, at, "accepted"))

	invs, err := NewEventInvitationRepository(db).ListByEventID(context.Background(), "ev-1")
	require.NoError(t, err)
	require.Len(t, invs, 2)
	require.Equal(t, domain.InvitationPending, invs[0].Status)
	require.Equal(t, "coach-1", invs[0].InvitedBy)
	require.Equal(t, "", invs[1].InvitedBy)
	require.Equal(t, domain.InvitationAccepted, invs[1].Status)
}

func TestEventInvitationRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE event_invitations SET status = \$3`).
					WithArgs("ev-1", "u1", "accepted").
					WillReturnRows(sqlmock.NewRows([]string{"event_id", "user_id", "invited_by", "invited_at", "status"}).
						AddRow("ev-1", "u1", "coach-1", at, "accepted"))
			},
		},
		{
			name: "not invited",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE event_invitations`).WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			inv, err := NewEventInvitationRepository(db).UpdateStatus(ctx, "ev-1", "u1", domain.InvitationAccepted)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, domain.InvitationAccepted, inv.Status)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
