package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"teamhub/internal/domain"
)

func TestTransactor_WithinTx(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("repositories share the transaction and commit", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`DELETE FROM event_invitations`).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("u1"))
		mock.ExpectExec(`INSERT INTO event_invitations`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		repo := NewEventInvitationRepository(db)
		err = NewTransactor(db).WithinTx(context.Background(), func(ctx context.Context) error {
			if _, err := repo.DeleteByUsers(ctx, "ev-1", []string{"u1"}); err != nil {
				return err
			}
			return repo.CreatePending(ctx, "ev-1", []string{"u2"}, "coach-1", at)
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure rolls back and keeps the store error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`DELETE FROM event_invitations`).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("u1"))
		mock.ExpectExec(`INSERT INTO event_invitations`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: domain.ConstraintInvitationUnique})
		mock.ExpectRollback()

		repo := NewEventInvitationRepository(db)
		err = NewTransactor(db).WithinTx(context.Background(), func(ctx context.Context) error {
			if _, err := repo.DeleteByUsers(ctx, "ev-1", []string{"u1"}); err != nil {
				return err
			}
			return repo.CreatePending(ctx, "ev-1", []string{"u2"}, "coach-1", at)
		})
		require.ErrorIs(t, err, domain.ErrUniqueViolation)
		var pqErr *pq.Error
		require.True(t, errors.As(err, &pqErr))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nested call joins the outer transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM event_squads`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
		mock.ExpectCommit()

		tx := NewTransactor(db)
		var n int
		err = tx.WithinTx(context.Background(), func(ctx context.Context) error {
			return tx.WithinTx(ctx, func(ctx context.Context) error {
				var err error
				n, err = NewSquadRepository(db).CountByEventID(ctx, "ev-1")
				return err
			})
		})
		require.NoError(t, err)
		require.Equal(t, 3, n)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

		called := false
		err = NewTransactor(db).WithinTx(context.Background(), func(ctx context.Context) error {
			called = true
			return nil
		})
		require.Error(t, err)
		require.False(t, called)
	})
}
