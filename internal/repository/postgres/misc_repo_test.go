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

func TestEventParticipantRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO event_participants \(event_id, user_id, role\)`).
		WithArgs("ev-1", "u1", "coach").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO event_participants`).
		WithArgs("ev-1", "u1", "coach").
		WillReturnError(&pq.Error{Code: "23505", Constraint: domain.ConstraintParticipantUnique})
	mock.ExpectQuery(`SELECT event_id, user_id, role FROM event_participants`).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "user_id", "role"}).AddRow("ev-1", "u1", "coach"))

	repo := NewEventParticipantRepository(db)
	p := &domain.EventParticipant{EventID: "ev-1", UserID: "u1", Role: domain.RoleCoach}
	require.NoError(t, repo.Add(context.Background(), p))
	require.ErrorIs(t, repo.Add(context.Background(), p), domain.ErrUniqueViolation)

	list, err := repo.ListByEventID(context.Background(), "ev-1")
	require.NoError(t, err)
	require.Equal(t, []*domain.EventParticipant{p}, list)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO notifications \(user_id, template_key, title, body, related_entity_type, related_entity_id, created_at\)`).
		WithArgs("u1", domain.TemplateEventInvitation, "Invited", "You are invited", "event", "ev-1", at).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("n-1"))

	n := &domain.Notification{
		UserID: "u1", TemplateKey: domain.TemplateEventInvitation, Title: "Invited", Body: "You are invited",
		RelatedEntityType: "event", RelatedEntityID: "ev-1", CreatedAt: at,
	}
	require.NoError(t, NewNotificationRepository(db).Create(context.Background(), n))
	require.Equal(t, "n-1", n.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, email, name, last_name FROM users WHERE id = \$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "last_name"}).AddRow("u1", "sam@example.com", "Sam", nil))
	mock.ExpectQuery(`SELECT id, email, name, last_name FROM users`).
		WithArgs("u2").
		WillReturnError(sql.ErrNoRows)

	repo := NewMemberRepository(db)
	m, err := repo.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, "Sam", m.Name)
	require.Empty(t, m.LastName)

	_, err = repo.GetByID(context.Background(), "u2")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
