package postgres

import (
	"context"
	"database/sql"
	"errors"

	"teamhub/internal/domain"
)

type memberRepository struct {
	DB *sql.DB
}

func NewMemberRepository(db *sql.DB) domain.MemberRepository {
	return &memberRepository{DB: db}
}

func (r *memberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	query := `
		SELECT id, email, name, last_name
		FROM users
		WHERE id = $1
	`
	m := &domain.Member{}
	var name, lastName sql.NullString
	err := conn(ctx, r.DB).QueryRowContext(ctx, query, id).Scan(&m.ID, &m.Email, &name, &lastName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapError(err)
	}
	m.Name = name.String
	m.LastName = lastName.String
	return m, nil
}
