package postgres

import (
	"context"
	"database/sql"

	"teamhub/internal/domain"
)

type notificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(db *sql.DB) domain.NotificationRepository {
	return &notificationRepository{DB: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (user_id, template_key, title, body, related_entity_type, related_entity_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := conn(ctx, r.DB).QueryRowContext(ctx, query,
		n.UserID, n.TemplateKey, n.Title, n.Body,
		nullString(n.RelatedEntityType), nullString(n.RelatedEntityID), n.CreatedAt,
	).Scan(&n.ID)
	return mapError(err)
}
