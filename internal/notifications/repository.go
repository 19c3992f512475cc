package notifications

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	ListByCompany(ctx context.Context, companyID uuid.UUID, unreadOnly bool, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, companyID, notificationID uuid.UUID) (bool, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, notification *Notification) error {
	query := `
		INSERT INTO notifications (
			id, company_id, type, message, data
		) VALUES (
			:id, :company_id, :type, :message, :data
		)`
	_, err := r.db.NamedExecContext(ctx, query, notification)
	return err
}

func (r *postgresRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, unreadOnly bool, limit int) ([]Notification, error) {
	query := "SELECT * FROM notifications WHERE company_id = $1"
	if unreadOnly {
		query += " AND read_at IS NULL"
	}
	query += " ORDER BY created_at DESC LIMIT $2"

	var items []Notification
	err := r.db.SelectContext(ctx, &items, query, companyID, limit)
	return items, err
}

func (r *postgresRepository) MarkRead(ctx context.Context, companyID, notificationID uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET read_at = NOW() WHERE id = $1 AND company_id = $2 AND read_at IS NULL",
		notificationID, companyID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	return rows > 0, err
}
