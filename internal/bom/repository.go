package bom

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	CreateLineItem(ctx context.Context, item *LineItem) error
	GetLineItemByID(ctx context.Context, id uuid.UUID) (*LineItem, error)
	ListLineItems(ctx context.Context, parentProductID uuid.UUID) ([]LineItem, error)
	UpdateLineItem(ctx context.Context, item *LineItem) error
	DeleteLineItem(ctx context.Context, id uuid.UUID) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateLineItem(ctx context.Context, item *LineItem) error {
	query := `
		INSERT INTO bom_line_items (
			id, parent_product_id, line_item_product_id, quantity
		) VALUES (
			:id, :parent_product_id, :line_item_product_id, :quantity
		)`
	_, err := r.db.NamedExecContext(ctx, query, item)
	return err
}

func (r *postgresRepository) GetLineItemByID(ctx context.Context, id uuid.UUID) (*LineItem, error) {
	var item LineItem
	err := r.db.GetContext(ctx, &item, "SELECT * FROM bom_line_items WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &item, err
}

func (r *postgresRepository) ListLineItems(ctx context.Context, parentProductID uuid.UUID) ([]LineItem, error) {
	var items []LineItem
	err := r.db.SelectContext(ctx, &items,
		"SELECT * FROM bom_line_items WHERE parent_product_id = $1 ORDER BY created_at ASC", parentProductID)
	return items, err
}

func (r *postgresRepository) UpdateLineItem(ctx context.Context, item *LineItem) error {
	query := `
		UPDATE bom_line_items SET
			quantity = :quantity,
			updated_at = NOW()
		WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, query, item)
	return err
}

func (r *postgresRepository) DeleteLineItem(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM emission_line_items WHERE line_item_id = $1", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM bom_line_items WHERE id = $1", id); err != nil {
		return err
	}
	return tx.Commit()
}
