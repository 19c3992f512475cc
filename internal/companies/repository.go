package companies

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	ListCompanies(ctx context.Context) ([]Company, error)
	GetCompanyByID(ctx context.Context, id uuid.UUID) (*Company, error)

	ListProducts(ctx context.Context, companyID uuid.UUID, search string) ([]Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*Product, error)
	CreateProduct(ctx context.Context, product *Product) error
	UpdateProduct(ctx context.Context, product *Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	MarkProductStale(ctx context.Context, id uuid.UUID) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) ListCompanies(ctx context.Context) ([]Company, error) {
	var companies []Company
	err := r.db.SelectContext(ctx, &companies, "SELECT * FROM companies ORDER BY name ASC")
	return companies, err
}

func (r *postgresRepository) GetCompanyByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	var company Company
	err := r.db.GetContext(ctx, &company, "SELECT * FROM companies WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &company, err
}

func (r *postgresRepository) ListProducts(ctx context.Context, companyID uuid.UUID, search string) ([]Product, error) {
	var products []Product
	query := "SELECT * FROM products WHERE company_id = $1"
	args := []interface{}{companyID}

	if search != "" {
		query += " AND name ILIKE $2"
		args = append(args, "%"+search+"%")
	}
	query += " ORDER BY name ASC"

	err := r.db.SelectContext(ctx, &products, query, args...)
	return products, err
}

func (r *postgresRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	var product Product
	err := r.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &product, err
}

func (r *postgresRepository) CreateProduct(ctx context.Context, product *Product) error {
	query := `
		INSERT INTO products (
			id, company_id, name, description, reference_impact_unit,
			emission_total, total_stale
		) VALUES (
			:id, :company_id, :name, :description, :reference_impact_unit,
			:emission_total, :total_stale
		)`
	_, err := r.db.NamedExecContext(ctx, query, product)
	return err
}

func (r *postgresRepository) UpdateProduct(ctx context.Context, product *Product) error {
	query := `
		UPDATE products SET
			name = :name,
			description = :description,
			reference_impact_unit = :reference_impact_unit,
			updated_at = NOW()
		WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, query, product)
	return err
}

func (r *postgresRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	return err
}

func (r *postgresRepository) MarkProductStale(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "UPDATE products SET total_stale = true WHERE id = $1", id)
	return err
}
