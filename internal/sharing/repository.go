package sharing

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"carbon-ledger/supplier-portal/supplier-portal-backend/pkg/workflows"
)

type Repository interface {
	CreateRequest(ctx context.Context, request *SharingRequest) error
	GetRequestByID(ctx context.Context, id uuid.UUID) (*SharingRequest, error)
	GetRequestForProduct(ctx context.Context, productID, requesterCompanyID uuid.UUID) (*SharingRequest, error)
	ListOutgoing(ctx context.Context, requesterCompanyID uuid.UUID, status *workflows.SharingStatus) ([]SharingRequest, error)
	ListIncoming(ctx context.Context, supplierCompanyID uuid.UUID, status *workflows.SharingStatus) ([]SharingRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status workflows.SharingStatus) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateRequest(ctx context.Context, request *SharingRequest) error {
	query := `
		INSERT INTO sharing_requests (
			id, product_id, supplier_company_id, requester_company_id, status
		) VALUES (
			:id, :product_id, :supplier_company_id, :requester_company_id, :status
		)`
	_, err := r.db.NamedExecContext(ctx, query, request)
	return err
}

func (r *postgresRepository) GetRequestByID(ctx context.Context, id uuid.UUID) (*SharingRequest, error) {
	var request SharingRequest
	err := r.db.GetContext(ctx, &request, "SELECT * FROM sharing_requests WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &request, err
}

func (r *postgresRepository) GetRequestForProduct(ctx context.Context, productID, requesterCompanyID uuid.UUID) (*SharingRequest, error) {
	var request SharingRequest
	err := r.db.GetContext(ctx, &request,
		"SELECT * FROM sharing_requests WHERE product_id = $1 AND requester_company_id = $2",
		productID, requesterCompanyID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &request, err
}

func (r *postgresRepository) ListOutgoing(ctx context.Context, requesterCompanyID uuid.UUID, status *workflows.SharingStatus) ([]SharingRequest, error) {
	return r.list(ctx, "requester_company_id", requesterCompanyID, status)
}

func (r *postgresRepository) ListIncoming(ctx context.Context, supplierCompanyID uuid.UUID, status *workflows.SharingStatus) ([]SharingRequest, error) {
	return r.list(ctx, "supplier_company_id", supplierCompanyID, status)
}

func (r *postgresRepository) list(ctx context.Context, column string, companyID uuid.UUID, status *workflows.SharingStatus) ([]SharingRequest, error) {
	var requests []SharingRequest
	query := "SELECT * FROM sharing_requests WHERE " + column + " = $1"
	args := []interface{}{companyID}

	if status != nil {
		query += " AND status = $2"
		args = append(args, *status)
	}
	query += " ORDER BY created_at DESC"

	err := r.db.SelectContext(ctx, &requests, query, args...)
	return requests, err
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status workflows.SharingStatus) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE sharing_requests SET status = $2, decided_at = NOW() WHERE id = $1", id, status)
	return err
}
