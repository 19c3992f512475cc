package sharing

import (
	"time"

	"github.com/google/uuid"

	"carbon-ledger/supplier-portal/supplier-portal-backend/pkg/workflows"
)

// SharingRequest is one company asking a supplier for access to a product's
// emission data. Status follows the sharing-gate state machine.
type SharingRequest struct {
	ID                 uuid.UUID               `json:"id" db:"id"`
	ProductID          uuid.UUID               `json:"product_id" db:"product_id"`
	SupplierCompanyID  uuid.UUID               `json:"supplier_company_id" db:"supplier_company_id"`
	RequesterCompanyID uuid.UUID               `json:"requester_company_id" db:"requester_company_id"`
	Status             workflows.SharingStatus `json:"status" db:"status"`
	CreatedAt          time.Time               `json:"created_at" db:"created_at"`
	DecidedAt          *time.Time              `json:"decided_at,omitempty" db:"decided_at"`
}

type CreateRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}
