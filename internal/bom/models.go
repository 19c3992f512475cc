package bom

import (
	"time"

	"github.com/google/uuid"

	"carbon-ledger/supplier-portal/supplier-portal-backend/pkg/workflows"
)

// LineItem is one quantity of a supplied product consumed by a parent product.
type LineItem struct {
	ID                uuid.UUID `json:"id" db:"id"`
	ParentProductID   uuid.UUID `json:"parent_product_id" db:"parent_product_id"`
	LineItemProductID uuid.UUID `json:"line_item_product_id" db:"line_item_product_id"`
	Quantity          float64   `json:"quantity" db:"quantity"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// ProductSummary is the nested product payload on a line item view. The
// supplier's emission total is omitted unless the sharing gate allows it.
type ProductSummary struct {
	ID                  uuid.UUID `json:"id"`
	CompanyID           uuid.UUID `json:"company_id"`
	Name                string    `json:"name"`
	ReferenceImpactUnit string    `json:"reference_impact_unit"`
	EmissionTotal       *float64  `json:"emission_total,omitempty"`
}

// LineItemView is a line item with its resolved emission figure. EmissionTotal
// is nil whenever the gate blocks it or the figure is not finite; the display
// string then carries the placeholder.
type LineItemView struct {
	ID                          uuid.UUID               `json:"id"`
	Quantity                    float64                 `json:"quantity"`
	LineItemProduct             ProductSummary          `json:"line_item_product"`
	ProductSharingRequestStatus workflows.SharingStatus `json:"product_sharing_request_status,omitempty"`
	EmissionTotal               *float64                `json:"emission_total,omitempty"`
	EmissionTotalDisplay        string                  `json:"emission_total_display"`
}

type CreateLineItemRequest struct {
	LineItemProductID uuid.UUID `json:"line_item_product_id" binding:"required"`
	Quantity          *float64  `json:"quantity" binding:"required"`
}

type UpdateLineItemRequest struct {
	Quantity *float64 `json:"quantity" binding:"required"`
}
