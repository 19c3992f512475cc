package companies

import (
	"time"

	"github.com/google/uuid"
)

type Company struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Address   string    `json:"address" db:"address"`
	Country   string    `json:"country" db:"country"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Product struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	CompanyID           uuid.UUID `json:"company_id" db:"company_id"`
	Name                string    `json:"name" db:"name"`
	Description         string    `json:"description" db:"description"`
	ReferenceImpactUnit string    `json:"reference_impact_unit" db:"reference_impact_unit"`
	// EmissionTotal is kg CO2e per reference unit, maintained by the roll-up
	// worker from the product's own emission records and BOM lines.
	EmissionTotal float64   `json:"emission_total" db:"emission_total"`
	TotalStale    bool      `json:"-" db:"total_stale"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

type CreateProductRequest struct {
	Name                string `json:"name" binding:"required"`
	Description         string `json:"description"`
	ReferenceImpactUnit string `json:"reference_impact_unit" binding:"required"`
}

type UpdateProductRequest struct {
	Name                string `json:"name" binding:"required"`
	Description         string `json:"description"`
	ReferenceImpactUnit string `json:"reference_impact_unit" binding:"required"`
}
