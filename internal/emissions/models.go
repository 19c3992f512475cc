package emissions

import (
	"time"

	"github.com/google/uuid"
)

// ParentType tells which emission entry an override factor row belongs to.
type ParentType string

const (
	ParentTransport        ParentType = "transport"
	ParentProductionEnergy ParentType = "production_energy"
)

// TransportEmission is one transport leg contributing to a product's footprint.
// Distance is in km, weight in tonnes.
type TransportEmission struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	ProductID   uuid.UUID  `json:"product_id" db:"product_id"`
	Description string     `json:"description" db:"description"`
	Distance    float64    `json:"distance" db:"distance"`
	Weight      float64    `json:"weight" db:"weight"`
	ReferenceID *uuid.UUID `json:"emission_reference_id,omitempty" db:"reference_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`

	OverrideFactors []OverrideFactor `json:"override_factors" db:"-"`
	// LineItemIDs are the BOM lines this leg carries material for.
	LineItemIDs []uuid.UUID `json:"line_item_ids" db:"-"`
}

// ProductionEnergyEmission is one production energy entry (kWh consumed).
type ProductionEnergyEmission struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	ProductID         uuid.UUID  `json:"product_id" db:"product_id"`
	Description       string     `json:"description" db:"description"`
	EnergyConsumption float64    `json:"energy_consumption" db:"energy_consumption"`
	ReferenceID       *uuid.UUID `json:"emission_reference_id,omitempty" db:"reference_id"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`

	OverrideFactors []OverrideFactor `json:"override_factors" db:"-"`
	LineItemIDs     []uuid.UUID      `json:"line_item_ids" db:"-"`
}

// OverrideFactor is a user-supplied factor row. A non-empty override list
// replaces the referenced catalog factors entirely when totals are resolved.
type OverrideFactor struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	ParentType     ParentType `json:"-" db:"parent_type"`
	ParentID       uuid.UUID  `json:"-" db:"parent_id"`
	LifecycleStage string     `json:"lifecycle_stage" db:"lifecycle_stage"`
	Biogenic       float64    `json:"co_2_emission_factor_biogenic" db:"co_2_emission_factor_biogenic"`
	NonBiogenic    float64    `json:"co_2_emission_factor_non_biogenic" db:"co_2_emission_factor_non_biogenic"`
}

// OverrideFactorInput is one row of the override editor's save payload.
type OverrideFactorInput struct {
	LifecycleStage string   `json:"lifecycle_stage"`
	Biogenic       *float64 `json:"co_2_emission_factor_biogenic"`
	NonBiogenic    *float64 `json:"co_2_emission_factor_non_biogenic"`
}

type CreateTransportRequest struct {
	Description     string                `json:"description"`
	Distance        *float64              `json:"distance" binding:"required"`
	Weight          *float64              `json:"weight" binding:"required"`
	ReferenceID     *uuid.UUID            `json:"emission_reference_id"`
	OverrideFactors []OverrideFactorInput `json:"override_factors"`
	LineItemIDs     []uuid.UUID           `json:"line_item_ids"`
}

type UpdateTransportRequest = CreateTransportRequest

type CreateEnergyRequest struct {
	Description       string                `json:"description"`
	EnergyConsumption *float64              `json:"energy_consumption" binding:"required"`
	ReferenceID       *uuid.UUID            `json:"emission_reference_id"`
	OverrideFactors   []OverrideFactorInput `json:"override_factors"`
	LineItemIDs       []uuid.UUID           `json:"line_item_ids"`
}

type UpdateEnergyRequest = CreateEnergyRequest

// TransportView carries the stored entry plus its resolved total.
type TransportView struct {
	TransportEmission
	EmissionTotal        *float64 `json:"emission_total,omitempty"`
	EmissionTotalDisplay string   `json:"emission_total_display"`
}

// EnergyView carries the stored entry plus its resolved total.
type EnergyView struct {
	ProductionEnergyEmission
	EmissionTotal        *float64 `json:"emission_total,omitempty"`
	EmissionTotalDisplay string   `json:"emission_total_display"`
}
