package catalog

import (
	"time"

	"github.com/google/uuid"
)

// EmissionReference is a named catalog entry of standard emission factors.
// The catalog is read-only from the API's perspective.
type EmissionReference struct {
	ID              uuid.UUID         `json:"id" db:"id"`
	Name            string            `json:"name" db:"name"`
	Source          string            `json:"source" db:"source"`
	Version         string            `json:"version" db:"version"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
	EmissionFactors []ReferenceFactor `json:"emission_factors" db:"-"`
}

// ReferenceFactor is one lifecycle stage's coefficient pair within a reference.
type ReferenceFactor struct {
	ID             uuid.UUID `json:"id" db:"id"`
	ReferenceID    uuid.UUID `json:"reference_id" db:"reference_id"`
	LifecycleStage string    `json:"lifecycle_stage" db:"lifecycle_stage"`
	Biogenic       float64   `json:"co_2_emission_factor_biogenic" db:"co_2_emission_factor_biogenic"`
	NonBiogenic    float64   `json:"co_2_emission_factor_non_biogenic" db:"co_2_emission_factor_non_biogenic"`
}

// LifecycleStage is one valid stage choice for factors and overrides.
type LifecycleStage struct {
	Code  string `json:"code" db:"code"`
	Label string `json:"label" db:"label"`
}
