package catalog

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	ListReferences(ctx context.Context) ([]EmissionReference, error)
	GetReferenceByID(ctx context.Context, id uuid.UUID) (*EmissionReference, error)
	ListFactors(ctx context.Context, referenceID uuid.UUID) ([]ReferenceFactor, error)
	ListLifecycleStages(ctx context.Context) ([]LifecycleStage, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) ListReferences(ctx context.Context) ([]EmissionReference, error) {
	var references []EmissionReference
	err := r.db.SelectContext(ctx, &references, "SELECT * FROM emission_references ORDER BY name ASC")
	if err != nil {
		return nil, err
	}

	for i := range references {
		factors, err := r.ListFactors(ctx, references[i].ID)
		if err != nil {
			return nil, err
		}
		references[i].EmissionFactors = factors
	}

	return references, nil
}

func (r *postgresRepository) GetReferenceByID(ctx context.Context, id uuid.UUID) (*EmissionReference, error) {
	var reference EmissionReference
	err := r.db.GetContext(ctx, &reference, "SELECT * FROM emission_references WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	factors, err := r.ListFactors(ctx, id)
	if err != nil {
		return nil, err
	}
	reference.EmissionFactors = factors

	return &reference, nil
}

func (r *postgresRepository) ListFactors(ctx context.Context, referenceID uuid.UUID) ([]ReferenceFactor, error) {
	var factors []ReferenceFactor
	err := r.db.SelectContext(ctx, &factors,
		"SELECT * FROM emission_reference_factors WHERE reference_id = $1 ORDER BY lifecycle_stage ASC", referenceID)
	return factors, err
}

func (r *postgresRepository) ListLifecycleStages(ctx context.Context) ([]LifecycleStage, error) {
	var stages []LifecycleStage
	err := r.db.SelectContext(ctx, &stages, "SELECT * FROM lifecycle_stages ORDER BY code ASC")
	return stages, err
}
