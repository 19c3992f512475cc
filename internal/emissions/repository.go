package emissions

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository interface {
	CreateTransport(ctx context.Context, entry *TransportEmission) error
	GetTransportByID(ctx context.Context, id uuid.UUID) (*TransportEmission, error)
	ListTransport(ctx context.Context, productID uuid.UUID) ([]TransportEmission, error)
	UpdateTransport(ctx context.Context, entry *TransportEmission) error
	DeleteTransport(ctx context.Context, id uuid.UUID) error

	CreateEnergy(ctx context.Context, entry *ProductionEnergyEmission) error
	GetEnergyByID(ctx context.Context, id uuid.UUID) (*ProductionEnergyEmission, error)
	ListEnergy(ctx context.Context, productID uuid.UUID) ([]ProductionEnergyEmission, error)
	UpdateEnergy(ctx context.Context, entry *ProductionEnergyEmission) error
	DeleteEnergy(ctx context.Context, id uuid.UUID) error

	ListOverrides(ctx context.Context, parentType ParentType, parentID uuid.UUID) ([]OverrideFactor, error)
	ReplaceOverrides(ctx context.Context, parentType ParentType, parentID uuid.UUID, factors []OverrideFactor) error

	ListLineItemIDs(ctx context.Context, parentType ParentType, parentID uuid.UUID) ([]uuid.UUID, error)
	ReplaceLineItems(ctx context.Context, parentType ParentType, parentID uuid.UUID, lineItemIDs []uuid.UUID) error
	CountProductLineItems(ctx context.Context, productID uuid.UUID, lineItemIDs []uuid.UUID) (int, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateTransport(ctx context.Context, entry *TransportEmission) error {
	query := `
		INSERT INTO transport_emissions (
			id, product_id, description, distance, weight, reference_id
		) VALUES (
			:id, :product_id, :description, :distance, :weight, :reference_id
		)`
	_, err := r.db.NamedExecContext(ctx, query, entry)
	return err
}

func (r *postgresRepository) GetTransportByID(ctx context.Context, id uuid.UUID) (*TransportEmission, error) {
	var entry TransportEmission
	err := r.db.GetContext(ctx, &entry, "SELECT * FROM transport_emissions WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &entry, err
}

func (r *postgresRepository) ListTransport(ctx context.Context, productID uuid.UUID) ([]TransportEmission, error) {
	var entries []TransportEmission
	err := r.db.SelectContext(ctx, &entries,
		"SELECT * FROM transport_emissions WHERE product_id = $1 ORDER BY created_at ASC", productID)
	return entries, err
}

func (r *postgresRepository) UpdateTransport(ctx context.Context, entry *TransportEmission) error {
	query := `
		UPDATE transport_emissions SET
			description = :description,
			distance = :distance,
			weight = :weight,
			reference_id = :reference_id,
			updated_at = NOW()
		WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, query, entry)
	return err
}

func (r *postgresRepository) DeleteTransport(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM emission_override_factors WHERE parent_type = $1 AND parent_id = $2",
		ParentTransport, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM emission_line_items WHERE parent_type = $1 AND parent_id = $2",
		ParentTransport, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM transport_emissions WHERE id = $1", id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepository) CreateEnergy(ctx context.Context, entry *ProductionEnergyEmission) error {
	query := `
		INSERT INTO production_energy_emissions (
			id, product_id, description, energy_consumption, reference_id
		) VALUES (
			:id, :product_id, :description, :energy_consumption, :reference_id
		)`
	_, err := r.db.NamedExecContext(ctx, query, entry)
	return err
}

func (r *postgresRepository) GetEnergyByID(ctx context.Context, id uuid.UUID) (*ProductionEnergyEmission, error) {
	var entry ProductionEnergyEmission
	err := r.db.GetContext(ctx, &entry, "SELECT * FROM production_energy_emissions WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &entry, err
}

func (r *postgresRepository) ListEnergy(ctx context.Context, productID uuid.UUID) ([]ProductionEnergyEmission, error) {
	var entries []ProductionEnergyEmission
	err := r.db.SelectContext(ctx, &entries,
		"SELECT * FROM production_energy_emissions WHERE product_id = $1 ORDER BY created_at ASC", productID)
	return entries, err
}

func (r *postgresRepository) UpdateEnergy(ctx context.Context, entry *ProductionEnergyEmission) error {
	query := `
		UPDATE production_energy_emissions SET
			description = :description,
			energy_consumption = :energy_consumption,
			reference_id = :reference_id,
			updated_at = NOW()
		WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, query, entry)
	return err
}

func (r *postgresRepository) DeleteEnergy(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM emission_override_factors WHERE parent_type = $1 AND parent_id = $2",
		ParentProductionEnergy, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM emission_line_items WHERE parent_type = $1 AND parent_id = $2",
		ParentProductionEnergy, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM production_energy_emissions WHERE id = $1", id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepository) ListOverrides(ctx context.Context, parentType ParentType, parentID uuid.UUID) ([]OverrideFactor, error) {
	var factors []OverrideFactor
	err := r.db.SelectContext(ctx, &factors,
		`SELECT * FROM emission_override_factors
		 WHERE parent_type = $1 AND parent_id = $2
		 ORDER BY lifecycle_stage ASC`, parentType, parentID)
	return factors, err
}

// ReplaceOverrides swaps the full override list atomically. Saving an empty
// list clears the overrides so the reference factors apply again.
func (r *postgresRepository) ReplaceOverrides(ctx context.Context, parentType ParentType, parentID uuid.UUID, factors []OverrideFactor) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM emission_override_factors WHERE parent_type = $1 AND parent_id = $2",
		parentType, parentID); err != nil {
		return err
	}

	for i := range factors {
		query := `
			INSERT INTO emission_override_factors (
				id, parent_type, parent_id, lifecycle_stage,
				co_2_emission_factor_biogenic, co_2_emission_factor_non_biogenic
			) VALUES (
				:id, :parent_type, :parent_id, :lifecycle_stage,
				:co_2_emission_factor_biogenic, :co_2_emission_factor_non_biogenic
			)`
		if _, err := tx.NamedExecContext(ctx, query, factors[i]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *postgresRepository) ListLineItemIDs(ctx context.Context, parentType ParentType, parentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids,
		`SELECT line_item_id FROM emission_line_items
		 WHERE parent_type = $1 AND parent_id = $2
		 ORDER BY line_item_id ASC`, parentType, parentID)
	return ids, err
}

// ReplaceLineItems swaps the set of BOM lines associated with an entry.
func (r *postgresRepository) ReplaceLineItems(ctx context.Context, parentType ParentType, parentID uuid.UUID, lineItemIDs []uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM emission_line_items WHERE parent_type = $1 AND parent_id = $2",
		parentType, parentID); err != nil {
		return err
	}

	for _, id := range lineItemIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO emission_line_items (parent_type, parent_id, line_item_id) VALUES ($1, $2, $3)",
			parentType, parentID, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *postgresRepository) CountProductLineItems(ctx context.Context, productID uuid.UUID, lineItemIDs []uuid.UUID) (int, error) {
	if len(lineItemIDs) == 0 {
		return 0, nil
	}
	var count int
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM bom_line_items WHERE parent_product_id = $1 AND id = ANY($2)",
		productID, pq.Array(lineItemIDs))
	return count, err
}
