package emissions

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// StageValidator is the slice of the catalog used to check override stages.
type StageValidator interface {
	IsValidStage(ctx context.Context, code string) (bool, error)
}

func validatePositiveFinite(name string, value *float64) error {
	if value == nil {
		return fmt.Errorf("%s is required", name)
	}
	if math.IsNaN(*value) || math.IsInf(*value, 0) {
		return fmt.Errorf("%s must be a finite number", name)
	}
	if *value <= 0 {
		return fmt.Errorf("%s must be greater than zero", name)
	}
	return nil
}

func validateTransportRequest(req CreateTransportRequest) error {
	if err := validatePositiveFinite("distance", req.Distance); err != nil {
		return err
	}
	return validatePositiveFinite("weight", req.Weight)
}

func validateEnergyRequest(req CreateEnergyRequest) error {
	return validatePositiveFinite("energy_consumption", req.EnergyConsumption)
}

// validateOverrides checks every row of the override editor payload and maps
// it onto storable rows. The whole list is rejected on the first bad row.
func validateOverrides(ctx context.Context, stages StageValidator, parentType ParentType, parentID uuid.UUID, inputs []OverrideFactorInput) ([]OverrideFactor, error) {
	factors := make([]OverrideFactor, 0, len(inputs))
	for i, input := range inputs {
		stage := strings.TrimSpace(input.LifecycleStage)
		if stage == "" {
			return nil, fmt.Errorf("override row %d: lifecycle stage is required", i+1)
		}

		valid, err := stages.IsValidStage(ctx, stage)
		if err != nil {
			return nil, err
		}
		if !valid {
			return nil, fmt.Errorf("override row %d: unknown lifecycle stage %q", i+1, stage)
		}

		if err := validateCoefficient(i, "biogenic", input.Biogenic); err != nil {
			return nil, err
		}
		if err := validateCoefficient(i, "non-biogenic", input.NonBiogenic); err != nil {
			return nil, err
		}

		factors = append(factors, OverrideFactor{
			ID:             uuid.New(),
			ParentType:     parentType,
			ParentID:       parentID,
			LifecycleStage: stage,
			Biogenic:       *input.Biogenic,
			NonBiogenic:    *input.NonBiogenic,
		})
	}
	return factors, nil
}

func validateCoefficient(row int, name string, value *float64) error {
	if value == nil {
		return fmt.Errorf("override row %d: %s factor is required", row+1, name)
	}
	if math.IsNaN(*value) || math.IsInf(*value, 0) {
		return fmt.Errorf("override row %d: %s factor must be a finite number", row+1, name)
	}
	return nil
}
