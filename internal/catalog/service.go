package catalog

import (
	"context"

	"github.com/google/uuid"

	"carbon-ledger/supplier-portal/supplier-portal-backend/pkg/emission"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListReferences(ctx context.Context) ([]EmissionReference, error) {
	return s.repo.ListReferences(ctx)
}

func (s *Service) GetReference(ctx context.Context, id uuid.UUID) (*EmissionReference, error) {
	return s.repo.GetReferenceByID(ctx, id)
}

func (s *Service) ListLifecycleStages(ctx context.Context) ([]LifecycleStage, error) {
	return s.repo.ListLifecycleStages(ctx)
}

// IsValidStage checks a stage code against the catalog's choices.
func (s *Service) IsValidStage(ctx context.Context, code string) (bool, error) {
	stages, err := s.repo.ListLifecycleStages(ctx)
	if err != nil {
		return false, err
	}
	for _, stage := range stages {
		if stage.Code == code {
			return true, nil
		}
	}
	return false, nil
}

// ResolverFactors loads a reference's factors in the shape the emission
// resolver consumes. A nil reference id yields an empty slice.
func (s *Service) ResolverFactors(ctx context.Context, referenceID *uuid.UUID) ([]emission.Factor, error) {
	if referenceID == nil {
		return nil, nil
	}

	factors, err := s.repo.ListFactors(ctx, *referenceID)
	if err != nil {
		return nil, err
	}

	resolved := make([]emission.Factor, 0, len(factors))
	for _, f := range factors {
		resolved = append(resolved, emission.Factor{
			LifecycleStage: f.LifecycleStage,
			Biogenic:       f.Biogenic,
			NonBiogenic:    f.NonBiogenic,
		})
	}
	return resolved, nil
}
