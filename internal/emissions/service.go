package emissions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/audit"
	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/companies"
	"carbon-ledger/supplier-portal/supplier-portal-backend/pkg/emission"
)

// ProductDirectory is the slice of the companies service this module needs.
type ProductDirectory interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*companies.Product, error)
	MarkStale(ctx context.Context, productID uuid.UUID) error
}

// FactorCatalog resolves reference factors and validates override stages.
type FactorCatalog interface {
	StageValidator
	ResolverFactors(ctx context.Context, referenceID *uuid.UUID) ([]emission.Factor, error)
}

type Service struct {
	repo     Repository
	products ProductDirectory
	catalog  FactorCatalog
	audit    audit.Recorder
}

func NewService(repo Repository, products ProductDirectory, catalog FactorCatalog, recorder audit.Recorder) *Service {
	return &Service{
		repo:     repo,
		products: products,
		catalog:  catalog,
		audit:    recorder,
	}
}

// Emission entries are only visible to and editable by the product's company.

func (s *Service) ListTransport(ctx context.Context, callerCompanyID, productID uuid.UUID) ([]TransportView, error) {
	if err := s.checkOwnership(ctx, callerCompanyID, productID); err != nil {
		return nil, err
	}

	entries, err := s.repo.ListTransport(ctx, productID)
	if err != nil {
		return nil, err
	}

	views := make([]TransportView, 0, len(entries))
	for i := range entries {
		view, err := s.transportView(ctx, &entries[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *Service) CreateTransport(ctx context.Context, callerCompanyID, callerUserID, productID uuid.UUID, req CreateTransportRequest) (*TransportView, error) {
	if err := s.checkOwnership(ctx, callerCompanyID, productID); err != nil {
		return nil, err
	}
	if err := validateTransportRequest(req); err != nil {
		return nil, err
	}

	entry := &TransportEmission{
		ID:          uuid.New(),
		ProductID:   productID,
		Description: req.Description,
		Distance:    *req.Distance,
		Weight:      *req.Weight,
		ReferenceID: req.ReferenceID,
		CreatedAt:   time.Now(),
	}

	overrides, err := validateOverrides(ctx, s.catalog, ParentTransport, entry.ID, req.OverrideFactors)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateTransport(ctx, entry); err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceOverrides(ctx, ParentTransport, entry.ID, overrides); err != nil {
		return nil, err
	}
	if err := s.saveLineItems(ctx, ParentTransport, entry.ID, productID, req.LineItemIDs); err != nil {
		return nil, err
	}
	if err := s.products.MarkStale(ctx, productID); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		CompanyID:  callerCompanyID,
		UserID:     callerUserID,
		Action:     "CREATE",
		EntityType: "transport_emission",
		EntityID:   entry.ID,
		Detail: map[string]interface{}{
			"product_id": productID.String(),
			"distance":   entry.Distance,
			"weight":     entry.Weight,
		},
	})

	return s.transportView(ctx, entry)
}

func (s *Service) UpdateTransport(ctx context.Context, callerCompanyID, callerUserID, productID, entryID uuid.UUID, req UpdateTransportRequest) (*TransportView, error) {
	if err := s.checkOwnership(ctx, callerCompanyID, productID); err != nil {
		return nil, err
	}
	if err := validateTransportRequest(req); err != nil {
		return nil, err
	}

	entry, err := s.repo.GetTransportByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil || entry.ProductID != productID {
		return nil, fmt.Errorf("transport emission not found")
	}

	overrides, err := validateOverrides(ctx, s.catalog, ParentTransport, entry.ID, req.OverrideFactors)
	if err != nil {
		return nil, err
	}

	entry.Description = req.Description
	entry.Distance = *req.Distance
	entry.Weight = *req.Weight
	entry.ReferenceID = req.ReferenceID

	if err := s.repo.UpdateTransport(ctx, entry); err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceOverrides(ctx, ParentTransport, entry.ID, overrides); err != nil {
		return nil, err
	}
	if err := s.saveLineItems(ctx, ParentTransport, entry.ID, productID, req.LineItemIDs); err != nil {
		return nil, err
	}
	if err := s.products.MarkStale(ctx, productID); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		CompanyID:  callerCompanyID,
		UserID:     callerUserID,
		Action:     "UPDATE",
		EntityType: "transport_emission",
		EntityID:   entry.ID,
		Detail: map[string]interface{}{
			"product_id": productID.String(),
			"distance":   entry.Distance,
			"weight":     entry.Weight,
		},
	})

	return s.transportView(ctx, entry)
}

func (s *Service) DeleteTransport(ctx context.Context, callerCompanyID, callerUserID, productID, entryID uuid.UUID) error {
	if err := s.checkOwnership(ctx, callerCompanyID, productID); err != nil {
		return err
	}

	entry, err := s.repo.GetTransportByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry == nil || entry.ProductID != productID {
		return fmt.Errorf("transport emission not found")
	}

	if err := s.repo.DeleteTransport(ctx, entryID); err != nil {
		return err
	}
	if err := s.products.MarkStale(ctx, productID); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.Entry{
		CompanyID:  callerCompanyID,
		UserID:     callerUserID,
		Action:     "DELETE",
		EntityType: "transport_emission",
		EntityID:   entryID,
		Detail:     map[string]interface{}{"product_id": productID.String()},
	})
	return nil
}

func (s *Service) ListEnergy(ctx context.Context, callerCompanyID, productID uuid.UUID) ([]EnergyView, error) {
	if err := s.checkOwnership(ctx, callerCompanyID, productID); err != nil {
		return nil, err
	}

	entries, err := s.repo.ListEnergy(ctx, productID)
	if err != nil {
		return nil, err
	}

	views := make([]EnergyView, 0, len(entries))
	for i := range entries {
		view, err := s.energyView(ctx, &entries[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *Service) CreateEnergy(ctx context.Context, callerCompanyID, callerUserID, productID uuid.UUID, req CreateEnergyRequest) (*EnergyView, error) {
	if err := s.checkOwnership(ctx, callerCompanyID, productID); err != nil {
		return nil, err
	}
	if err := validateEnergyRequest(req); err != nil {
		return nil, err
	}

	entry := &ProductionEnergyEmission{
		ID:                uuid.New(),
		ProductID:         productID,
		Description:       req.Description,
		EnergyConsumption: *req.EnergyConsumption,
		ReferenceID:       req.ReferenceID,
		CreatedAt:         time.Now(),
	}

	overrides, err := validateOverrides(ctx, s.catalog, ParentProductionEnergy, entry.ID, req.OverrideFactors)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateEnergy(ctx, entry); err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceOverrides(ctx, ParentProductionEnergy, entry.ID, overrides); err != nil {
		return nil, err
	}
	if err := s.saveLineItems(ctx, ParentProductionEnergy, entry.ID, productID, req.LineItemIDs); err != nil {
		return nil, err
	}
	if err := s.products.MarkStale(ctx, productID); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		CompanyID:  callerCompanyID,
		UserID:     callerUserID,
		Action:     "CREATE",
		EntityType: "production_energy_emission",
		EntityID:   entry.ID,
		Detail: map[string]interface{}{
			"product_id":         productID.String(),
			"energy_consumption": entry.EnergyConsumption,
		},
	})

	return s.energyView(ctx, entry)
}

func (s *Service) UpdateEnergy(ctx context.Context, callerCompanyID, callerUserID, productID, entryID uuid.UUID, req UpdateEnergyRequest) (*EnergyView, error) {
	if err := s.checkOwnership(ctx, callerCompanyID, productID); err != nil {
		return nil, err
	}
	if err := validateEnergyRequest(req); err != nil {
		return nil, err
	}

	entry, err := s.repo.GetEnergyByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil || entry.ProductID != productID {
		return nil, fmt.Errorf("production energy emission not found")
	}

	overrides, err := validateOverrides(ctx, s.catalog, ParentProductionEnergy, entry.ID, req.OverrideFactors)
	if err != nil {
		return nil, err
	}

	entry.Description = req.Description
	entry.EnergyConsumption = *req.EnergyConsumption
	entry.ReferenceID = req.ReferenceID

	if err := s.repo.UpdateEnergy(ctx, entry); err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceOverrides(ctx, ParentProductionEnergy, entry.ID, overrides); err != nil {
		return nil, err
	}
	if err := s.saveLineItems(ctx, ParentProductionEnergy, entry.ID, productID, req.LineItemIDs); err != nil {
		return nil, err
	}
	if err := s.products.MarkStale(ctx, productID); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		CompanyID:  callerCompanyID,
		UserID:     callerUserID,
		Action:     "UPDATE",
		EntityType: "production_energy_emission",
		EntityID:   entry.ID,
		Detail: map[string]interface{}{
			"product_id":         productID.String(),
			"energy_consumption": entry.EnergyConsumption,
		},
	})

	return s.energyView(ctx, entry)
}

func (s *Service) DeleteEnergy(ctx context.Context, callerCompanyID, callerUserID, productID, entryID uuid.UUID) error {
	if err := s.checkOwnership(ctx, callerCompanyID, productID); err != nil {
		return err
	}

	entry, err := s.repo.GetEnergyByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry == nil || entry.ProductID != productID {
		return fmt.Errorf("production energy emission not found")
	}

	if err := s.repo.DeleteEnergy(ctx, entryID); err != nil {
		return err
	}
	if err := s.products.MarkStale(ctx, productID); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.Entry{
		CompanyID:  callerCompanyID,
		UserID:     callerUserID,
		Action:     "DELETE",
		EntityType: "production_energy_emission",
		EntityID:   entryID,
		Detail:     map[string]interface{}{"product_id": productID.String()},
	})
	return nil
}

// TransportTotal resolves one stored transport entry's total for the roll-up
// worker and the report builder.
func (s *Service) TransportTotal(ctx context.Context, entry *TransportEmission) (emission.Total, error) {
	overrides, reference, err := s.factorsFor(ctx, ParentTransport, entry.ID, entry.ReferenceID)
	if err != nil {
		return emission.Unavailable(), err
	}
	return emission.TransportTotal(entry.Distance, entry.Weight, overrides, reference), nil
}

// EnergyTotal resolves one stored production energy entry's total.
func (s *Service) EnergyTotal(ctx context.Context, entry *ProductionEnergyEmission) (emission.Total, error) {
	overrides, reference, err := s.factorsFor(ctx, ParentProductionEnergy, entry.ID, entry.ReferenceID)
	if err != nil {
		return emission.Unavailable(), err
	}
	return emission.EnergyTotal(entry.EnergyConsumption, overrides, reference), nil
}

func (s *Service) factorsFor(ctx context.Context, parentType ParentType, parentID uuid.UUID, referenceID *uuid.UUID) (overrides, reference []emission.Factor, err error) {
	stored, err := s.repo.ListOverrides(ctx, parentType, parentID)
	if err != nil {
		return nil, nil, err
	}
	for _, f := range stored {
		overrides = append(overrides, emission.Factor{
			LifecycleStage: f.LifecycleStage,
			Biogenic:       f.Biogenic,
			NonBiogenic:    f.NonBiogenic,
		})
	}
	if len(overrides) > 0 {
		// Overrides replace the reference outright, no need to load it.
		return overrides, nil, nil
	}

	reference, err = s.catalog.ResolverFactors(ctx, referenceID)
	if err != nil {
		return nil, nil, err
	}
	return overrides, reference, nil
}

// saveLineItems associates an entry with BOM lines of the same product.
// An empty list clears existing associations.
func (s *Service) saveLineItems(ctx context.Context, parentType ParentType, parentID, productID uuid.UUID, lineItemIDs []uuid.UUID) error {
	if len(lineItemIDs) > 0 {
		count, err := s.repo.CountProductLineItems(ctx, productID, lineItemIDs)
		if err != nil {
			return err
		}
		if count != len(lineItemIDs) {
			return fmt.Errorf("line items must belong to the same product")
		}
	}
	return s.repo.ReplaceLineItems(ctx, parentType, parentID, lineItemIDs)
}

func (s *Service) transportView(ctx context.Context, entry *TransportEmission) (*TransportView, error) {
	overrides, err := s.repo.ListOverrides(ctx, ParentTransport, entry.ID)
	if err != nil {
		return nil, err
	}
	entry.OverrideFactors = overrides

	lineItemIDs, err := s.repo.ListLineItemIDs(ctx, ParentTransport, entry.ID)
	if err != nil {
		return nil, err
	}
	entry.LineItemIDs = lineItemIDs

	total, err := s.TransportTotal(ctx, entry)
	if err != nil {
		return nil, err
	}

	view := &TransportView{TransportEmission: *entry, EmissionTotalDisplay: total.String()}
	if total.Available {
		view.EmissionTotal = &total.Kg
	}
	return view, nil
}

func (s *Service) energyView(ctx context.Context, entry *ProductionEnergyEmission) (*EnergyView, error) {
	overrides, err := s.repo.ListOverrides(ctx, ParentProductionEnergy, entry.ID)
	if err != nil {
		return nil, err
	}
	entry.OverrideFactors = overrides

	lineItemIDs, err := s.repo.ListLineItemIDs(ctx, ParentProductionEnergy, entry.ID)
	if err != nil {
		return nil, err
	}
	entry.LineItemIDs = lineItemIDs

	total, err := s.EnergyTotal(ctx, entry)
	if err != nil {
		return nil, err
	}

	view := &EnergyView{ProductionEnergyEmission: *entry, EmissionTotalDisplay: total.String()}
	if total.Available {
		view.EmissionTotal = &total.Kg
	}
	return view, nil
}

func (s *Service) checkOwnership(ctx context.Context, callerCompanyID, productID uuid.UUID) error {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil || product.CompanyID != callerCompanyID {
		return fmt.Errorf("product not found")
	}
	return nil
}
