package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/bom"
	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/companies"
	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/emissions"
	"carbon-ledger/supplier-portal/supplier-portal-backend/pkg/emission"
)

// BOMLister provides the resolved bill of materials view.
type BOMLister interface {
	List(ctx context.Context, viewerCompanyID, parentProductID uuid.UUID) ([]bom.LineItemView, error)
}

// EmissionSource provides a product's own emission entries with totals.
type EmissionSource interface {
	ListTransport(ctx context.Context, callerCompanyID, productID uuid.UUID) ([]emissions.TransportView, error)
	ListEnergy(ctx context.Context, callerCompanyID, productID uuid.UUID) ([]emissions.EnergyView, error)
}

// Directory resolves products and companies for report headers.
type Directory interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*companies.Product, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*companies.Company, error)
}

type Service struct {
	directory Directory
	bom       BOMLister
	emissions EmissionSource
}

func NewService(directory Directory, bomLister BOMLister, emissionSource EmissionSource) *Service {
	return &Service{
		directory: directory,
		bom:       bomLister,
		emissions: emissionSource,
	}
}

// Build assembles the footprint report for one of the caller's products.
func (s *Service) Build(ctx context.Context, callerCompanyID, productID uuid.UUID) (*ProductReport, error) {
	product, err := s.directory.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != callerCompanyID {
		return nil, fmt.Errorf("product not found")
	}

	company, err := s.directory.GetCompany(ctx, product.CompanyID)
	if err != nil {
		return nil, err
	}

	report := &ProductReport{
		ProductID:   product.ID,
		ProductName: product.Name,
		Unit:        product.ReferenceImpactUnit,
		GeneratedAt: time.Now(),
		TotalStale:  product.TotalStale,
	}
	if company != nil {
		report.CompanyName = company.Name
	}

	lines, err := s.bom.List(ctx, callerCompanyID, productID)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		report.Rows = append(report.Rows, Row{
			Section:    SectionMaterials,
			Name:       line.LineItemProduct.Name,
			Detail:     fmt.Sprintf("quantity %g", line.Quantity),
			EmissionKg: line.EmissionTotal,
			Display:    line.EmissionTotalDisplay,
		})
	}

	transport, err := s.emissions.ListTransport(ctx, callerCompanyID, productID)
	if err != nil {
		return nil, err
	}
	for _, entry := range transport {
		report.Rows = append(report.Rows, Row{
			Section:    SectionTransport,
			Name:       entry.Description,
			Detail:     fmt.Sprintf("%g km, %g t", entry.Distance, entry.Weight),
			EmissionKg: entry.EmissionTotal,
			Display:    entry.EmissionTotalDisplay,
		})
	}

	energy, err := s.emissions.ListEnergy(ctx, callerCompanyID, productID)
	if err != nil {
		return nil, err
	}
	for _, entry := range energy {
		report.Rows = append(report.Rows, Row{
			Section:    SectionProductionEnergy,
			Name:       entry.Description,
			Detail:     fmt.Sprintf("%g kWh", entry.EnergyConsumption),
			EmissionKg: entry.EmissionTotal,
			Display:    entry.EmissionTotalDisplay,
		})
	}

	total := emission.Of(product.EmissionTotal)
	report.TotalDisplay = total.String()
	if total.Available {
		report.TotalKg = &total.Kg
	}

	return report, nil
}
