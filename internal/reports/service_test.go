package reports

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/bom"
	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/companies"
	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/emissions"
	"carbon-ledger/supplier-portal/supplier-portal-backend/pkg/emission"
)

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) GetProduct(ctx context.Context, id uuid.UUID) (*companies.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*companies.Product), args.Error(1)
}

func (m *MockDirectory) GetCompany(ctx context.Context, id uuid.UUID) (*companies.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*companies.Company), args.Error(1)
}

type MockBOMLister struct {
	mock.Mock
}

func (m *MockBOMLister) List(ctx context.Context, viewerCompanyID, parentProductID uuid.UUID) ([]bom.LineItemView, error) {
	args := m.Called(ctx, viewerCompanyID, parentProductID)
	return args.Get(0).([]bom.LineItemView), args.Error(1)
}

type MockEmissionSource struct {
	mock.Mock
}

func (m *MockEmissionSource) ListTransport(ctx context.Context, callerCompanyID, productID uuid.UUID) ([]emissions.TransportView, error) {
	args := m.Called(ctx, callerCompanyID, productID)
	return args.Get(0).([]emissions.TransportView), args.Error(1)
}

func (m *MockEmissionSource) ListEnergy(ctx context.Context, callerCompanyID, productID uuid.UUID) ([]emissions.EnergyView, error) {
	args := m.Called(ctx, callerCompanyID, productID)
	return args.Get(0).([]emissions.EnergyView), args.Error(1)
}

func TestBuildAssemblesSections(t *testing.T) {
	mockDir := new(MockDirectory)
	mockBOM := new(MockBOMLister)
	mockEmissions := new(MockEmissionSource)
	service := NewService(mockDir, mockBOM, mockEmissions)

	ctx := context.Background()
	company := uuid.New()
	productID := uuid.New()

	mockDir.On("GetProduct", ctx, productID).Return(&companies.Product{
		ID:                  productID,
		CompanyID:           company,
		Name:                "E-bike frame",
		ReferenceImpactUnit: "piece",
		EmissionTotal:       55.5,
	}, nil)
	mockDir.On("GetCompany", ctx, company).Return(&companies.Company{
		ID: company, Name: "Frameworks GmbH",
	}, nil)

	lineTotal := 12.5
	mockBOM.On("List", ctx, company, productID).Return([]bom.LineItemView{
		{
			Quantity:             5,
			LineItemProduct:      bom.ProductSummary{Name: "Aluminium tube"},
			EmissionTotal:        &lineTotal,
			EmissionTotalDisplay: "12.5",
		},
	}, nil)

	transportTotal := 40.0
	mockEmissions.On("ListTransport", ctx, company, productID).Return([]emissions.TransportView{
		{
			TransportEmission:    emissions.TransportEmission{Description: "Plant to port", Distance: 100, Weight: 2},
			EmissionTotal:        &transportTotal,
			EmissionTotalDisplay: "40",
		},
	}, nil)
	mockEmissions.On("ListEnergy", ctx, company, productID).Return([]emissions.EnergyView{
		{
			ProductionEnergyEmission: emissions.ProductionEnergyEmission{Description: "Welding line", EnergyConsumption: 10},
			EmissionTotalDisplay:     emission.Placeholder,
		},
	}, nil)

	report, err := service.Build(ctx, company, productID)

	assert.NoError(t, err)
	assert.Equal(t, "E-bike frame", report.ProductName)
	assert.Equal(t, "Frameworks GmbH", report.CompanyName)
	assert.Len(t, report.Rows, 3)
	assert.Equal(t, SectionMaterials, report.Rows[0].Section)
	assert.Equal(t, SectionTransport, report.Rows[1].Section)
	assert.Equal(t, SectionProductionEnergy, report.Rows[2].Section)
	assert.Equal(t, emission.Placeholder, report.Rows[2].Display)
	assert.NotNil(t, report.TotalKg)
	assert.Equal(t, 55.5, *report.TotalKg)
	mockDir.AssertExpectations(t)
}

func TestBuildRejectsForeignProduct(t *testing.T) {
	mockDir := new(MockDirectory)
	service := NewService(mockDir, new(MockBOMLister), new(MockEmissionSource))

	ctx := context.Background()
	productID := uuid.New()

	mockDir.On("GetProduct", ctx, productID).Return(&companies.Product{
		ID: productID, CompanyID: uuid.New(),
	}, nil)

	_, err := service.Build(ctx, uuid.New(), productID)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
