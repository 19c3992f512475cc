package emissions

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/audit"
	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/companies"
	"carbon-ledger/supplier-portal/supplier-portal-backend/pkg/emission"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateTransport(ctx context.Context, entry *TransportEmission) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRepository) GetTransportByID(ctx context.Context, id uuid.UUID) (*TransportEmission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TransportEmission), args.Error(1)
}

func (m *MockRepository) ListTransport(ctx context.Context, productID uuid.UUID) ([]TransportEmission, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]TransportEmission), args.Error(1)
}

func (m *MockRepository) UpdateTransport(ctx context.Context, entry *TransportEmission) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRepository) DeleteTransport(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) CreateEnergy(ctx context.Context, entry *ProductionEnergyEmission) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRepository) GetEnergyByID(ctx context.Context, id uuid.UUID) (*ProductionEnergyEmission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ProductionEnergyEmission), args.Error(1)
}

func (m *MockRepository) ListEnergy(ctx context.Context, productID uuid.UUID) ([]ProductionEnergyEmission, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]ProductionEnergyEmission), args.Error(1)
}

func (m *MockRepository) UpdateEnergy(ctx context.Context, entry *ProductionEnergyEmission) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRepository) DeleteEnergy(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) ListOverrides(ctx context.Context, parentType ParentType, parentID uuid.UUID) ([]OverrideFactor, error) {
	args := m.Called(ctx, parentType, parentID)
	return args.Get(0).([]OverrideFactor), args.Error(1)
}

func (m *MockRepository) ReplaceOverrides(ctx context.Context, parentType ParentType, parentID uuid.UUID, factors []OverrideFactor) error {
	args := m.Called(ctx, parentType, parentID, factors)
	return args.Error(0)
}

func (m *MockRepository) ListLineItemIDs(ctx context.Context, parentType ParentType, parentID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, parentType, parentID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockRepository) ReplaceLineItems(ctx context.Context, parentType ParentType, parentID uuid.UUID, lineItemIDs []uuid.UUID) error {
	args := m.Called(ctx, parentType, parentID, lineItemIDs)
	return args.Error(0)
}

func (m *MockRepository) CountProductLineItems(ctx context.Context, productID uuid.UUID, lineItemIDs []uuid.UUID) (int, error) {
	args := m.Called(ctx, productID, lineItemIDs)
	return args.Int(0), args.Error(1)
}

type MockProductDirectory struct {
	mock.Mock
}

func (m *MockProductDirectory) GetProduct(ctx context.Context, id uuid.UUID) (*companies.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*companies.Product), args.Error(1)
}

func (m *MockProductDirectory) MarkStale(ctx context.Context, productID uuid.UUID) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

type MockFactorCatalog struct {
	mock.Mock
}

func (m *MockFactorCatalog) IsValidStage(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockFactorCatalog) ResolverFactors(ctx context.Context, referenceID *uuid.UUID) ([]emission.Factor, error) {
	args := m.Called(ctx, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]emission.Factor), args.Error(1)
}

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, entry audit.Entry) {
	m.Called(ctx, entry)
}

func newTestService() (*Service, *MockRepository, *MockProductDirectory, *MockFactorCatalog, *MockRecorder) {
	mockRepo := new(MockRepository)
	mockProducts := new(MockProductDirectory)
	mockCatalog := new(MockFactorCatalog)
	mockRecorder := new(MockRecorder)
	service := NewService(mockRepo, mockProducts, mockCatalog, mockRecorder)
	return service, mockRepo, mockProducts, mockCatalog, mockRecorder
}

func ownProduct(mockProducts *MockProductDirectory, ctx context.Context, companyID uuid.UUID) uuid.UUID {
	productID := uuid.New()
	mockProducts.On("GetProduct", ctx, productID).Return(&companies.Product{
		ID: productID, CompanyID: companyID,
	}, nil)
	return productID
}

func TestCreateTransportOverridesReplaceReference(t *testing.T) {
	service, mockRepo, mockProducts, mockCatalog, mockRecorder := newTestService()

	ctx := context.Background()
	company := uuid.New()
	userID := uuid.New()
	productID := ownProduct(mockProducts, ctx, company)
	referenceID := uuid.New()

	// The referenced factors would give a different figure; the override
	// list must win.
	mockCatalog.On("IsValidStage", ctx, "A1").Return(true, nil)
	mockCatalog.On("ResolverFactors", ctx, &referenceID).Return([]emission.Factor{
		{LifecycleStage: "A1", Biogenic: 9, NonBiogenic: 9},
	}, nil)
	mockRepo.On("CreateTransport", ctx, mock.AnythingOfType("*emissions.TransportEmission")).Return(nil)
	mockRepo.On("ReplaceOverrides", ctx, ParentTransport, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("[]emissions.OverrideFactor")).Return(nil)
	mockRepo.On("ListOverrides", ctx, ParentTransport, mock.AnythingOfType("uuid.UUID")).Return([]OverrideFactor{
		{LifecycleStage: "A1", Biogenic: 1.5, NonBiogenic: 0.5},
	}, nil)
	mockRepo.On("ReplaceLineItems", ctx, ParentTransport, mock.AnythingOfType("uuid.UUID"), []uuid.UUID(nil)).Return(nil)
	mockRepo.On("ListLineItemIDs", ctx, ParentTransport, mock.AnythingOfType("uuid.UUID")).Return([]uuid.UUID{}, nil)
	mockProducts.On("MarkStale", ctx, productID).Return(nil)
	mockRecorder.On("Record", ctx, mock.AnythingOfType("audit.Entry")).Return()

	distance, weight := 100.0, 2.0
	bio, nonBio := 1.5, 0.5
	view, err := service.CreateTransport(ctx, company, userID, productID, CreateTransportRequest{
		Distance:    &distance,
		Weight:      &weight,
		ReferenceID: &referenceID,
		OverrideFactors: []OverrideFactorInput{
			{LifecycleStage: "A1", Biogenic: &bio, NonBiogenic: &nonBio},
		},
	})

	assert.NoError(t, err)
	assert.NotNil(t, view)
	assert.NotNil(t, view.EmissionTotal)
	assert.Equal(t, 400.0, *view.EmissionTotal)
	mockRepo.AssertExpectations(t)
}

func TestTransportFallsBackToReferenceFactors(t *testing.T) {
	service, mockRepo, mockProducts, mockCatalog, _ := newTestService()

	ctx := context.Background()
	company := uuid.New()
	productID := ownProduct(mockProducts, ctx, company)
	referenceID := uuid.New()
	entryID := uuid.New()

	mockRepo.On("ListTransport", ctx, productID).Return([]TransportEmission{
		{ID: entryID, ProductID: productID, Distance: 10, Weight: 1, ReferenceID: &referenceID},
	}, nil)
	mockRepo.On("ListOverrides", ctx, ParentTransport, entryID).Return([]OverrideFactor{}, nil)
	mockRepo.On("ListLineItemIDs", ctx, ParentTransport, entryID).Return([]uuid.UUID{}, nil)
	mockCatalog.On("ResolverFactors", ctx, &referenceID).Return([]emission.Factor{
		{LifecycleStage: "A1", Biogenic: 0.2, NonBiogenic: 0.3},
	}, nil)

	views, err := service.ListTransport(ctx, company, productID)

	assert.NoError(t, err)
	assert.Len(t, views, 1)
	assert.NotNil(t, views[0].EmissionTotal)
	assert.Equal(t, 5.0, *views[0].EmissionTotal)
}

func TestTransportWithoutFactorsIsUnavailable(t *testing.T) {
	service, mockRepo, mockProducts, mockCatalog, _ := newTestService()

	ctx := context.Background()
	company := uuid.New()
	productID := ownProduct(mockProducts, ctx, company)
	entryID := uuid.New()

	mockRepo.On("ListTransport", ctx, productID).Return([]TransportEmission{
		{ID: entryID, ProductID: productID, Distance: 10, Weight: 1},
	}, nil)
	mockRepo.On("ListOverrides", ctx, ParentTransport, entryID).Return([]OverrideFactor{}, nil)
	mockRepo.On("ListLineItemIDs", ctx, ParentTransport, entryID).Return([]uuid.UUID{}, nil)
	mockCatalog.On("ResolverFactors", ctx, (*uuid.UUID)(nil)).Return(nil, nil)

	views, err := service.ListTransport(ctx, company, productID)

	assert.NoError(t, err)
	assert.Len(t, views, 1)
	assert.Nil(t, views[0].EmissionTotal)
	assert.Equal(t, emission.Placeholder, views[0].EmissionTotalDisplay)
}

func TestEnergyTotalSumsOverrideStages(t *testing.T) {
	service, mockRepo, mockProducts, mockCatalog, _ := newTestService()

	ctx := context.Background()
	company := uuid.New()
	productID := ownProduct(mockProducts, ctx, company)
	referenceID := uuid.New()
	entryID := uuid.New()

	// Two override rows: every stage's pair counts toward the sum.
	mockRepo.On("ListEnergy", ctx, productID).Return([]ProductionEnergyEmission{
		{ID: entryID, ProductID: productID, EnergyConsumption: 10, ReferenceID: &referenceID},
	}, nil)
	mockRepo.On("ListOverrides", ctx, ParentProductionEnergy, entryID).Return([]OverrideFactor{
		{LifecycleStage: "A1", Biogenic: 0.1, NonBiogenic: 0.2},
		{LifecycleStage: "A3", Biogenic: 0.05, NonBiogenic: 0.15},
	}, nil)
	mockRepo.On("ListLineItemIDs", ctx, ParentProductionEnergy, entryID).Return([]uuid.UUID{}, nil)

	views, err := service.ListEnergy(ctx, company, productID)

	assert.NoError(t, err)
	assert.Len(t, views, 1)
	assert.NotNil(t, views[0].EmissionTotal)
	assert.Equal(t, 5.0, *views[0].EmissionTotal)
	mockCatalog.AssertNotCalled(t, "ResolverFactors", ctx, &referenceID)
}

func TestCreateEnergyRejectsNonPositiveConsumption(t *testing.T) {
	service, _, mockProducts, _, _ := newTestService()

	ctx := context.Background()
	company := uuid.New()
	productID := ownProduct(mockProducts, ctx, company)

	zero := 0.0
	_, err := service.CreateEnergy(ctx, company, uuid.New(), productID, CreateEnergyRequest{
		EnergyConsumption: &zero,
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "energy_consumption")
}

func TestCreateTransportRejectsUnknownStage(t *testing.T) {
	service, _, mockProducts, mockCatalog, _ := newTestService()

	ctx := context.Background()
	company := uuid.New()
	productID := ownProduct(mockProducts, ctx, company)

	mockCatalog.On("IsValidStage", ctx, "Z9").Return(false, nil)

	distance, weight := 1.0, 1.0
	bio, nonBio := 0.1, 0.1
	_, err := service.CreateTransport(ctx, company, uuid.New(), productID, CreateTransportRequest{
		Distance: &distance,
		Weight:   &weight,
		OverrideFactors: []OverrideFactorInput{
			{LifecycleStage: "Z9", Biogenic: &bio, NonBiogenic: &nonBio},
		},
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown lifecycle stage")
}

func TestCreateTransportRejectsBlankStage(t *testing.T) {
	service, _, mockProducts, _, _ := newTestService()

	ctx := context.Background()
	company := uuid.New()
	productID := ownProduct(mockProducts, ctx, company)

	distance, weight := 1.0, 1.0
	bio, nonBio := 0.1, 0.1
	_, err := service.CreateTransport(ctx, company, uuid.New(), productID, CreateTransportRequest{
		Distance: &distance,
		Weight:   &weight,
		OverrideFactors: []OverrideFactorInput{
			{LifecycleStage: "   ", Biogenic: &bio, NonBiogenic: &nonBio},
		},
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "lifecycle stage is required")
}

func TestCreateTransportRejectsForeignLineItems(t *testing.T) {
	service, mockRepo, mockProducts, _, _ := newTestService()

	ctx := context.Background()
	company := uuid.New()
	productID := ownProduct(mockProducts, ctx, company)
	foreignLine := uuid.New()

	mockRepo.On("CreateTransport", ctx, mock.AnythingOfType("*emissions.TransportEmission")).Return(nil)
	mockRepo.On("ReplaceOverrides", ctx, ParentTransport, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("[]emissions.OverrideFactor")).Return(nil)
	mockRepo.On("CountProductLineItems", ctx, productID, []uuid.UUID{foreignLine}).Return(0, nil)

	distance, weight := 1.0, 1.0
	_, err := service.CreateTransport(ctx, company, uuid.New(), productID, CreateTransportRequest{
		Distance:    &distance,
		Weight:      &weight,
		LineItemIDs: []uuid.UUID{foreignLine},
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "same product")
	mockRepo.AssertNotCalled(t, "ReplaceLineItems", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEmissionsHiddenFromOtherCompanies(t *testing.T) {
	service, _, mockProducts, _, _ := newTestService()

	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()
	productID := ownProduct(mockProducts, ctx, owner)

	_, err := service.ListTransport(ctx, stranger, productID)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestTransportTotalRoundsToThreeDecimals(t *testing.T) {
	service, mockRepo, _, mockCatalog, _ := newTestService()

	ctx := context.Background()
	entry := &TransportEmission{ID: uuid.New(), Distance: 1, Weight: 1}

	mockRepo.On("ListOverrides", ctx, ParentTransport, entry.ID).Return([]OverrideFactor{
		{LifecycleStage: "A1", Biogenic: 0.0004, NonBiogenic: 0.001},
	}, nil)
	mockCatalog.On("ResolverFactors", ctx, (*uuid.UUID)(nil)).Return(nil, nil)

	total, err := service.TransportTotal(ctx, entry)

	assert.NoError(t, err)
	assert.True(t, total.Available)
	assert.Equal(t, 0.001, total.Kg)
}
