package sharing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/companies"
	"carbon-ledger/supplier-portal/supplier-portal-backend/pkg/workflows"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateRequest(ctx context.Context, request *SharingRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockRepository) GetRequestByID(ctx context.Context, id uuid.UUID) (*SharingRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SharingRequest), args.Error(1)
}

func (m *MockRepository) GetRequestForProduct(ctx context.Context, productID, requesterCompanyID uuid.UUID) (*SharingRequest, error) {
	args := m.Called(ctx, productID, requesterCompanyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SharingRequest), args.Error(1)
}

func (m *MockRepository) ListOutgoing(ctx context.Context, requesterCompanyID uuid.UUID, status *workflows.SharingStatus) ([]SharingRequest, error) {
	args := m.Called(ctx, requesterCompanyID, status)
	return args.Get(0).([]SharingRequest), args.Error(1)
}

func (m *MockRepository) ListIncoming(ctx context.Context, supplierCompanyID uuid.UUID, status *workflows.SharingStatus) ([]SharingRequest, error) {
	args := m.Called(ctx, supplierCompanyID, status)
	return args.Get(0).([]SharingRequest), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status workflows.SharingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockCompaniesRepository backs a real companies.Service for product lookups.
type MockCompaniesRepository struct {
	mock.Mock
}

func (m *MockCompaniesRepository) ListCompanies(ctx context.Context) ([]companies.Company, error) {
	args := m.Called(ctx)
	return args.Get(0).([]companies.Company), args.Error(1)
}

func (m *MockCompaniesRepository) GetCompanyByID(ctx context.Context, id uuid.UUID) (*companies.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*companies.Company), args.Error(1)
}

func (m *MockCompaniesRepository) ListProducts(ctx context.Context, companyID uuid.UUID, search string) ([]companies.Product, error) {
	args := m.Called(ctx, companyID, search)
	return args.Get(0).([]companies.Product), args.Error(1)
}

func (m *MockCompaniesRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*companies.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*companies.Product), args.Error(1)
}

func (m *MockCompaniesRepository) CreateProduct(ctx context.Context, product *companies.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockCompaniesRepository) UpdateProduct(ctx context.Context, product *companies.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockCompaniesRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCompaniesRepository) MarkProductStale(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SharingRequestCreated(request *SharingRequest) {
	m.Called(request)
}

func (m *MockNotifier) SharingRequestDecided(request *SharingRequest) {
	m.Called(request)
}

func newTestService(repo Repository, products *MockCompaniesRepository, notifier Notifier) *Service {
	return NewService(repo, companies.NewService(products), notifier, zap.NewNop())
}

func TestRequestAccessCreatesPendingRequest(t *testing.T) {
	mockRepo := new(MockRepository)
	mockProducts := new(MockCompaniesRepository)
	mockNotifier := new(MockNotifier)
	service := newTestService(mockRepo, mockProducts, mockNotifier)

	ctx := context.Background()
	requesterID := uuid.New()
	supplierID := uuid.New()
	productID := uuid.New()

	mockProducts.On("GetProductByID", ctx, productID).Return(&companies.Product{
		ID:        productID,
		CompanyID: supplierID,
	}, nil)
	mockRepo.On("GetRequestForProduct", ctx, productID, requesterID).Return(nil, nil)
	mockRepo.On("CreateRequest", ctx, mock.AnythingOfType("*sharing.SharingRequest")).Return(nil)
	mockNotifier.On("SharingRequestCreated", mock.AnythingOfType("*sharing.SharingRequest")).Return()

	request, err := service.RequestAccess(ctx, requesterID, productID)

	assert.NoError(t, err)
	assert.Equal(t, workflows.StatusPending, request.Status)
	assert.Equal(t, supplierID, request.SupplierCompanyID)
	assert.Equal(t, requesterID, request.RequesterCompanyID)
	mockRepo.AssertExpectations(t)
	mockNotifier.AssertExpectations(t)
}

func TestRequestAccessReturnsExistingRequest(t *testing.T) {
	mockRepo := new(MockRepository)
	mockProducts := new(MockCompaniesRepository)
	mockNotifier := new(MockNotifier)
	service := newTestService(mockRepo, mockProducts, mockNotifier)

	ctx := context.Background()
	requesterID := uuid.New()
	productID := uuid.New()
	existing := &SharingRequest{
		ID:                 uuid.New(),
		ProductID:          productID,
		RequesterCompanyID: requesterID,
		Status:             workflows.StatusPending,
	}

	mockProducts.On("GetProductByID", ctx, productID).Return(&companies.Product{
		ID:        productID,
		CompanyID: uuid.New(),
	}, nil)
	mockRepo.On("GetRequestForProduct", ctx, productID, requesterID).Return(existing, nil)

	request, err := service.RequestAccess(ctx, requesterID, productID)

	assert.NoError(t, err)
	assert.Equal(t, existing.ID, request.ID)
	mockRepo.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything)
	mockNotifier.AssertNotCalled(t, "SharingRequestCreated", mock.Anything)
}

func TestRequestAccessRejectsOwnProduct(t *testing.T) {
	mockRepo := new(MockRepository)
	mockProducts := new(MockCompaniesRepository)
	service := newTestService(mockRepo, mockProducts, new(MockNotifier))

	ctx := context.Background()
	companyID := uuid.New()
	productID := uuid.New()

	mockProducts.On("GetProductByID", ctx, productID).Return(&companies.Product{
		ID:        productID,
		CompanyID: companyID,
	}, nil)

	_, err := service.RequestAccess(ctx, companyID, productID)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "own product")
	mockRepo.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything)
}

func TestDecideAcceptNotifiesRequester(t *testing.T) {
	mockRepo := new(MockRepository)
	mockNotifier := new(MockNotifier)
	service := newTestService(mockRepo, new(MockCompaniesRepository), mockNotifier)

	ctx := context.Background()
	supplierID := uuid.New()
	requestID := uuid.New()

	mockRepo.On("GetRequestByID", ctx, requestID).Return(&SharingRequest{
		ID:                requestID,
		SupplierCompanyID: supplierID,
		Status:            workflows.StatusPending,
	}, nil)
	mockRepo.On("UpdateStatus", ctx, requestID, workflows.StatusAccepted).Return(nil)
	mockNotifier.On("SharingRequestDecided", mock.AnythingOfType("*sharing.SharingRequest")).Return()

	request, err := service.Decide(ctx, supplierID, requestID, true)

	assert.NoError(t, err)
	assert.Equal(t, workflows.StatusAccepted, request.Status)
	assert.NotNil(t, request.DecidedAt)
	mockRepo.AssertExpectations(t)
	mockNotifier.AssertExpectations(t)
}

func TestDecideRejectsForeignSupplier(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo, new(MockCompaniesRepository), new(MockNotifier))

	ctx := context.Background()
	requestID := uuid.New()

	mockRepo.On("GetRequestByID", ctx, requestID).Return(&SharingRequest{
		ID:                requestID,
		SupplierCompanyID: uuid.New(),
		Status:            workflows.StatusPending,
	}, nil)

	_, err := service.Decide(ctx, uuid.New(), requestID, true)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "supplier company")
	mockRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestDecideTerminalStatusIsImmutable(t *testing.T) {
	mockRepo := new(MockRepository)
	mockNotifier := new(MockNotifier)
	service := newTestService(mockRepo, new(MockCompaniesRepository), mockNotifier)

	ctx := context.Background()
	supplierID := uuid.New()
	requestID := uuid.New()

	mockRepo.On("GetRequestByID", ctx, requestID).Return(&SharingRequest{
		ID:                requestID,
		SupplierCompanyID: supplierID,
		Status:            workflows.StatusAccepted,
	}, nil)

	_, err := service.Decide(ctx, supplierID, requestID, false)

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	mockNotifier.AssertNotCalled(t, "SharingRequestDecided", mock.Anything)
}

func TestStatusForOwnProductSkipsGate(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo, new(MockCompaniesRepository), new(MockNotifier))

	companyID := uuid.New()

	status, err := service.StatusFor(context.Background(), companyID, companyID, uuid.New())

	assert.NoError(t, err)
	assert.Equal(t, workflows.SharingStatus(""), status)
	mockRepo.AssertNotCalled(t, "GetRequestForProduct", mock.Anything, mock.Anything, mock.Anything)
}

func TestStatusForUnrequestedProduct(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo, new(MockCompaniesRepository), new(MockNotifier))

	ctx := context.Background()
	viewerID := uuid.New()
	productID := uuid.New()

	mockRepo.On("GetRequestForProduct", ctx, productID, viewerID).Return(nil, nil)

	status, err := service.StatusFor(ctx, viewerID, uuid.New(), productID)

	assert.NoError(t, err)
	assert.Equal(t, workflows.StatusNotRequested, status)
}
