package sharing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/companies"
	"carbon-ledger/supplier-portal/supplier-portal-backend/pkg/workflows"
)

// Notifier receives sharing events for fan-out to connected users. A nil
// notifier disables delivery without touching request handling.
type Notifier interface {
	SharingRequestCreated(request *SharingRequest)
	SharingRequestDecided(request *SharingRequest)
}

type Service struct {
	repo     Repository
	products *companies.Service
	gate     *workflows.SharingGate
	notifier Notifier
	logger   *zap.Logger
}

func NewService(repo Repository, products *companies.Service, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		products: products,
		gate:     workflows.NewSharingGate(),
		notifier: notifier,
		logger:   logger,
	}
}

// RequestAccess moves a product from Not requested to Pending for the caller.
// Repeated requests return the existing record unchanged; failures leave no
// state behind and are reported to the caller instead of being swallowed.
func (s *Service) RequestAccess(ctx context.Context, requesterCompanyID, productID uuid.UUID) (*SharingRequest, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("product not found")
	}
	if product.CompanyID == requesterCompanyID {
		return nil, fmt.Errorf("cannot request access to your own product")
	}

	existing, err := s.repo.GetRequestForProduct(ctx, productID, requesterCompanyID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if !s.gate.CanTransition(workflows.StatusNotRequested, workflows.StatusPending) {
		return nil, fmt.Errorf("sharing request not allowed")
	}

	request := &SharingRequest{
		ID:                 uuid.New(),
		ProductID:          productID,
		SupplierCompanyID:  product.CompanyID,
		RequesterCompanyID: requesterCompanyID,
		Status:             workflows.StatusPending,
		CreatedAt:          time.Now(),
	}

	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.SharingRequestCreated(request)
	}

	return request, nil
}

// Decide accepts or rejects a pending request. Only the supplier company may
// decide, and terminal states cannot be revisited.
func (s *Service) Decide(ctx context.Context, deciderCompanyID, requestID uuid.UUID, accept bool) (*SharingRequest, error) {
	request, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, fmt.Errorf("sharing request not found")
	}
	if request.SupplierCompanyID != deciderCompanyID {
		return nil, fmt.Errorf("only the supplier company can decide this request")
	}

	target := workflows.StatusRejected
	if accept {
		target = workflows.StatusAccepted
	}

	if !s.gate.CanTransition(request.Status, target) {
		return nil, fmt.Errorf("cannot transition from %q to %q", request.Status, target)
	}

	if err := s.repo.UpdateStatus(ctx, requestID, target); err != nil {
		return nil, err
	}

	now := time.Now()
	request.Status = target
	request.DecidedAt = &now

	s.logger.Info("sharing request decided",
		zap.String("request_id", request.ID.String()),
		zap.String("status", string(target)))

	if s.notifier != nil {
		s.notifier.SharingRequestDecided(request)
	}

	return request, nil
}

func (s *Service) ListOutgoing(ctx context.Context, companyID uuid.UUID, status *workflows.SharingStatus) ([]SharingRequest, error) {
	return s.repo.ListOutgoing(ctx, companyID, status)
}

func (s *Service) ListIncoming(ctx context.Context, companyID uuid.UUID, status *workflows.SharingStatus) ([]SharingRequest, error) {
	return s.repo.ListIncoming(ctx, companyID, status)
}

// StatusFor resolves the gate status a viewer company has on a product. An
// empty status means the gate does not apply (the viewer owns the product).
func (s *Service) StatusFor(ctx context.Context, viewerCompanyID, productOwnerCompanyID, productID uuid.UUID) (workflows.SharingStatus, error) {
	if viewerCompanyID == productOwnerCompanyID {
		return "", nil
	}

	request, err := s.repo.GetRequestForProduct(ctx, productID, viewerCompanyID)
	if err != nil {
		return "", err
	}
	if request == nil {
		return workflows.StatusNotRequested, nil
	}
	return request.Status, nil
}
