package bom

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/audit"
	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/companies"
	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/sharing"
	"carbon-ledger/supplier-portal/supplier-portal-backend/pkg/emission"
	"carbon-ledger/supplier-portal/supplier-portal-backend/pkg/workflows"
)

// ProductDirectory is the slice of the companies service the BOM needs.
type ProductDirectory interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*companies.Product, error)
	MarkStale(ctx context.Context, productID uuid.UUID) error
}

// SharingResolver answers gate questions and files access requests.
type SharingResolver interface {
	StatusFor(ctx context.Context, viewerCompanyID, productOwnerCompanyID, productID uuid.UUID) (workflows.SharingStatus, error)
	RequestAccess(ctx context.Context, requesterCompanyID, productID uuid.UUID) (*sharing.SharingRequest, error)
}

type Service struct {
	repo     Repository
	products ProductDirectory
	sharing  SharingResolver
	audit    audit.Recorder
}

func NewService(repo Repository, products ProductDirectory, sharingResolver SharingResolver, recorder audit.Recorder) *Service {
	return &Service{
		repo:     repo,
		products: products,
		sharing:  sharingResolver,
		audit:    recorder,
	}
}

// List returns a product's BOM with resolved line emissions. Supplier figures
// come back gated when the viewer holds no accepted sharing request.
func (s *Service) List(ctx context.Context, viewerCompanyID, parentProductID uuid.UUID) ([]LineItemView, error) {
	items, err := s.repo.ListLineItems(ctx, parentProductID)
	if err != nil {
		return nil, err
	}

	views := make([]LineItemView, 0, len(items))
	for _, item := range items {
		view, err := s.buildView(ctx, viewerCompanyID, item)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}

	return views, nil
}

func (s *Service) buildView(ctx context.Context, viewerCompanyID uuid.UUID, item LineItem) (*LineItemView, error) {
	product, err := s.products.GetProduct(ctx, item.LineItemProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("line item product %s no longer exists", item.LineItemProductID)
	}

	status, err := s.sharing.StatusFor(ctx, viewerCompanyID, product.CompanyID, product.ID)
	if err != nil {
		return nil, err
	}

	view := &LineItemView{
		ID:       item.ID,
		Quantity: item.Quantity,
		LineItemProduct: ProductSummary{
			ID:                 product.ID,
			CompanyID:          product.CompanyID,
			Name:               product.Name,
			ReferenceImpactUnit: product.ReferenceImpactUnit,
		},
		ProductSharingRequestStatus: status,
	}

	total := emission.LineItemTotal(item.Quantity, product.EmissionTotal, status)
	view.EmissionTotalDisplay = total.String()
	if total.Available {
		view.EmissionTotal = &total.Kg
		perUnit := product.EmissionTotal
		view.LineItemProduct.EmissionTotal = &perUnit
	}

	return view, nil
}

// Create adds a material to a product's BOM and flags the parent for a
// roll-up recompute.
func (s *Service) Create(ctx context.Context, callerCompanyID, callerUserID, parentProductID uuid.UUID, req CreateLineItemRequest) (*LineItemView, error) {
	if err := validateQuantity(req.Quantity); err != nil {
		return nil, err
	}

	parent, err := s.products.GetProduct(ctx, parentProductID)
	if err != nil {
		return nil, err
	}
	if parent == nil || parent.CompanyID != callerCompanyID {
		return nil, fmt.Errorf("parent product not found")
	}
	if req.LineItemProductID == parentProductID {
		return nil, fmt.Errorf("a product cannot be its own material")
	}

	material, err := s.products.GetProduct(ctx, req.LineItemProductID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, fmt.Errorf("material product not found")
	}

	item := &LineItem{
		ID:                uuid.New(),
		ParentProductID:   parentProductID,
		LineItemProductID: req.LineItemProductID,
		Quantity:          *req.Quantity,
		CreatedAt:         time.Now(),
	}

	if err := s.repo.CreateLineItem(ctx, item); err != nil {
		return nil, err
	}

	if err := s.products.MarkStale(ctx, parentProductID); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		CompanyID:  callerCompanyID,
		UserID:     callerUserID,
		Action:     "CREATE",
		EntityType: "line_item",
		EntityID:   item.ID,
		Detail: map[string]interface{}{
			"parent_product_id":    parentProductID.String(),
			"line_item_product_id": req.LineItemProductID.String(),
			"quantity":             item.Quantity,
		},
	})

	return s.buildView(ctx, callerCompanyID, *item)
}

// UpdateQuantity changes a line's quantity via the edit modal flow.
func (s *Service) UpdateQuantity(ctx context.Context, callerCompanyID, callerUserID, parentProductID, lineItemID uuid.UUID, req UpdateLineItemRequest) (*LineItemView, error) {
	if err := validateQuantity(req.Quantity); err != nil {
		return nil, err
	}

	item, err := s.getOwnedLineItem(ctx, callerCompanyID, parentProductID, lineItemID)
	if err != nil {
		return nil, err
	}

	item.Quantity = *req.Quantity
	if err := s.repo.UpdateLineItem(ctx, item); err != nil {
		return nil, err
	}

	if err := s.products.MarkStale(ctx, parentProductID); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		CompanyID:  callerCompanyID,
		UserID:     callerUserID,
		Action:     "UPDATE",
		EntityType: "line_item",
		EntityID:   item.ID,
		Detail:     map[string]interface{}{"quantity": item.Quantity},
	})

	return s.buildView(ctx, callerCompanyID, *item)
}

func (s *Service) Delete(ctx context.Context, callerCompanyID, callerUserID, parentProductID, lineItemID uuid.UUID) error {
	item, err := s.getOwnedLineItem(ctx, callerCompanyID, parentProductID, lineItemID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteLineItem(ctx, item.ID); err != nil {
		return err
	}

	if err := s.products.MarkStale(ctx, parentProductID); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.Entry{
		CompanyID:  callerCompanyID,
		UserID:     callerUserID,
		Action:     "DELETE",
		EntityType: "line_item",
		EntityID:   item.ID,
		Detail:     map[string]interface{}{"parent_product_id": parentProductID.String()},
	})

	return nil
}

func (s *Service) getOwnedLineItem(ctx context.Context, callerCompanyID, parentProductID, lineItemID uuid.UUID) (*LineItem, error) {
	parent, err := s.products.GetProduct(ctx, parentProductID)
	if err != nil {
		return nil, err
	}
	if parent == nil || parent.CompanyID != callerCompanyID {
		return nil, fmt.Errorf("parent product not found")
	}

	item, err := s.repo.GetLineItemByID(ctx, lineItemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.ParentProductID != parentProductID {
		return nil, fmt.Errorf("line item not found")
	}

	return item, nil
}

// RequestAccess flips the sharing status of a single line item's product to
// Pending; other lines referencing different products stay untouched.
func (s *Service) RequestAccess(ctx context.Context, callerCompanyID, callerUserID, parentProductID, lineItemID uuid.UUID) (*LineItemView, error) {
	item, err := s.getOwnedLineItem(ctx, callerCompanyID, parentProductID, lineItemID)
	if err != nil {
		return nil, err
	}

	request, err := s.sharing.RequestAccess(ctx, callerCompanyID, item.LineItemProductID)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		CompanyID:  callerCompanyID,
		UserID:     callerUserID,
		Action:     "REQUEST",
		EntityType: "sharing_request",
		EntityID:   request.ID,
		Detail:     map[string]interface{}{"product_id": item.LineItemProductID.String()},
	})

	return s.buildView(ctx, callerCompanyID, *item)
}

func validateQuantity(quantity *float64) error {
	if quantity == nil {
		return fmt.Errorf("quantity is required")
	}
	if math.IsNaN(*quantity) || math.IsInf(*quantity, 0) {
		return fmt.Errorf("quantity must be a finite number")
	}
	if *quantity <= 0 {
		return fmt.Errorf("quantity must be greater than zero")
	}
	return nil
}
