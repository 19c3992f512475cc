package companies

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// MinSearchLength mirrors the search box gate: shorter queries are treated as
// no filter at all rather than hitting the database with one-letter patterns.
const MinSearchLength = 2

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListCompanies(ctx context.Context) ([]Company, error) {
	return s.repo.ListCompanies(ctx)
}

func (s *Service) GetCompany(ctx context.Context, id uuid.UUID) (*Company, error) {
	return s.repo.GetCompanyByID(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, companyID uuid.UUID, search string) ([]Product, error) {
	search = strings.TrimSpace(search)
	if len(search) < MinSearchLength {
		search = ""
	}
	return s.repo.ListProducts(ctx, companyID, search)
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.GetProductByID(ctx, id)
}

func (s *Service) CreateProduct(ctx context.Context, companyID uuid.UUID, req CreateProductRequest) (*Product, error) {
	product := &Product{
		ID:                  uuid.New(),
		CompanyID:           companyID,
		Name:                req.Name,
		Description:         req.Description,
		ReferenceImpactUnit: req.ReferenceImpactUnit,
		TotalStale:          true,
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *Service) UpdateProduct(ctx context.Context, companyID, productID uuid.UUID, req UpdateProductRequest) (*Product, error) {
	product, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, nil
	}

	product.Name = req.Name
	product.Description = req.Description
	product.ReferenceImpactUnit = req.ReferenceImpactUnit

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *Service) DeleteProduct(ctx context.Context, companyID, productID uuid.UUID) error {
	product, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil || product.CompanyID != companyID {
		return fmt.Errorf("product not found")
	}
	return s.repo.DeleteProduct(ctx, productID)
}

// MarkStale flags a product for recomputation by the roll-up worker.
func (s *Service) MarkStale(ctx context.Context, productID uuid.UUID) error {
	return s.repo.MarkProductStale(ctx, productID)
}
