package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/penzolll/umi-shop-digital/internal/domain"
	"github.com/penzolll/umi-shop-digital/internal/repository"
)

var oneHundredPct = decimal.NewFromInt(100)

// CatalogService fronts product and category persistence. It exists so the
// HTTP layer never talks SQL-shaped interfaces directly.
type CatalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
}

func NewCatalogService(products repository.ProductRepository, categories repository.CategoryRepository) *CatalogService {
	return &CatalogService{products: products, categories: categories}
}

func (s *CatalogService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	return s.products.ListProducts(ctx, filter)
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.GetProduct(ctx, id)
}

func (s *CatalogService) CreateProduct(ctx context.Context, p *domain.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	return s.products.CreateProduct(ctx, p)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, p *domain.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	return s.products.UpdateProduct(ctx, p)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	return s.products.DeleteProduct(ctx, id)
}

func validateProduct(p *domain.Product) error {
	if p.Name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if p.Price.IsNegative() {
		return &ValidationError{Field: "price", Message: "must not be negative"}
	}
	if p.Stock < 0 {
		return &ValidationError{Field: "stock", Message: "must not be negative"}
	}
	if p.DiscountPercentage != nil &&
		(p.DiscountPercentage.IsNegative() || p.DiscountPercentage.GreaterThan(oneHundredPct)) {
		return &ValidationError{Field: "discount_percentage", Message: "must be between 0 and 100"}
	}
	return nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.ListCategories(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categories.GetCategory(ctx, id)
}

func (s *CatalogService) CreateCategory(ctx context.Context, c *domain.Category) error {
	if c.Name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	return s.categories.CreateCategory(ctx, c)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, c *domain.Category) error {
	if c.Name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	return s.categories.UpdateCategory(ctx, c)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	return s.categories.DeleteCategory(ctx, id)
}
