package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pharmakart/backend/internal/domain"
	"github.com/pharmakart/backend/internal/port"
)

// ProductService is catalog management. Stock is deliberately absent from
// UpdateProduct, it moves only through the stock ledger.
type ProductService struct {
	products port.ProductRepository
}

func NewProduct(products port.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

func (s *ProductService) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("products.GetProduct: %w", err)
	}

	return product, nil
}

func (s *ProductService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	products, err := s.products.ListProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("products.ListProducts: %w", err)
	}

	return products, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	productID, err := s.products.InsertProduct(ctx, product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("products.InsertProduct: %w", err)
	}

	return s.GetProduct(ctx, productID)
}

func (s *ProductService) UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if err := s.products.UpdateProduct(ctx, product); err != nil {
		return domain.Product{}, fmt.Errorf("products.UpdateProduct: %w", err)
	}

	return s.GetProduct(ctx, product.ID)
}

func (s *ProductService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if err := s.products.DeleteProduct(ctx, productID); err != nil {
		return fmt.Errorf("products.DeleteProduct: %w", err)
	}

	return nil
}
