// Package inmem provides mutex-guarded in-memory implementations of the
// repository ports. They back service unit tests and small deployments where
// Postgres is not wired in.
package inmem

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pharmakart/backend/internal/domain"
)

type ProductStore struct {
	mu       sync.RWMutex
	products map[uuid.UUID]domain.Product
}

func NewProductStore() *ProductStore {
	return &ProductStore{
		products: make(map[uuid.UUID]domain.Product),
	}
}

func (s *ProductStore) GetProduct(_ context.Context, productID uuid.UUID) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[productID]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}

	return product, nil
}

func (s *ProductStore) ListProducts(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var products []domain.Product
	for _, product := range s.products {
		if filter.Category != "" && product.Category != filter.Category {
			continue
		}
		if filter.NamePattern != "" &&
			!strings.Contains(strings.ToLower(product.Name), strings.ToLower(filter.NamePattern)) {
			continue
		}
		if filter.RequiresPrescription != nil && product.RequiresPrescription != *filter.RequiresPrescription {
			continue
		}
		products = append(products, product)
	}

	return products, nil
}

func (s *ProductStore) InsertProduct(_ context.Context, product domain.Product) (uuid.UUID, error) {
	if err := product.Validate(); err != nil {
		return uuid.Nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product.ID = uuid.New()
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	s.products[product.ID] = product

	return product.ID, nil
}

func (s *ProductStore) UpdateProduct(_ context.Context, product domain.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[product.ID]
	if !ok {
		return domain.ErrProductNotFound
	}

	// Stock is owned by Reserve/Release, an update never touches it.
	product.Stock = existing.Stock
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now()

	s.products[product.ID] = product

	return nil
}

func (s *ProductStore) DeleteProduct(_ context.Context, productID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[productID]; !ok {
		return domain.ErrProductNotFound
	}

	delete(s.products, productID)

	return nil
}

// Reserve holds the store lock over the whole read-modify-write, the
// in-memory equivalent of the conditional UPDATE.
func (s *ProductStore) Reserve(_ context.Context, productID uuid.UUID, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[productID]
	if !ok {
		return domain.ErrProductNotFound
	}

	if product.Stock < qty {
		return domain.ErrInsufficientStock
	}

	product.Stock -= qty
	product.UpdatedAt = time.Now()
	s.products[productID] = product

	return nil
}

func (s *ProductStore) Release(_ context.Context, productID uuid.UUID, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[productID]
	if !ok {
		return domain.ErrProductNotFound
	}

	product.Stock += qty
	product.UpdatedAt = time.Now()
	s.products[productID] = product

	return nil
}
