package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/pharmakart/backend/internal/domain"
)

type ProductRepository interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error)

	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)

	InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error)
	UpdateProduct(ctx context.Context, product domain.Product) error
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
}

// StockLedger is the single choke point for stock mutation. No caller reads
// then writes stock outside these two operations.
type StockLedger interface {
	// Reserve atomically decrements stock by qty, failing with
	// domain.ErrInsufficientStock when current stock < qty.
	Reserve(ctx context.Context, productID uuid.UUID, qty int) error

	// Release atomically increments stock by qty. Used for cancellation and
	// for rolling back partially reserved order item sets.
	Release(ctx context.Context, productID uuid.UUID, qty int) error
}
