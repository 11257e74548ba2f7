package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/pharmakart/backend/internal/domain"
)

// CartRepository is the pluggable cart storage: Postgres in production,
// in-memory in tests. "One cart per owner" holds in both.
type CartRepository interface {
	GetCart(ctx context.Context, ownerID string) (domain.Cart, error)

	// UpsertItem inserts the line or overwrites quantity and cached price of
	// an existing line for the same product.
	UpsertItem(ctx context.Context, ownerID string, item domain.CartItem) error

	DeleteItem(ctx context.Context, ownerID string, productID uuid.UUID) (bool, error)

	ClearCart(ctx context.Context, ownerID string) error
}
