package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pharmakart/backend/internal/domain"
	"github.com/pharmakart/backend/internal/port"
)

// CartService validates every mutation against the current catalog but never
// reserves stock. Reservation happens at order creation, an abandoned cart
// holds nothing hostage.
type CartService struct {
	carts         port.CartRepository
	products      port.ProductRepository
	prescriptions port.PrescriptionRepository
}

func NewCart(carts port.CartRepository, products port.ProductRepository, prescriptions port.PrescriptionRepository) *CartService {
	return &CartService{
		carts:         carts,
		products:      products,
		prescriptions: prescriptions,
	}
}

func (s *CartService) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	cart, err := s.carts.GetCart(ctx, ownerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.GetCart: %w", err)
	}

	return cart, nil
}

// AddItem merges into an existing line, quantities accumulate. The cached
// price is refreshed to the current catalog price on every call.
func (s *CartService) AddItem(ctx context.Context, ownerID string, productID uuid.UUID, qty int) (domain.Cart, error) {
	var c domain.Cart

	if qty < 1 {
		return c, fmt.Errorf("quantity must be at least 1: %d", qty)
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return c, fmt.Errorf("products.GetProduct: %w", err)
	}

	if err := s.checkPrescriptionGate(ctx, ownerID, product); err != nil {
		return c, err
	}

	cart, err := s.carts.GetCart(ctx, ownerID)
	if err != nil {
		return c, fmt.Errorf("carts.GetCart: %w", err)
	}

	newQty := qty
	if existing, ok := cart.Item(productID); ok {
		newQty += existing.Quantity
	}

	if product.Stock < newQty {
		return c, fmt.Errorf("product %q: available %d, requested %d: %w",
			product.Name, product.Stock, newQty, domain.ErrInsufficientStock)
	}

	item := domain.CartItem{
		ProductID: productID,
		Name:      product.Name,
		Quantity:  newQty,
		Price:     product.Price,
	}

	if err := s.carts.UpsertItem(ctx, ownerID, item); err != nil {
		return c, fmt.Errorf("carts.UpsertItem: %w", err)
	}

	return s.GetCart(ctx, ownerID)
}

// UpdateItem has strict-update semantics: qty <= 0 removes the line, a
// positive qty on a missing line fails with domain.ErrCartItemNotFound.
func (s *CartService) UpdateItem(ctx context.Context, ownerID string, productID uuid.UUID, qty int) (domain.Cart, error) {
	var c domain.Cart

	if qty <= 0 {
		if _, err := s.carts.DeleteItem(ctx, ownerID, productID); err != nil {
			return c, fmt.Errorf("carts.DeleteItem: %w", err)
		}
		return s.GetCart(ctx, ownerID)
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return c, fmt.Errorf("products.GetProduct: %w", err)
	}

	cart, err := s.carts.GetCart(ctx, ownerID)
	if err != nil {
		return c, fmt.Errorf("carts.GetCart: %w", err)
	}

	if _, ok := cart.Item(productID); !ok {
		return c, domain.ErrCartItemNotFound
	}

	if product.Stock < qty {
		return c, fmt.Errorf("product %q: available %d, requested %d: %w",
			product.Name, product.Stock, qty, domain.ErrInsufficientStock)
	}

	item := domain.CartItem{
		ProductID: productID,
		Name:      product.Name,
		Quantity:  qty,
		Price:     product.Price,
	}

	if err := s.carts.UpsertItem(ctx, ownerID, item); err != nil {
		return c, fmt.Errorf("carts.UpsertItem: %w", err)
	}

	return s.GetCart(ctx, ownerID)
}

// RemoveItem is a no-op when the line is absent.
func (s *CartService) RemoveItem(ctx context.Context, ownerID string, productID uuid.UUID) (domain.Cart, error) {
	if _, err := s.carts.DeleteItem(ctx, ownerID, productID); err != nil {
		return domain.Cart{}, fmt.Errorf("carts.DeleteItem: %w", err)
	}

	return s.GetCart(ctx, ownerID)
}

func (s *CartService) Clear(ctx context.Context, ownerID string) error {
	if err := s.carts.ClearCart(ctx, ownerID); err != nil {
		return fmt.Errorf("carts.ClearCart: %w", err)
	}

	return nil
}

// checkPrescriptionGate passes for over-the-counter products and for gated
// products covered by an approved prescription of the same owner.
func (s *CartService) checkPrescriptionGate(ctx context.Context, ownerID string, product domain.Product) error {
	if !product.RequiresPrescription {
		return nil
	}

	approved, err := s.prescriptions.HasApproved(ctx, ownerID, product.ID)
	if err != nil {
		return fmt.Errorf("prescriptions.HasApproved: %w", err)
	}

	if !approved {
		return fmt.Errorf("product %q: %w", product.Name, domain.ErrPrescriptionRequired)
	}

	return nil
}
