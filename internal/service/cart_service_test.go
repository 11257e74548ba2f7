package service_test

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmakart/backend/internal/domain"
)

func TestAddItem(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	ownerID := gofakeit.UUID()

	product := e.addProduct(t, 10, "4.00", false)

	cart, err := e.cartSvc.AddItem(ctx, ownerID, product.ID, 2)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assertMoney(t, money("8.00"), cart.Items[0].Subtotal())

	// Adding the same product again accumulates into one line.
	cart, err = e.cartSvc.AddItem(ctx, ownerID, product.ID, 3)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	total, err := cart.Total()
	require.NoError(t, err)
	assertMoney(t, money("20.00"), total)

	// The cart never reserves, catalog stock is untouched.
	assert.Equal(t, 10, e.stock(t, product))
}

func TestAddItemErrors(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	ownerID := gofakeit.UUID()

	product := e.addProduct(t, 3, "4.00", false)
	gated := e.addProduct(t, 3, "4.00", true)

	tests := []struct {
		name      string
		productID uuid.UUID
		qty       int
		wantError error
	}{
		{
			name:      "unknown product",
			productID: uuid.New(),
			qty:       1,
			wantError: domain.ErrProductNotFound,
		},
		{
			name:      "gated product without prescription",
			productID: gated.ID,
			qty:       1,
			wantError: domain.ErrPrescriptionRequired,
		},
		{
			name:      "more than stock",
			productID: product.ID,
			qty:       4,
			wantError: domain.ErrInsufficientStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.cartSvc.AddItem(ctx, ownerID, tt.productID, tt.qty)
			require.ErrorIs(t, err, tt.wantError)
		})
	}

	_, err := e.cartSvc.AddItem(ctx, ownerID, product.ID, 0)
	require.EqualError(t, err, "quantity must be at least 1: 0")
}

// TestAddItemCumulativeStock checks the stock feedback against the line
// total, the existing quantity counts.
func TestAddItemCumulativeStock(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	ownerID := gofakeit.UUID()

	product := e.addProduct(t, 5, "4.00", false)

	_, err := e.cartSvc.AddItem(ctx, ownerID, product.ID, 3)
	require.NoError(t, err)

	_, err = e.cartSvc.AddItem(ctx, ownerID, product.ID, 3)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = e.cartSvc.AddItem(ctx, ownerID, product.ID, 2)
	require.NoError(t, err)
}

func TestAddItemGatedWithApproval(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	ownerID := gofakeit.UUID()

	gated := e.addProduct(t, 5, "4.00", true)
	e.approvePrescription(t, ownerID, gated)

	cart, err := e.cartSvc.AddItem(ctx, ownerID, gated.ID, 1)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

// TestAddItemLivePrice: cart prices follow the catalog until checkout.
func TestAddItemLivePrice(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	ownerID := gofakeit.UUID()

	product := e.addProduct(t, 10, "4.00", false)

	_, err := e.cartSvc.AddItem(ctx, ownerID, product.ID, 1)
	require.NoError(t, err)

	repriced := product
	repriced.Price = money("6.00")
	require.NoError(t, e.products.UpdateProduct(ctx, repriced))

	cart, err := e.cartSvc.AddItem(ctx, ownerID, product.ID, 1)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assertMoney(t, money("6.00"), cart.Items[0].Price)
	assertMoney(t, money("12.00"), cart.Items[0].Subtotal())
}

func TestUpdateItem(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	ownerID := gofakeit.UUID()

	product := e.addProduct(t, 10, "4.00", false)

	_, err := e.cartSvc.AddItem(ctx, ownerID, product.ID, 2)
	require.NoError(t, err)

	cart, err := e.cartSvc.UpdateItem(ctx, ownerID, product.ID, 7)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 7, cart.Items[0].Quantity)

	// Beyond stock fails, the line stays as it was.
	_, err = e.cartSvc.UpdateItem(ctx, ownerID, product.ID, 11)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Zero removes the line.
	cart, err = e.cartSvc.UpdateItem(ctx, ownerID, product.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	// Strict update, no upsert: updating a missing line fails.
	_, err = e.cartSvc.UpdateItem(ctx, ownerID, product.ID, 1)
	require.ErrorIs(t, err, domain.ErrCartItemNotFound)
}

func TestRemoveItem(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	ownerID := gofakeit.UUID()

	product := e.addProduct(t, 10, "4.00", false)

	_, err := e.cartSvc.AddItem(ctx, ownerID, product.ID, 2)
	require.NoError(t, err)

	cart, err := e.cartSvc.RemoveItem(ctx, ownerID, product.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	// Removing an absent line is a no-op.
	cart, err = e.cartSvc.RemoveItem(ctx, ownerID, product.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestClear(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	ownerID := gofakeit.UUID()

	product1 := e.addProduct(t, 10, "4.00", false)
	product2 := e.addProduct(t, 10, "1.50", false)

	_, err := e.cartSvc.AddItem(ctx, ownerID, product1.ID, 1)
	require.NoError(t, err)
	_, err = e.cartSvc.AddItem(ctx, ownerID, product2.ID, 2)
	require.NoError(t, err)

	require.NoError(t, e.cartSvc.Clear(ctx, ownerID))

	cart, err := e.cartSvc.GetCart(ctx, ownerID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	total, err := cart.Total()
	require.NoError(t, err)
	assert.True(t, total.Amount.IsZero())
}
