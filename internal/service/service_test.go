package service_test

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"

	"github.com/pharmakart/backend/internal/domain"
	"github.com/pharmakart/backend/internal/repository/inmem"
	"github.com/pharmakart/backend/internal/service"
)

var eur = currency.MustParseISO("EUR")

// env wires the services onto in-memory stores, the same code paths as
// production minus Postgres.
type env struct {
	products      *inmem.ProductStore
	carts         *inmem.CartStore
	orders        *inmem.OrderStore
	payments      *inmem.PaymentStore
	prescriptions *inmem.PrescriptionStore

	cartSvc    *service.CartService
	orderSvc   *service.OrderService
	paymentSvc *service.PaymentService
}

func newEnv() *env {
	e := &env{
		products:      inmem.NewProductStore(),
		carts:         inmem.NewCartStore(),
		orders:        inmem.NewOrderStore(),
		payments:      inmem.NewPaymentStore(),
		prescriptions: inmem.NewPrescriptionStore(),
	}

	e.cartSvc = service.NewCart(e.carts, e.products, e.prescriptions)
	e.orderSvc = service.NewOrder(e.orders, e.products, e.products, e.carts, e.prescriptions, nil)
	e.paymentSvc = service.NewPayment(e.payments, e.orderSvc)

	return e
}

func (e *env) addProduct(t *testing.T, stock int, price string, gated bool) domain.Product {
	t.Helper()
	ctx := context.Background()

	product := domain.Product{
		Name:                 gofakeit.ProductName(),
		Category:             gofakeit.ProductCategory(),
		Price:                money(price),
		Stock:                stock,
		RequiresPrescription: gated,
	}

	productID, err := e.products.InsertProduct(ctx, product)
	require.NoError(t, err)

	inserted, err := e.products.GetProduct(ctx, productID)
	require.NoError(t, err)

	return inserted
}

// approvePrescription files and approves a prescription for (owner, product).
func (e *env) approvePrescription(t *testing.T, ownerID string, product domain.Product) {
	t.Helper()
	ctx := context.Background()

	prescriptionID, err := e.prescriptions.InsertPrescription(ctx, domain.Prescription{
		OwnerID:    ownerID,
		ProductID:  product.ID,
		DoctorName: gofakeit.Name(),
	})
	require.NoError(t, err)

	err = e.prescriptions.UpdatePrescriptionStatus(ctx, prescriptionID, domain.PrescriptionStatusApproved)
	require.NoError(t, err)
}

func (e *env) stock(t *testing.T, product domain.Product) int {
	t.Helper()

	current, err := e.products.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)

	return current.Stock
}

func money(amount string) domain.Money {
	return domain.Money{
		Amount:   decimal.RequireFromString(amount),
		Currency: eur,
	}
}
