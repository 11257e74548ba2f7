package service_test

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmakart/backend/internal/domain"
	"github.com/pharmakart/backend/internal/service"
)

func TestProcessPayment(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	product := e.addProduct(t, 10, "5.00", false)

	order, err := e.orderSvc.CreateOrder(ctx, gofakeit.UUID(), "addr", []service.OrderLine{
		{ProductID: product.ID, Quantity: 3},
	})
	require.NoError(t, err)

	payment, err := e.paymentSvc.ProcessPayment(ctx, order.ID, domain.PaymentMethodCreditCard,
		&domain.CardMeta{LastFour: "4242", HolderName: "J Doe"})
	require.NoError(t, err)

	// Simulated settlement completes synchronously.
	assert.Equal(t, domain.PaymentStatusCompleted, payment.Status)
	assert.Equal(t, order.ID, payment.OrderID)
	assert.NotEmpty(t, payment.TransactionID)
	assert.Equal(t, "4242", payment.CardLastFour)
	assertMoney(t, order.Total, payment.Amount)

	// Settlement confirms the order.
	confirmed, err := e.orderSvc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, confirmed.Status)
}

func TestProcessPaymentDuplicate(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	product := e.addProduct(t, 10, "5.00", false)

	order, err := e.orderSvc.CreateOrder(ctx, gofakeit.UUID(), "addr", []service.OrderLine{
		{ProductID: product.ID, Quantity: 1},
	})
	require.NoError(t, err)

	first, err := e.paymentSvc.ProcessPayment(ctx, order.ID, domain.PaymentMethodPaypal, nil)
	require.NoError(t, err)

	_, err = e.paymentSvc.ProcessPayment(ctx, order.ID, domain.PaymentMethodPaypal, nil)
	require.ErrorIs(t, err, domain.ErrDuplicatePayment)

	// The first payment stands untouched.
	current, err := e.paymentSvc.GetPayment(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, current.Status)
}

// TestProcessPaymentCancelledOrder: paying an order that can no longer be
// confirmed fails before any payment state exists.
func TestProcessPaymentCancelledOrder(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	product := e.addProduct(t, 10, "5.00", false)

	order, err := e.orderSvc.CreateOrder(ctx, gofakeit.UUID(), "addr", []service.OrderLine{
		{ProductID: product.ID, Quantity: 2},
	})
	require.NoError(t, err)

	_, err = e.orderSvc.CancelOrder(ctx, order.ID)
	require.NoError(t, err)

	_, err = e.paymentSvc.ProcessPayment(ctx, order.ID, domain.PaymentMethodCreditCard, nil)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	// The rejected attempt left nothing behind.
	_, err = e.payments.GetPaymentByOrder(ctx, order.ID)
	require.ErrorIs(t, err, domain.ErrPaymentNotFound)
	assert.Equal(t, 10, e.stock(t, product))
}

func TestProcessPaymentConfirmedOrder(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	product := e.addProduct(t, 10, "5.00", false)

	order, err := e.orderSvc.CreateOrder(ctx, gofakeit.UUID(), "addr", []service.OrderLine{
		{ProductID: product.ID, Quantity: 2},
	})
	require.NoError(t, err)

	// Confirmed out of band, e.g. by an operator.
	_, err = e.orderSvc.UpdateStatus(ctx, order.ID, domain.OrderStatusConfirmed)
	require.NoError(t, err)

	_, err = e.paymentSvc.ProcessPayment(ctx, order.ID, domain.PaymentMethodCreditCard, nil)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = e.payments.GetPaymentByOrder(ctx, order.ID)
	require.ErrorIs(t, err, domain.ErrPaymentNotFound)

	confirmed, err := e.orderSvc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, confirmed.Status)
}

// TestCompletePaymentAfterOrderMoved: when the order transitions between the
// payment being created and settled, the settlement is recorded FAILED and
// the payment never reaches COMPLETED.
func TestCompletePaymentAfterOrderMoved(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	product := e.addProduct(t, 10, "5.00", false)

	order, err := e.orderSvc.CreateOrder(ctx, gofakeit.UUID(), "addr", []service.OrderLine{
		{ProductID: product.ID, Quantity: 2},
	})
	require.NoError(t, err)

	paymentID, err := e.payments.InsertPayment(ctx, domain.Payment{
		OrderID:       order.ID,
		Amount:        order.Total,
		Method:        domain.PaymentMethodBankTransfer,
		Status:        domain.PaymentStatusPending,
		TransactionID: uuid.NewString(),
	})
	require.NoError(t, err)

	_, err = e.orderSvc.UpdateStatus(ctx, order.ID, domain.OrderStatusConfirmed)
	require.NoError(t, err)

	_, err = e.paymentSvc.UpdatePaymentStatus(ctx, paymentID, domain.PaymentStatusCompleted)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	payment, err := e.paymentSvc.GetPayment(ctx, paymentID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusFailed, payment.Status)

	// The lost settlement must not cancel the order either.
	current, err := e.orderSvc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, current.Status)
	assert.Equal(t, 8, e.stock(t, product))
}

func TestProcessPaymentOrderNotFound(t *testing.T) {
	e := newEnv()

	_, err := e.paymentSvc.ProcessPayment(context.Background(), uuid.New(), domain.PaymentMethodCashOnDelivery, nil)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}

// TestPaymentFailureCancelsOrder drives the deferred-settlement path: a
// payment created PENDING and later failed cancels the order through the
// same release logic as a user cancellation.
func TestPaymentFailureCancelsOrder(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	product := e.addProduct(t, 10, "5.00", false)

	order, err := e.orderSvc.CreateOrder(ctx, gofakeit.UUID(), "addr", []service.OrderLine{
		{ProductID: product.ID, Quantity: 4},
	})
	require.NoError(t, err)
	require.Equal(t, 6, e.stock(t, product))

	paymentID, err := e.payments.InsertPayment(ctx, domain.Payment{
		OrderID:       order.ID,
		Amount:        order.Total,
		Method:        domain.PaymentMethodBankTransfer,
		Status:        domain.PaymentStatusPending,
		TransactionID: uuid.NewString(),
	})
	require.NoError(t, err)

	failed, err := e.paymentSvc.UpdatePaymentStatus(ctx, paymentID, domain.PaymentStatusFailed)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusFailed, failed.Status)

	cancelled, err := e.orderSvc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, 10, e.stock(t, product))
}

func TestRefund(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	product := e.addProduct(t, 10, "5.00", false)

	order, err := e.orderSvc.CreateOrder(ctx, gofakeit.UUID(), "addr", []service.OrderLine{
		{ProductID: product.ID, Quantity: 1},
	})
	require.NoError(t, err)

	payment, err := e.paymentSvc.ProcessPayment(ctx, order.ID, domain.PaymentMethodDebitCard, nil)
	require.NoError(t, err)

	refunded, err := e.paymentSvc.UpdatePaymentStatus(ctx, payment.ID, domain.PaymentStatusRefunded)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusRefunded, refunded.Status)

	// REFUNDED is terminal.
	_, err = e.paymentSvc.UpdatePaymentStatus(ctx, payment.ID, domain.PaymentStatusCompleted)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestUpdatePaymentStatusNotFound(t *testing.T) {
	e := newEnv()

	_, err := e.paymentSvc.UpdatePaymentStatus(context.Background(), uuid.New(), domain.PaymentStatusCompleted)
	require.ErrorIs(t, err, domain.ErrPaymentNotFound)
}
