package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/pharmakart/backend/internal/domain"
	"github.com/pharmakart/backend/internal/port"
)

// PaymentService creates at most one payment per order and pushes settlement
// results back into the order state machine. Settlement is simulated
// synchronously, a gateway-backed implementation would leave the payment
// PENDING and call UpdatePaymentStatus later.
type PaymentService struct {
	payments port.PaymentRepository
	orders   *OrderService
}

func NewPayment(payments port.PaymentRepository, orders *OrderService) *PaymentService {
	return &PaymentService{
		payments: payments,
		orders:   orders,
	}
}

func (s *PaymentService) GetPayment(ctx context.Context, paymentID uuid.UUID) (domain.Payment, error) {
	payment, err := s.payments.GetPayment(ctx, paymentID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("payments.GetPayment: %w", err)
	}

	return payment, nil
}

func (s *PaymentService) GetPaymentByOrder(ctx context.Context, orderID uuid.UUID) (domain.Payment, error) {
	payment, err := s.payments.GetPaymentByOrder(ctx, orderID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("payments.GetPaymentByOrder: %w", err)
	}

	return payment, nil
}

// ProcessPayment checks the 1:1 invariant before insert; the repository's
// uniqueness guarantee catches the concurrent race the check cannot. Nothing
// is written unless the order can still take the confirmation: paying a
// cancelled or already-confirmed order fails before any payment exists.
func (s *PaymentService) ProcessPayment(ctx context.Context, orderID uuid.UUID, method domain.PaymentMethod, card *domain.CardMeta) (domain.Payment, error) {
	var p domain.Payment

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return p, err
	}

	if _, err := s.payments.GetPaymentByOrder(ctx, orderID); err == nil {
		return p, domain.ErrDuplicatePayment
	} else if !errors.Is(err, domain.ErrPaymentNotFound) {
		return p, fmt.Errorf("payments.GetPaymentByOrder: %w", err)
	}

	if !order.Status.CanTransitionTo(domain.OrderStatusConfirmed) {
		return p, fmt.Errorf("pay order in %s: %w", order.Status, domain.ErrInvalidTransition)
	}

	payment := domain.Payment{
		OrderID:       orderID,
		Amount:        order.Total,
		Method:        method,
		Status:        domain.PaymentStatusPending,
		TransactionID: uuid.NewString(),
	}

	if card != nil {
		payment.CardLastFour = card.LastFour
		payment.CardHolderName = card.HolderName
	}

	paymentID, err := s.payments.InsertPayment(ctx, payment)
	if err != nil {
		return p, fmt.Errorf("payments.InsertPayment: %w", err)
	}

	// Simulated settlement: completed as soon as the order confirms.
	return s.UpdatePaymentStatus(ctx, paymentID, domain.PaymentStatusCompleted)
}

// UpdatePaymentStatus transitions the payment and applies the order side
// effect. The order moves first and the payment status is written last, so a
// payment is never marked COMPLETED against an order that rejected its
// confirmation. FAILED cancels the order through OrderService.CancelOrder so
// stock release stays on the single path.
func (s *PaymentService) UpdatePaymentStatus(ctx context.Context, paymentID uuid.UUID, newStatus domain.PaymentStatus) (domain.Payment, error) {
	var p domain.Payment

	payment, err := s.payments.GetPayment(ctx, paymentID)
	if err != nil {
		return p, fmt.Errorf("payments.GetPayment: %w", err)
	}

	if !payment.Status.CanTransitionTo(newStatus) {
		return p, fmt.Errorf("%s -> %s: %w", payment.Status, newStatus, domain.ErrInvalidTransition)
	}

	switch newStatus {
	case domain.PaymentStatusCompleted:
		if _, err := s.orders.UpdateStatus(ctx, payment.OrderID, domain.OrderStatusConfirmed); err != nil {
			s.failPayment(ctx, paymentID)
			return p, fmt.Errorf("orders.UpdateStatus: %w", err)
		}
	case domain.PaymentStatusFailed:
		if _, err := s.orders.CancelOrder(ctx, payment.OrderID); err != nil {
			return p, fmt.Errorf("orders.CancelOrder: %w", err)
		}
	}

	if err := s.payments.UpdatePaymentStatus(ctx, paymentID, newStatus); err != nil {
		return p, fmt.Errorf("payments.UpdatePaymentStatus: %w", err)
	}

	payment.Status = newStatus

	return payment, nil
}

// failPayment records a settlement attempt that lost to a concurrent order
// transition. The write goes straight to the repository: the order moved on
// its own, the FAILED side effect must not cancel it.
func (s *PaymentService) failPayment(ctx context.Context, paymentID uuid.UUID) {
	if err := s.payments.UpdatePaymentStatus(ctx, paymentID, domain.PaymentStatusFailed); err != nil {
		log.Printf("mark payment %s failed: %v", paymentID, err)
	}
}
