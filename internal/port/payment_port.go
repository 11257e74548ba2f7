package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/pharmakart/backend/internal/domain"
)

type PaymentRepository interface {
	GetPayment(ctx context.Context, paymentID uuid.UUID) (domain.Payment, error)

	// GetPaymentByOrder enforces reads of the 1:1 order-payment relation.
	GetPaymentByOrder(ctx context.Context, orderID uuid.UUID) (domain.Payment, error)

	// InsertPayment fails with domain.ErrDuplicatePayment when a payment
	// already exists for the same order.
	InsertPayment(ctx context.Context, payment domain.Payment) (uuid.UUID, error)

	UpdatePaymentStatus(ctx context.Context, paymentID uuid.UUID, status domain.PaymentStatus) error
}
