package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pharmakart/backend/internal/domain"
)

type PaymentStore struct {
	mu       sync.RWMutex
	payments map[uuid.UUID]domain.Payment
	byOrder  map[uuid.UUID]uuid.UUID
}

func NewPaymentStore() *PaymentStore {
	return &PaymentStore{
		payments: make(map[uuid.UUID]domain.Payment),
		byOrder:  make(map[uuid.UUID]uuid.UUID),
	}
}

func (s *PaymentStore) GetPayment(_ context.Context, paymentID uuid.UUID) (domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payment, ok := s.payments[paymentID]
	if !ok {
		return domain.Payment{}, domain.ErrPaymentNotFound
	}

	return payment, nil
}

func (s *PaymentStore) GetPaymentByOrder(_ context.Context, orderID uuid.UUID) (domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paymentID, ok := s.byOrder[orderID]
	if !ok {
		return domain.Payment{}, domain.ErrPaymentNotFound
	}

	return s.payments[paymentID], nil
}

// InsertPayment enforces the 1:1 order-payment relation under a single lock,
// concurrent duplicates lose deterministically.
func (s *PaymentStore) InsertPayment(_ context.Context, payment domain.Payment) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byOrder[payment.OrderID]; exists {
		return uuid.Nil, domain.ErrDuplicatePayment
	}

	payment.ID = uuid.New()
	now := time.Now()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	s.payments[payment.ID] = payment
	s.byOrder[payment.OrderID] = payment.ID

	return payment.ID, nil
}

func (s *PaymentStore) UpdatePaymentStatus(_ context.Context, paymentID uuid.UUID, status domain.PaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment, ok := s.payments[paymentID]
	if !ok {
		return domain.ErrPaymentNotFound
	}

	payment.Status = status
	payment.UpdatedAt = time.Now()
	s.payments[paymentID] = payment

	return nil
}
