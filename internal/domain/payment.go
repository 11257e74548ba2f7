package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	PaymentMethodCreditCard     PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard      PaymentMethod = "DEBIT_CARD"
	PaymentMethodPaypal         PaymentMethod = "PAYPAL"
	PaymentMethodBankTransfer   PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
)

var validPaymentMethods = map[PaymentMethod]struct{}{
	PaymentMethodCreditCard:     {},
	PaymentMethodDebitCard:      {},
	PaymentMethodPaypal:         {},
	PaymentMethodBankTransfer:   {},
	PaymentMethodCashOnDelivery: {},
}

func ToPaymentMethod(s string) (PaymentMethod, error) {
	method := PaymentMethod(s)
	if _, ok := validPaymentMethods[method]; ok {
		return method, nil
	}

	return "", errors.New("invalid payment method")
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// paymentTransitions: FAILED and REFUNDED are terminal, there is no
// retry-from-FAILED in the simulated flow.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:   {PaymentStatusCompleted, PaymentStatusFailed},
	PaymentStatusCompleted: {PaymentStatusRefunded},
	PaymentStatusFailed:    {},
	PaymentStatusRefunded:  {},
}

func ToPaymentStatus(s string) (PaymentStatus, error) {
	status := PaymentStatus(s)
	if _, ok := paymentTransitions[status]; ok {
		return status, nil
	}

	return "", errors.New("invalid payment status")
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Payment references exactly one order; at most one payment exists per order.
// Raw card numbers are never stored, only the masked metadata below.
type Payment struct {
	ID            uuid.UUID
	OrderID       uuid.UUID
	Amount        Money
	Method        PaymentMethod
	Status        PaymentStatus
	TransactionID string

	CardLastFour   string
	CardHolderName string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CardMeta is the masked card metadata accepted at payment time.
type CardMeta struct {
	LastFour   string
	HolderName string
}
