package domain

import "errors"

// Sentinel errors shared by services and repositories. Boundaries match them
// with errors.Is after the call-site wrapping is unwound.
var (
	ErrProductNotFound      = errors.New("product not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrCartItemNotFound     = errors.New("cart item not found")
	ErrPrescriptionNotFound = errors.New("prescription not found")

	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrPrescriptionRequired = errors.New("prescription required")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrDuplicatePayment     = errors.New("payment already exists for order")
)

// ErrorKind is the machine-checkable classification exposed in HTTP error bodies.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrPaymentNotFound),
		errors.Is(err, ErrCartItemNotFound),
		errors.Is(err, ErrPrescriptionNotFound):
		return "not_found"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrPrescriptionRequired):
		return "prescription_required"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrDuplicatePayment):
		return "duplicate_payment"
	default:
		return "internal"
	}
}
