package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/pharmakart/backend/internal/domain"
)

type PrescriptionRepository interface {
	GetPrescription(ctx context.Context, prescriptionID uuid.UUID) (domain.Prescription, error)

	ListPrescriptions(ctx context.Context, filter domain.PrescriptionFilter) ([]domain.Prescription, error)

	// HasApproved reports whether the owner holds an APPROVED prescription
	// for the product. This feeds the cart/order prescription gate.
	HasApproved(ctx context.Context, ownerID string, productID uuid.UUID) (bool, error)

	InsertPrescription(ctx context.Context, prescription domain.Prescription) (uuid.UUID, error)
	UpdatePrescriptionStatus(ctx context.Context, prescriptionID uuid.UUID, status domain.PrescriptionStatus) error
}
